package search

import (
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
)

type Searcher interface {
	Search(queryString string, limit int, offset int) (*searchdb.Response, error)
}

type Service struct {
	logger   logger.Logger
	searcher Searcher
}

func New(logger logger.Logger, searcher Searcher) *Service {
	return &Service{
		logger:   logger,
		searcher: searcher,
	}
}

// Search finds processed files containing the query tokens.
func (s *Service) Search(queryString string, limit int, offset int) (*searchdb.Response, error) {
	response, err := s.searcher.Search(queryString, limit, offset)
	if err != nil {
		s.logger.Error("search failed", "query", queryString, "err", err.Error())
		return nil, err
	}

	s.logger.Debug("search completed", "query", queryString, "total", response.Total, "took", response.SearchTime)
	return response, nil
}
