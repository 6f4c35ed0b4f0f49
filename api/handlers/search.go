package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/search"
	"github.com/meghashyamc/lexfeat/validation"
)

const defaultResultsPerPage = 20

// SearchRequest looks up processed files by their tokens. Matching is case sensitive.
type SearchRequest struct {
	Query   string `form:"query" validate:"required,valid_query,min=1,max=1000"`
	PerPage int    `form:"per_page" validate:"min=0,max=100"`
	Page    int    `form:"page" validate:"min=0"`
}

// window converts the 1-based page into a limit and offset. Zero values pick the defaults.
func (r SearchRequest) window() (limit int, offset int) {
	limit = r.PerPage
	if limit == 0 {
		limit = defaultResultsPerPage
	}

	page := max(r.Page, 1)
	return limit, (page - 1) * limit
}

type SearchResponse struct {
	Results     []searchdb.Result `json:"results"`
	PageDetails Pagination        `json:"page_details"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, searcher search.Searcher, validator *validation.Validator) {
	service := search.New(logger, searcher)
	router.GET("/search", handleSearch(service, logger, validator))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if !bindQuery(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		limit, offset := request.window()
		response, err := service.Search(request.Query, limit, offset)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{"token search failed"})
			return
		}

		results := response.Results
		if results == nil {
			results = []searchdb.Result{}
		}

		writeResponse(c, SearchResponse{
			Results:     results,
			PageDetails: calculatePagination(int(response.Total), limit, offset),
		}, http.StatusOK, nil)
	}
}
