package searchdb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/lexfeat/config"
	"github.com/meghashyamc/lexfeat/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldContent    = "content"
	indexFieldName       = "name"
	indexFieldPath       = "path"
	indexFieldSize       = "size"
	indexFieldModTime    = "mod_time"
	indexFieldTokenCount = "token_count"
)

// Content is split into the same word runs the lexer produces, without case folding.
const (
	sourceCodeAnalyzer = "source_code"
	wordRunTokenizer   = "word_runs"
	wordRunPattern     = `\w+`
)

var quotedPhraseRegex = regexp.MustCompile(`"([^"]*)"`)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	return newAt(logger, filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath()))
}

func newAt(logger logger.Logger, indexPath string) (*BleveDB, error) {
	indexMapping, err := createIndexMapping()
	if err != nil {
		logger.Error("could not create index mapping", "err", err.Error())
		return nil, err
	}

	index, err := bleve.New(indexPath, indexMapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func (b *BleveDB) BuildIndex(documents []*Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.ID, doc); err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index document", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() (mapping.IndexMapping, error) {

	indexMapping := bleve.NewIndexMapping()

	if err := indexMapping.AddCustomTokenizer(wordRunTokenizer, map[string]interface{}{
		"type":   regexptokenizer.Name,
		"regexp": wordRunPattern,
	}); err != nil {
		return nil, fmt.Errorf("failed to register tokenizer: %w", err)
	}

	if err := indexMapping.AddCustomAnalyzer(sourceCodeAnalyzer, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": wordRunTokenizer,
	}); err != nil {
		return nil, fmt.Errorf("failed to register analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()

	// Path field - not analyzed (exact match)
	pathFieldMapping := bleve.NewTextFieldMapping()
	pathFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldPath, pathFieldMapping)

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldName, nameFieldMapping)

	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = sourceCodeAnalyzer
	contentFieldMapping.Store = false
	contentFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldContent, contentFieldMapping)

	docMapping.AddFieldMappingsAt(indexFieldSize, bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt(indexFieldTokenCount, bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt(indexFieldModTime, bleve.NewDateTimeFieldMapping())

	indexMapping.DefaultMapping = docMapping

	return indexMapping, nil
}

func (b *BleveDB) Search(queryString string, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(b.buildSearchQuery(queryString), limit, offset, false)
	searchRequest.Fields = []string{indexFieldPath, indexFieldName, indexFieldSize, indexFieldModTime, indexFieldTokenCount}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if path, ok := hit.Fields[indexFieldPath].(string); ok {
			result.Path = path
		}
		if name, ok := hit.Fields[indexFieldName].(string); ok {
			result.Name = name
		}
		if size, ok := hit.Fields[indexFieldSize].(float64); ok {
			result.Size = int64(size)
		}
		if modTime, ok := hit.Fields[indexFieldModTime].(string); ok {
			result.ModTime = modTime
		}
		if tokenCount, ok := hit.Fields[indexFieldTokenCount].(float64); ok {
			result.TokenCount = int(tokenCount)
		}

		results[i] = result
	}

	return &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}, nil
}

// buildSearchQuery requires every quoted phrase to appear in the content and
// scores the remaining terms against content and file name. Tokens are case-sensitive.
func (b *BleveDB) buildSearchQuery(queryString string) query.Query {

	const (
		boostForContent     = 3.0
		boostForFileName    = 2.0
		boostForPhraseMatch = 5.0
	)

	quoted, remaining := parseQuotedQuery(queryString)
	if len(quoted) == 0 && remaining == "" {
		return bleve.NewMatchAllQuery()
	}

	conjunctQuery := bleve.NewConjunctionQuery()

	for _, phrase := range quoted {
		phraseQuery := bleve.NewMatchPhraseQuery(phrase)
		phraseQuery.SetField(indexFieldContent)
		phraseQuery.SetBoost(boostForPhraseMatch)
		conjunctQuery.AddQuery(phraseQuery)
	}

	if remaining != "" {
		disjunctQuery := bleve.NewDisjunctionQuery()

		contentQuery := bleve.NewMatchQuery(remaining)
		contentQuery.SetField(indexFieldContent)
		contentQuery.SetBoost(boostForContent)
		disjunctQuery.AddQuery(contentQuery)

		nameQuery := bleve.NewMatchQuery(remaining)
		nameQuery.SetField(indexFieldName)
		nameQuery.SetBoost(boostForFileName)
		disjunctQuery.AddQuery(nameQuery)

		conjunctQuery.AddQuery(disjunctQuery)
	}

	return conjunctQuery
}

func parseQuotedQuery(input string) ([]string, string) {
	var quoted []string
	for _, match := range quotedPhraseRegex.FindAllStringSubmatch(input, -1) {
		if phrase := strings.Join(strings.Fields(match[1]), " "); phrase != "" {
			quoted = append(quoted, phrase)
		}
	}

	remaining := strings.Join(strings.Fields(quotedPhraseRegex.ReplaceAllString(input, " ")), " ")

	return quoted, remaining
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	batch := b.index.NewBatch()

	for i, docID := range documentIDs {
		batch.Delete(docID)

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
