package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/extract"
	"github.com/meghashyamc/lexfeat/services/lexer"
	"github.com/meghashyamc/lexfeat/validation"
)

type TokenizeRequest struct {
	Text          string `json:"text"`
	Policy        string `json:"policy" validate:"valid_policy"`
	StripComments bool   `json:"strip_comments"`
}

type TokenizeResponse struct {
	Frequencies lexer.FrequencyMap `json:"frequencies"`
	Total       int                `json:"total"`
}

type StripRequest struct {
	Text string `json:"text"`
}

type StripResponse struct {
	Text  string `json:"text"`
	Lines int    `json:"lines"`
}

type URLsRequest struct {
	Text string `json:"text"`
}

type URLsResponse struct {
	URLs []string `json:"urls"`
}

type KeywordsRequest struct {
	Message  string   `json:"message"`
	Keywords []string `json:"keywords" validate:"required"`
}

type KeywordsResponse struct {
	Found bool `json:"found"`
}

func SetupLexer(router *gin.Engine, logger logger.Logger, validator *validation.Validator) {
	router.POST("/tokenize", handleTokenize(logger, validator))
	router.POST("/strip", handleStrip(logger))
	router.POST("/urls", handleURLs(logger))
	router.POST("/keywords", handleKeywords(logger, validator))
}

func handleTokenize(logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := TokenizeRequest{}
		if !bindJSON(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		policy := lexer.Strict
		if request.Policy != "" {
			// Already validated
			policy, _ = lexer.ParseFilterPolicy(request.Policy)
		}

		text := request.Text
		if request.StripComments {
			text = lexer.StripCommentsText(text)
		}

		frequencies := lexer.Tokenize(text, policy)
		writeResponse(c, TokenizeResponse{Frequencies: frequencies, Total: frequencies.Total()}, http.StatusOK, nil)
	}
}

func handleStrip(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := StripRequest{}
		if !bindJSON(c, logger, &request) {
			return
		}

		stripped := lexer.StripCommentsText(request.Text)
		writeResponse(c, StripResponse{Text: stripped, Lines: countLines(stripped)}, http.StatusOK, nil)
	}
}

func handleURLs(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := URLsRequest{}
		if !bindJSON(c, logger, &request) {
			return
		}

		urls := extract.ExtractURLs(request.Text)
		if urls == nil {
			urls = []string{}
		}
		writeResponse(c, URLsResponse{URLs: urls}, http.StatusOK, nil)
	}
}

func handleKeywords(logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := KeywordsRequest{}
		if !bindJSON(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		writeResponse(c, KeywordsResponse{Found: extract.ContainsAny(request.Message, request.Keywords)}, http.StatusOK, nil)
	}
}

func countLines(text string) int {
	return strings.Count(text, "\n") + 1
}
