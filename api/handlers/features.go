package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/features"
	"github.com/meghashyamc/lexfeat/services/lexer"
	"github.com/meghashyamc/lexfeat/validation"
)

type FeaturesRequest struct {
	Path    string `json:"path" validate:"valid_path"`
	Pattern string `json:"pattern" validate:"valid_pattern"`
}

type FeaturesResponse struct {
	ID string `json:"id"`
}

type FeaturesStatusRequest struct {
	ID string `uri:"id" json:"id" validate:"required,uuid4"`
}

type FeaturesStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

type FrequenciesRequest struct {
	Path string `form:"path" validate:"required"`
}

type FrequenciesResponse struct {
	Path        string             `json:"path"`
	Frequencies lexer.FrequencyMap `json:"frequencies"`
	Total       int                `json:"total"`
}

type CorpusRequest struct {
	Top int `form:"top" validate:"min=0"`
}

type CorpusResponse struct {
	Tokens []lexer.TokenCount `json:"tokens"`
	Total  int                `json:"total"`
}

func SetupFeatures(ctx context.Context, router *gin.Engine, logger logger.Logger, indexer features.Indexer, store features.MetadataStore, validator *validation.Validator, options features.Options) {
	service := features.New(ctx, logger, indexer, store, options)
	router.POST("/features", handleBuildFeatures(service, logger, validator))
	router.GET("/features/:id", handleGetFeaturesStatus(service, logger, validator))
	router.GET("/frequencies", handleGetFrequencies(service, logger, validator))
	router.GET("/corpus", handleGetCorpus(service, logger, validator))
}

func handleBuildFeatures(service *features.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FeaturesRequest{}
		if !bindJSON(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		requestID := uuid.New().String()
		if err := service.Build(request.Path, request.Pattern, requestID); err != nil {
			logger.Warn("could not start feature extraction", "err", err.Error())
			c.Abort()
			statusCode := http.StatusInternalServerError
			if errors.Is(err, features.ErrExtractionInProgress) {
				statusCode = http.StatusConflict
			}
			writeResponse(c, nil, statusCode, []string{err.Error()})
			return
		}

		writeResponse(c, FeaturesResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleGetFeaturesStatus(service *features.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FeaturesStatusRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract request id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request id"})
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		progress, err := service.GetStatus(request.ID)
		if err != nil {
			c.Abort()
			if errors.Is(err, kvdb.ErrNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{"request not found"})
				return
			}
			logger.Error("could not get feature extraction status", "request_id", request.ID, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		statusResponse := FeaturesStatusResponse{ID: request.ID, Progress: progress}
		switch progress {
		case features.ProgressStatusComplete:
			writeResponse(c, statusResponse, http.StatusOK, nil)
		case features.ProgressStatusFailed:
			writeResponse(c, statusResponse, http.StatusInternalServerError, []string{"feature extraction failed"})
		default:
			writeResponse(c, statusResponse, http.StatusAccepted, nil)
		}
	}
}

func handleGetFrequencies(service *features.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := FrequenciesRequest{}
		if !bindQuery(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		frequencies, err := service.GetFrequencies(request.Path)
		if err != nil {
			c.Abort()
			if errors.Is(err, kvdb.ErrNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{"no frequencies for path"})
				return
			}
			logger.Error("could not get frequencies", "path", request.Path, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, FrequenciesResponse{Path: request.Path, Frequencies: frequencies, Total: frequencies.Total()}, http.StatusOK, nil)
	}
}

func handleGetCorpus(service *features.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := CorpusRequest{}
		if !bindQuery(c, logger, &request) {
			return
		}

		if !validateRequest(c, validator, request) {
			return
		}

		corpus, err := service.CorpusFrequencies()
		if err != nil {
			logger.Error("could not build corpus frequencies", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, CorpusResponse{Tokens: corpus.Top(request.Top), Total: corpus.Total()}, http.StatusOK, nil)
	}
}
