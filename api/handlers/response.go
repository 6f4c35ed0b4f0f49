package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/validation"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// bindJSON writes a 422 response and returns false when the body cannot be parsed.
func bindJSON(c *gin.Context, logger logger.Logger, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		logger.Warn("could not extract expected parameters from the request body", "path", c.FullPath(), "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
		return false
	}
	return true
}

// bindQuery writes a 422 response and returns false when the query string cannot be parsed.
func bindQuery(c *gin.Context, logger logger.Logger, request any) bool {
	if err := c.ShouldBindQuery(request); err != nil {
		logger.Warn("could not extract expected params from the query string", "path", c.FullPath(), "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract query parameters"})
		return false
	}
	return true
}

// validateRequest writes a 406 response and returns false when request fails validation.
func validateRequest(c *gin.Context, validator *validation.Validator, request any) bool {
	if err := validator.Validate(request); err != nil {
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return false
	}
	return true
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func calculatePagination(total, limit, offset int) Pagination {
	pageSize := limit
	currentPage := (offset / limit) + 1
	totalPages := (total + pageSize - 1) / pageSize

	if totalPages == 0 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		TotalResults: total,
	}
}
