package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/api/handlers"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/features"
	"github.com/meghashyamc/lexfeat/validation"
)

func setupRoutes(ctx context.Context, router *gin.Engine, logger logger.Logger, searchDB searchdb.DB, kvDB kvdb.DB, validator *validation.Validator, options features.Options) {
	router.GET("/health", health())

	handlers.SetupLexer(router, logger, validator)
	handlers.SetupFeatures(ctx, router, logger, searchDB, kvDB, validator, options)
	handlers.SetupSearch(router, logger, searchDB, validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
