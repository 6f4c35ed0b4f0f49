package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/lexfeat/config"
	"github.com/meghashyamc/lexfeat/db/kvdb"
	"github.com/meghashyamc/lexfeat/db/searchdb"
	"github.com/meghashyamc/lexfeat/logger"
	"github.com/meghashyamc/lexfeat/services/features"
	"github.com/meghashyamc/lexfeat/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       *kvdb.BoltDB
	searchdb   *searchdb.BleveDB
	validator  *validation.Validator
	options    features.Options
	logger     logger.Logger
}

// Run serves the HTTP API until ctx is done or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	defer s.closeDependencies()
	if err := s.setupDependencies(); err != nil {
		return err
	}

	s.setupRouter(ctx)
	return s.serve(ctx)
}

func (s *server) setupDependencies() error {
	var err error
	s.options, err = features.OptionsFromConfig(s.cfg)
	if err != nil {
		s.logger.Error("invalid feature options", "err", err.Error())
		return err
	}
	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil

}

func (s *server) closeDependencies() {
	if s.kvdb != nil {
		if err := s.kvdb.Close(); err != nil {
			s.logger.Error("error closing kvDB", "err", err.Error())
		}
	}
	if s.searchdb != nil {
		if err := s.searchdb.Close(); err != nil {
			s.logger.Error("error closing searchDB", "err", err.Error())
		}
	}
}

func (s *server) setupRouter(ctx context.Context) {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	setupRoutes(ctx, router, s.logger, s.searchdb, s.kvdb, s.validator, s.options)

	s.router = router
}

func (s *server) serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			s.logger.Error("http server failed", "err", err.Error())
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err.Error())
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
