// SPDX-License-Identifier: Apache-2.0

// Package web serves the generator over HTTP
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kusari-oss/readmegen/internal/core/options"
	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/kusari-oss/readmegen/internal/logger"
	"github.com/kusari-oss/readmegen/internal/metrics"
	"github.com/kusari-oss/readmegen/internal/session"
)

const shutdownTimeout = 30 * time.Second

// Config configures the HTTP server
type Config struct {
	ListenAddr   string
	DownloadName string
	Defaults     options.GenerationOptions
	Debug        bool
}

// Server is the HTTP surface of the generator
type Server struct {
	config  Config
	service *generator.Service
	store   session.Store
	engine  *gin.Engine
}

// NewServer wires the routes around service and store
func NewServer(cfg Config, service *generator.Service, store session.Store) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		service: service,
		store:   store,
		engine:  gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupMiddleware() {
	s.engine.Use(Recovery())
	s.engine.Use(RequestID())
	s.engine.Use(AccessLog())
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/generate", s.generate)

		sessions := v1.Group("/sessions")
		sessions.GET("/:id", s.getSession)
		sessions.DELETE("/:id", s.resetSession)
		sessions.GET("/:id/download", s.download)

		opts := v1.Group("/options")
		opts.GET("/defaults", s.optionDefaults)
		opts.GET("/schema", s.optionSchema)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", "addr", s.config.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
