// Package server is the HTTP adapter: it translates requests into calls
// on the extraction, consolidation and export components and performs the
// side effects (file download, sheet append) the pure renderers leave to
// their caller.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/auth"
	"github.com/snapextract/snapextract/internal/extract"
	"github.com/snapextract/snapextract/internal/profile"
	"github.com/snapextract/snapextract/internal/sheets"
)

// Config holds HTTP server configuration
type Config struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxFileSizeMB      int
	ExtractConcurrency int
}

// Server is the HTTP adapter for the application
type Server struct {
	config     Config
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer wires the routes and middleware around the given collaborators.
func NewServer(
	cfg Config,
	authSvc *auth.Service,
	profileStore *profile.Store,
	extractor extract.Extractor,
	summarizer extract.Summarizer,
	converter *extract.Converter,
	appender sheets.Appender,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	s := &Server{
		config: cfg,
		router: router,
		logger: logger,
	}

	handlers := NewHandlers(HandlerDeps{
		Auth:               authSvc,
		Profile:            profileStore,
		Extractor:          extractor,
		Summarizer:         summarizer,
		Converter:          converter,
		Appender:           appender,
		MaxFileSizeMB:      cfg.MaxFileSizeMB,
		ExtractConcurrency: cfg.ExtractConcurrency,
		Logger:             logger,
	})

	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api/v1")
	api.POST("/login", handlers.Login)

	authed := api.Group("")
	authed.Use(auth.Middleware(authSvc))
	{
		authed.POST("/extract", handlers.Extract)
		authed.POST("/export/text", handlers.ExportText)
		authed.POST("/export/mailto", handlers.ExportMailto)
		authed.POST("/export/csv", handlers.ExportCSV)
		authed.POST("/export/xlsx", handlers.ExportXLSX)
		authed.POST("/export/sheets", handlers.ExportSheets)
		authed.GET("/profile", handlers.GetProfile)
		authed.PUT("/profile", handlers.UpdateProfile)
	}

	return s
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router exposes the gin router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
