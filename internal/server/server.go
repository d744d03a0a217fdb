// Package server exposes the recommendation system over HTTP: a small JSON
// API plus an embedded chat-style UI.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web
var webFS embed.FS

type Server struct {
	engine *gin.Engine
	logger *zap.Logger
	port   int
}

// New wires the handlers into a gin engine. The engine is exposed through
// Handler() so tests can drive it without a listener.
func New(port int, svc RecommendService, store SessionReader, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(logger), Cors())

	recommendHandler := NewRecommendHandler(svc, logger)
	categoriesHandler := NewCategoriesHandler()
	sessionHandler := NewSessionHandler(store)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "configured": svc.Configured()})
	})
	api := engine.Group("/api")
	{
		api.GET("/categories", categoriesHandler.List)
		api.POST("/recommendations", recommendHandler.Recommend)
		api.GET("/sessions", sessionHandler.List)
		api.GET("/sessions/:id", sessionHandler.Get)
	}

	engine.GET("/", func(c *gin.Context) {
		b, err := webFS.ReadFile("web/index.html")
		if err != nil {
			RespondError(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", b)
	})

	return &Server{engine: engine, logger: logger, port: port}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", s.port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown gracefully: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("shutdown complete")
	return nil
}
