// Package server - HTTP API над сборкой контекста: упаковка, сжатие, проверка
// внешнего текста и запрос к модели.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"contextAgent/internal/config"
	"contextAgent/internal/llm"
	"contextAgent/internal/pipeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg       *config.Cfg
	log       *zap.Logger
	assembler *pipeline.Assembler
	gen       llm.Generator
	metrics   *Metrics
	router    *gin.Engine
}

// New собирает роутер. gen может быть nil: тогда /api/ask отвечает 503.
func New(cfg *config.Cfg, log *zap.Logger, gen llm.Generator) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Logger.Env == "prod" || cfg.Logger.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:       cfg,
		log:       log,
		assembler: pipeline.New(cfg.Context, log),
		gen:       gen,
		metrics:   NewMetrics(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.metrics.Middleware())

	// Простейший лог-мидлвар
	r.Use(func(c *gin.Context) {
		c.Next()
		s.log.Debug("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "llm": s.gen != nil})
	})
	r.GET("/metrics", s.metrics.Handler())

	api := r.Group("/api")
	api.POST("/pack", s.handlePack)
	api.POST("/digest", s.handleDigest)
	api.POST("/scan", s.handleScan)
	api.POST("/bundle", s.handleBundle)
	api.POST("/transcript", s.handleTranscript)
	api.POST("/context", s.handleContext)
	api.POST("/ask", s.handleAsk)

	return r
}

// Run слушает APP_HOST:APP_PORT до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.App.Host, s.cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Сервер запущен", zap.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("Остановка сервера")
	return srv.Shutdown(shutdownCtx)
}
