// Package rest exposes the assistant over a JSON HTTP API.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandevgo/guata/internal/config"
	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/log"
	"github.com/sandevgo/guata/pkg/srv"
)

type Server struct {
	cfg    *config.HTTPConfig
	server *http.Server
}

var _ srv.Service = (*Server)(nil)

func NewServer(ctx context.Context, cfg *config.HTTPConfig, assistant core.Assistant) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: NewRouter(ctx, cfg, assistant),
		},
	}
}

func NewRouter(ctx context.Context, cfg *config.HTTPConfig, assistant core.Assistant) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	h := NewHandler(assistant, cfg.RequestTimeout)

	r := gin.New()
	r.Use(gin.Recovery(), withContext(ctx), recordMetrics(), accessLog(ctx), securityHeaders())

	r.GET("/healthz", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat", h.HandleChat)
		v1.POST("/corrections", h.HandleCorrection)

		stats := v1.Group("/stats")
		stats.GET("/cache", h.HandleCacheStats)
		stats.GET("/learning", h.HandleLearningStats)
		stats.GET("/fetch", h.HandleFetchUsage)

		if curator, ok := assistant.(core.Curator); ok {
			ch := NewCurationHandler(curator)
			learning := v1.Group("/learning")
			learning.GET("/patterns", ch.HandlePatterns)
			learning.DELETE("/patterns", ch.HandleForgetPattern)
			learning.GET("/corrections", ch.HandleCorrections)
			learning.POST("/corrections/:id/verify", ch.HandleVerifyCorrection)
		}
	}

	return r
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests. ctx is usually already cancelled by
// the signal, so the drain gets its own deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("stopping http server")

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}
