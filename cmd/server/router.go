package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/handlers"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/middleware"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func newRouter(ctx context.Context, cfg *config.Config, h *handlers.Handler, repo ports.GenerationRepository, collector *metrics.Collector) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.Metrics(collector), gin.Recovery())

	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.Server.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders: []string{"Content-Disposition", "X-Deleted-Count", middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	api := router.Group(dto.APIBasePath)
	h.RegisterRoutes(api, middleware.RateLimit(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	router.GET("/manifest", h.Manifest)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
