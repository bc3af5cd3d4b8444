package service

import (
	"net/http"

	"github.com/waltherrera/Social-Media-Database/config"
	"github.com/waltherrera/Social-Media-Database/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware, the API group, /metrics and /healthz.
func NewRouter(cfg *config.Config, h *Handler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(), m.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", m.Handler())

	api := r.Group("/api", RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst))
	h.Register(api)
	return r
}
