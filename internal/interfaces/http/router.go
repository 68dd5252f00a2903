// Package http wires the gin route tree and the HTTP server for the API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/prometheus"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/handlers"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/middleware"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// RouterConfig aggregates the handlers and middleware for the route tree.
// Nil handlers leave their routes unregistered, nil middleware is skipped,
// so a minimal deployment (stats only, no search or graph) still serves.
type RouterConfig struct {
	StatsHandler   *handlers.StatsHandler
	LawsHandler    *handlers.LawsHandler
	NetworkHandler *handlers.NetworkHandler
	SearchHandler  *handlers.SearchHandler
	HealthHandler  *handlers.HealthHandler

	AdminGate   *middleware.AdminGate
	RateLimiter middleware.RateLimiter
	CORS        *middleware.CORSConfig

	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, "/health", "/metrics"))
	}
	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, "/health", "/metrics"))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.Health)
	}

	api := r.Group("/api")
	if cfg.StatsHandler != nil {
		api.GET("/stats", cfg.StatsHandler.Stats)
		api.GET("/refresh-status", cfg.StatsHandler.RefreshStatus)
		api.GET("/il-stats", cfg.StatsHandler.Stats)
		api.GET("/il-refresh-status", cfg.StatsHandler.RefreshStatus)
		api.GET("/il-sessions", cfg.StatsHandler.Sessions)

		if cfg.AdminGate != nil {
			api.POST("/refresh", cfg.AdminGate.RequireAdmin(), cfg.StatsHandler.Refresh)
		}
	}
	if cfg.LawsHandler != nil {
		api.GET("/laws", cfg.LawsHandler.Laws)
	}
	if cfg.NetworkHandler != nil {
		api.GET("/il-network", cfg.NetworkHandler.Network)
	}
	if cfg.SearchHandler != nil {
		api.GET("/bills/search", cfg.SearchHandler.Search)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    string(apperrors.CodeNotFound),
			"message": "route not found",
		})
	})

	return r
}

//Personal.AI order the ending
