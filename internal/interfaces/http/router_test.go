package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/prometheus"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/handlers"
	"github.com/Doommen3/congress-bill-stats/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// routerStatsService is the minimal serving fake for route wiring tests.
type routerStatsService struct{}

func (routerStatsService) DefaultSession() int { return 104 }

func (routerStatsService) Sessions() []stats.SessionInfo {
	return []stats.SessionInfo{{Session: 104, Years: "2025-2026", Default: true}}
}

func (routerStatsService) CachedReport(context.Context, int) ([]byte, bool) {
	return []byte(`{"ga_session":104}`), true
}

func (routerStatsService) Rebuild(context.Context, int) ([]byte, error) {
	return []byte(`{"ga_session":104}`), nil
}

func (routerStatsService) RefreshStatus(session int) stats.RefreshStatus {
	return stats.RefreshStatus{Session: session, State: stats.RefreshIdle}
}

func (routerStatsService) RequestRefresh(context.Context, int, bool) error { return nil }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gate := middleware.NewAdminGate(config.AdminConfig{AllowedCIDRs: []string{"10.0.0.0/8"}})
	return NewRouter(RouterConfig{
		StatsHandler:  handlers.NewStatsHandler(routerStatsService{}, gate),
		HealthHandler: handlers.NewHealthHandler(nil),
		AdminGate:     gate,
		Metrics:       prometheus.NewMetrics(),
	})
}

func TestRouterServesCoreRoutes(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{
		"/health",
		"/api/stats",
		"/api/il-stats",
		"/api/refresh-status",
		"/api/il-refresh-status",
		"/api/il-sessions",
		"/metrics",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterRefreshBehindAdminGate(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.RemoteAddr = "203.0.113.9:100"
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.RemoteAddr = "10.1.2.3:100"
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRouterUnknownRouteIs404(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route not found")
}

func TestRouterAssignsRequestIDs(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/il-sessions", nil))
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestRouterOptionalHandlersUnregistered(t *testing.T) {
	r := NewRouter(RouterConfig{HealthHandler: handlers.NewHealthHandler(nil)})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bills/search", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

//Personal.AI order the ending
