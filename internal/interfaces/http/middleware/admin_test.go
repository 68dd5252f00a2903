package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRequest(remoteAddr, forwardedFor string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	return req
}

func TestAdminGateMatchesCIDRAndBareIP(t *testing.T) {
	gate := NewAdminGate(config.AdminConfig{
		AllowedCIDRs: []string{"10.1.0.0/16", "192.168.7.9", "bogus", ""},
	})

	assert.True(t, gate.IsAdmin(adminRequest("10.1.44.3:52110", "")))
	assert.True(t, gate.IsAdmin(adminRequest("192.168.7.9:1000", "")))
	assert.False(t, gate.IsAdmin(adminRequest("10.2.0.1:52110", "")))
	assert.False(t, gate.IsAdmin(adminRequest("192.168.7.10:1000", "")))
}

func TestAdminGateUpdateSwapsAllowlist(t *testing.T) {
	gate := NewAdminGate(config.AdminConfig{AllowedCIDRs: []string{"10.1.0.0/16"}})
	assert.True(t, gate.IsAdmin(adminRequest("10.1.44.3:52110", "")))

	gate.Update(config.AdminConfig{AllowedCIDRs: []string{"172.16.0.0/12"}})
	assert.False(t, gate.IsAdmin(adminRequest("10.1.44.3:52110", "")))
	assert.True(t, gate.IsAdmin(adminRequest("172.16.9.1:52110", "")))
}

func TestAdminGateEmptyAllowlistDeniesEveryone(t *testing.T) {
	gate := NewAdminGate(config.AdminConfig{})
	assert.False(t, gate.IsAdmin(adminRequest("127.0.0.1:9999", "")))
}

func TestAdminGateForwardedForOnlyWhenTrusted(t *testing.T) {
	cfg := config.AdminConfig{AllowedCIDRs: []string{"10.0.0.0/8"}}

	untrusting := NewAdminGate(cfg)
	assert.False(t, untrusting.IsAdmin(adminRequest("203.0.113.5:400", "10.0.0.7")))

	cfg.TrustForwardedFor = true
	trusting := NewAdminGate(cfg)
	assert.True(t, trusting.IsAdmin(adminRequest("203.0.113.5:400", "10.0.0.7")))
	// Only the first hop counts.
	assert.False(t, trusting.IsAdmin(adminRequest("203.0.113.5:400", "203.0.113.9, 10.0.0.7")))
}

func TestAdminGateRealIPFallback(t *testing.T) {
	gate := NewAdminGate(config.AdminConfig{
		AllowedCIDRs:      []string{"10.0.0.0/8"},
		TrustForwardedFor: true,
	})
	req := adminRequest("203.0.113.5:400", "")
	req.Header.Set("X-Real-IP", "10.0.0.3")
	assert.True(t, gate.IsAdmin(req))
}

func TestRequireAdminRejectsOutsiders(t *testing.T) {
	gate := NewAdminGate(config.AdminConfig{AllowedCIDRs: []string{"10.0.0.0/8"}})

	r := gin.New()
	r.POST("/api/refresh", gate.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.RemoteAddr = "203.0.113.5:400"
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMON_004")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.RemoteAddr = "10.3.2.1:400"
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

//Personal.AI order the ending
