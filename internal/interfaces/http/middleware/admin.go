package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// AdminGate answers whether a request comes from the admin allowlist.
// Refresh triggers and cold builds are restricted to admin callers; an empty
// allowlist means nobody is admin.  The allowlist may be swapped at runtime
// via Update, so reads go through a lock.
type AdminGate struct {
	mu                sync.RWMutex
	networks          []*net.IPNet
	trustForwardedFor bool
}

// NewAdminGate parses the configured allowlist.  Entries may be CIDRs or
// bare IPs; malformed entries are skipped.
func NewAdminGate(cfg config.AdminConfig) *AdminGate {
	gate := &AdminGate{}
	gate.Update(cfg)
	return gate
}

// Update replaces the allowlist, typically from a config-file reload.
func (g *AdminGate) Update(cfg config.AdminConfig) {
	networks := make([]*net.IPNet, 0, len(cfg.AllowedCIDRs))
	for _, entry := range cfg.AllowedCIDRs {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				continue
			}
			if ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			networks = append(networks, network)
		}
	}
	g.mu.Lock()
	g.networks = networks
	g.trustForwardedFor = cfg.TrustForwardedFor
	g.mu.Unlock()
}

// ClientIP resolves the caller's address.  X-Forwarded-For (first hop) and
// X-Real-IP are honored only when the gate trusts the fronting proxy.
func (g *AdminGate) ClientIP(r *http.Request) string {
	g.mu.RLock()
	trust := g.trustForwardedFor
	g.mu.RUnlock()
	if trust {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IsAdmin reports whether the request's client IP falls in the allowlist.
func (g *AdminGate) IsAdmin(r *http.Request) bool {
	g.mu.RLock()
	networks := g.networks
	g.mu.RUnlock()
	if len(networks) == 0 {
		return false
	}
	ip := net.ParseIP(g.ClientIP(r))
	if ip == nil {
		return false
	}
	for _, network := range networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// RequireAdmin rejects non-admin callers with 403.  Used for routes that
// have no public fallback, like the refresh trigger.
func (g *AdminGate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.IsAdmin(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    string(apperrors.CodeForbidden),
				"message": "restricted to admin callers",
			})
			return
		}
		c.Next()
	}
}

//Personal.AI order the ending
