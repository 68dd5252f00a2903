package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// HealthCheck probes one backing component.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness endpoint.  With no checks wired it
// reports a bare ok, which also keeps the hosted instance warm.
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler builds the handler.  checks may be nil.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 3 * time.Second}
}

type healthResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Timestamp  int64                    `json:"timestamp"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Health reports overall status plus per-component detail.  A failing
// component degrades the response but keeps the status code 200: the
// process itself is alive.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := healthResponse{Status: common.HealthUp, Timestamp: time.Now().Unix()}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		check := h.checks[name]
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := check(ctx)
		cancel()

		component := common.ComponentHealth{
			Name:    name,
			Status:  common.HealthUp,
			Latency: time.Since(start),
		}
		if err != nil {
			component.Status = common.HealthDown
			component.Message = err.Error()
			resp.Status = common.HealthDegraded
		}
		resp.Components = append(resp.Components, component)
	}

	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
