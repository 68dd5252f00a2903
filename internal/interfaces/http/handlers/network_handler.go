package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
)

// NetworkSource reads the co-sponsorship graph for a session.
type NetworkSource interface {
	Network(ctx context.Context, session int) (*sponsorship.NetworkView, error)
}

// NetworkHandler serves the co-sponsorship network view.
type NetworkHandler struct {
	graph          NetworkSource
	defaultSession int
}

// NewNetworkHandler builds the handler.
func NewNetworkHandler(graph NetworkSource, defaultSession int) *NetworkHandler {
	return &NetworkHandler{graph: graph, defaultSession: defaultSession}
}

// Network returns the session's legislator nodes and weighted
// co-sponsorship edges.
func (h *NetworkHandler) Network(c *gin.Context) {
	session := intQuery(c, "session", h.defaultSession)
	view, err := h.graph.Network(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	if view.Nodes == nil {
		view.Nodes = []sponsorship.NetworkNode{}
	}
	if view.Edges == nil {
		view.Edges = []sponsorship.NetworkEdge{}
	}
	c.JSON(http.StatusOK, view)
}

//Personal.AI order the ending
