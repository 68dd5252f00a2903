package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
)

// LawSource lists the enacted laws recorded for a session.
type LawSource interface {
	ListLaws(ctx context.Context, session int) ([]*bill.Law, error)
}

// LawsHandler serves the enacted-law roll for a session.
type LawsHandler struct {
	laws           LawSource
	defaultSession int
}

// NewLawsHandler builds the handler.
func NewLawsHandler(laws LawSource, defaultSession int) *LawsHandler {
	return &LawsHandler{laws: laws, defaultSession: defaultSession}
}

// Laws lists the session's enacted laws in law-number order.
func (h *LawsHandler) Laws(c *gin.Context) {
	session := intQuery(c, "session", h.defaultSession)
	laws, err := h.laws.ListLaws(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	if laws == nil {
		laws = []*bill.Law{}
	}
	c.JSON(http.StatusOK, gin.H{
		"ga_session": session,
		"total":      len(laws),
		"laws":       laws,
	})
}

//Personal.AI order the ending
