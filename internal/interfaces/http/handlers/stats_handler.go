package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// StatsService is the serving surface the stats endpoints need.
type StatsService interface {
	DefaultSession() int
	Sessions() []stats.SessionInfo
	CachedReport(ctx context.Context, session int) ([]byte, bool)
	Rebuild(ctx context.Context, session int) ([]byte, error)
	RefreshStatus(session int) stats.RefreshStatus
	RequestRefresh(ctx context.Context, session int, incremental bool) error
}

// AdminChecker reports whether a request comes from the admin allowlist.
type AdminChecker interface {
	IsAdmin(r *http.Request) bool
}

// StatsHandler serves the per-session report, refresh status, and the
// session list.
type StatsHandler struct {
	svc   StatsService
	admin AdminChecker
}

// NewStatsHandler builds the handler.
func NewStatsHandler(svc StatsService, admin AdminChecker) *StatsHandler {
	return &StatsHandler{svc: svc, admin: admin}
}

// refreshMarker is spliced into a served cached report to tell the caller
// what happened to their refresh request.
const refreshMarkerField = "_refresh_status"

// sessionParam resolves the requested session.  "congress" is accepted as a
// legacy alias for "session".
func (h *StatsHandler) sessionParam(c *gin.Context) int {
	return intQuery(c, "session", intQuery(c, "congress", h.svc.DefaultSession()))
}

// Stats serves the session report.
//
// Cached data is served as-is.  refresh=true forces a rebuild: with
// background=true the rebuild is scheduled and the stale report is returned
// immediately, otherwise the rebuild runs in-request.  Rebuilds and cold
// builds are admin-only; a non-admin hitting a cold session gets 503 until
// an admin has built it once.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	session := h.sessionParam(c)
	refresh := boolQuery(c, "refresh")
	background := boolQuery(c, "background")
	isAdmin := h.admin != nil && h.admin.IsAdmin(c.Request)

	cached, haveCached := h.svc.CachedReport(ctx, session)

	if refresh && background && haveCached {
		if !isAdmin {
			writeRawJSON(c, http.StatusOK, withRefreshMarker(cached, "blocked"))
			return
		}
		if err := h.svc.RequestRefresh(ctx, session, true); err != nil &&
			apperrors.GetCode(err) != apperrors.CodeConflict {
			respondError(c, err)
			return
		}
		writeRawJSON(c, http.StatusOK, withRefreshMarker(cached, "pending"))
		return
	}

	if !refresh && haveCached {
		writeRawJSON(c, http.StatusOK, cached)
		return
	}

	if !isAdmin {
		if haveCached {
			writeRawJSON(c, http.StatusOK, cached)
			return
		}
		respondError(c, apperrors.New(apperrors.CodeStatsNotBuilt,
			"stats not built yet; refresh is restricted to admin"))
		return
	}

	data, err := h.svc.Rebuild(ctx, session)
	if err != nil {
		respondError(c, err)
		return
	}
	writeRawJSON(c, http.StatusOK, data)
}

// RefreshStatus reports the lifecycle of the session's latest build.
func (h *StatsHandler) RefreshStatus(c *gin.Context) {
	session := h.sessionParam(c)
	c.JSON(http.StatusOK, h.svc.RefreshStatus(session))
}

// Sessions lists the selectable sessions.
func (h *StatsHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.svc.Sessions()})
}

// Refresh schedules a rebuild.  The route sits behind the admin gate.
func (h *StatsHandler) Refresh(c *gin.Context) {
	session := h.sessionParam(c)
	incremental := true
	if c.Query("full") != "" {
		incremental = !boolQuery(c, "full")
	}
	if err := h.svc.RequestRefresh(c.Request.Context(), session, incremental); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ga_session": session, "state": "scheduled"})
}

// withRefreshMarker splices the refresh marker into a cached report.  On a
// malformed payload the report is served untouched.
func withRefreshMarker(report []byte, marker string) []byte {
	var decoded map[string]interface{}
	if err := json.Unmarshal(report, &decoded); err != nil {
		return report
	}
	decoded[refreshMarkerField] = marker
	out, err := json.Marshal(decoded)
	if err != nil {
		return report
	}
	return out
}

//Personal.AI order the ending
