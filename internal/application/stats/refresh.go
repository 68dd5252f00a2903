package stats

import (
	"context"
	"sync"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// RefreshState enumerates the lifecycle of one background build.
type RefreshState string

const (
	RefreshIdle    RefreshState = "idle"
	RefreshRunning RefreshState = "running"
	RefreshDone    RefreshState = "done"
	RefreshError   RefreshState = "error"
)

// RefreshStatus is the observable state of the latest build for one session.
type RefreshStatus struct {
	Session     int          `json:"ga_session"`
	State       RefreshState `json:"state"`
	Incremental bool         `json:"incremental"`
	StartedAt   int64        `json:"started_at,omitempty"`
	FinishedAt  int64        `json:"finished_at,omitempty"`
	Error       string       `json:"error,omitempty"`

	TotalBills        int `json:"total_bills,omitempty"`
	TotalLegislators  int `json:"total_legislators,omitempty"`
	TotalLaws         int `json:"total_laws,omitempty"`
	UnmatchedSponsors int `json:"unmatched_sponsors,omitempty"`
}

// RefreshTracker serializes builds per session and exposes their status.  At
// most one build runs per session at a time; a second request while one is
// running is rejected with a conflict.
type RefreshTracker struct {
	builder *Builder

	mu       sync.Mutex
	statuses map[int]*RefreshStatus
	running  map[int]bool

	log logging.Logger
}

// NewRefreshTracker wraps a builder with per-session run tracking.
func NewRefreshTracker(builder *Builder, log logging.Logger) *RefreshTracker {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &RefreshTracker{
		builder:  builder,
		statuses: make(map[int]*RefreshStatus),
		running:  make(map[int]bool),
		log:      log.Named("refresh"),
	}
}

// Status returns a copy of the session's latest status; idle when no build
// has run.
func (t *RefreshTracker) Status(session int) RefreshStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if status, ok := t.statuses[session]; ok {
		return *status
	}
	return RefreshStatus{Session: session, State: RefreshIdle}
}

// Run performs a build for the session, recording its lifecycle.  Returns a
// conflict error when a build for the same session is already running.
func (t *RefreshTracker) Run(ctx context.Context, session int, incremental bool) (*Report, error) {
	t.mu.Lock()
	if t.running[session] {
		t.mu.Unlock()
		return nil, apperrors.Conflict("a refresh for this session is already running")
	}
	t.running[session] = true
	t.statuses[session] = &RefreshStatus{
		Session:     session,
		State:       RefreshRunning,
		Incremental: incremental,
		StartedAt:   time.Now().Unix(),
	}
	t.mu.Unlock()

	report, err := t.builder.Build(ctx, session, incremental)

	t.mu.Lock()
	defer t.mu.Unlock()
	status := t.statuses[session]
	status.FinishedAt = time.Now().Unix()
	t.running[session] = false
	if err != nil {
		status.State = RefreshError
		status.Error = err.Error()
		t.log.Error("refresh failed", logging.Int("session", session), logging.Err(err))
		return nil, err
	}
	status.State = RefreshDone
	status.TotalBills = report.Summary.TotalBills
	status.TotalLegislators = report.Summary.TotalLegislators
	status.TotalLaws = report.Summary.TotalLaws
	status.UnmatchedSponsors = report.UnmatchedSponsors
	return report, nil
}

//Personal.AI order the ending
