package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// ReportCache is the cache surface the service needs.  Satisfied by the
// Redis report cache.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	GetOrSet(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	StatsKey(session int) string
}

// RefreshPublisher hands refresh requests to the worker fleet.  Satisfied by
// the Kafka producer.
type RefreshPublisher interface {
	PublishRefreshRequested(ctx context.Context, session int, incremental bool) error
}

// ServiceOptions holds the serving tunables.
type ServiceOptions struct {
	DefaultSession int
	CacheTTL       time.Duration
}

// Service is the serving facade over builds: cached report reads, refresh
// dispatch, and status.  With a publisher wired, refreshes are handed to
// workers over the event bus; without one they run in-process, in the
// background.
type Service struct {
	tracker   *RefreshTracker
	cache     ReportCache
	publisher RefreshPublisher
	opts      ServiceOptions
	log       logging.Logger
}

// NewService assembles the serving facade.  cache and publisher may each be
// nil: a nil cache builds on every cold read, a nil publisher falls back to
// in-process background refreshes.
func NewService(tracker *RefreshTracker, cache ReportCache, publisher RefreshPublisher, opts ServiceOptions, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if opts.DefaultSession <= 0 {
		opts.DefaultSession = 104
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	return &Service{
		tracker:   tracker,
		cache:     cache,
		publisher: publisher,
		opts:      opts,
		log:       log.Named("stats"),
	}
}

// DefaultSession is the session served when a request names none.
func (s *Service) DefaultSession() int { return s.opts.DefaultSession }

// Sessions lists the selectable sessions.
func (s *Service) Sessions() []SessionInfo {
	return KnownSessions(s.opts.DefaultSession)
}

// Report returns the session's report as JSON.  A cache hit is served as-is;
// a miss runs one build, with concurrent misses collapsed by the cache.
func (s *Service) Report(ctx context.Context, session int) ([]byte, error) {
	if s.cache == nil {
		report, err := s.tracker.Run(ctx, session, true)
		if err != nil {
			return nil, err
		}
		return json.Marshal(report)
	}
	return s.cache.GetOrSet(ctx, s.cache.StatsKey(session), s.opts.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.tracker.Run(ctx, session, true)
		})
}

// CachedReport returns the session's cached report without triggering a
// build.  The second return is false when no cache is wired or the key is
// cold.
func (s *Service) CachedReport(ctx context.Context, session int) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	var raw json.RawMessage
	if !s.cache.Get(ctx, s.cache.StatsKey(session), &raw) {
		return nil, false
	}
	return raw, true
}

// Rebuild runs an incremental build right now, bypassing the cache read,
// and caches the result.  Callers gate this behind the admin allowlist.
func (s *Service) Rebuild(ctx context.Context, session int) ([]byte, error) {
	report, err := s.tracker.Run(ctx, session, true)
	if err != nil {
		return nil, err
	}
	s.StoreReport(ctx, report)
	return json.Marshal(report)
}

// StoreReport caches a finished build, replacing whatever was served before.
func (s *Service) StoreReport(ctx context.Context, report *Report) {
	if s.cache == nil || report == nil {
		return
	}
	s.cache.Set(ctx, s.cache.StatsKey(report.Session), report, s.opts.CacheTTL)
}

// RefreshStatus reports the lifecycle of the session's latest build.
func (s *Service) RefreshStatus(session int) RefreshStatus {
	return s.tracker.Status(session)
}

// RequestRefresh schedules a rebuild and returns immediately.  A running
// build for the same session is reported as a conflict.
func (s *Service) RequestRefresh(ctx context.Context, session int, incremental bool) error {
	if s.tracker.Status(session).State == RefreshRunning {
		return apperrors.Conflict("a refresh for this session is already running")
	}
	if s.publisher != nil {
		return s.publisher.PublishRefreshRequested(ctx, session, incremental)
	}

	// In-process fallback: build in the background, detached from the
	// request's lifetime.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()
		report, err := s.tracker.Run(ctx, session, incremental)
		if err != nil {
			if apperrors.GetCode(err) != apperrors.CodeConflict {
				s.log.Error("background refresh failed",
					logging.Int("session", session), logging.Err(err))
			}
			return
		}
		s.StoreReport(ctx, report)
	}()
	return nil
}

//Personal.AI order the ending
