package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// SessionYears maps a general assembly session number to its biennium label.
var SessionYears = map[int]string{
	104: "2025-2026",
	103: "2023-2024",
	102: "2021-2022",
	101: "2019-2020",
	100: "2017-2018",
}

// YearsForSession returns the biennium label, falling back to the bare
// session number for unknown sessions.
func YearsForSession(session int) string {
	if years, ok := SessionYears[session]; ok {
		return years
	}
	return fmt.Sprintf("%d", session)
}

// SessionInfo describes one selectable session for the sessions endpoint.
type SessionInfo struct {
	Session int    `json:"ga_session"`
	Years   string `json:"years"`
	Default bool   `json:"default"`
}

// KnownSessions lists the selectable sessions, newest first.
func KnownSessions(defaultSession int) []SessionInfo {
	sessions := []int{104, 103, 102, 101, 100}
	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionInfo{
			Session: s,
			Years:   SessionYears[s],
			Default: s == defaultSession,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Collaborator contracts
// ---------------------------------------------------------------------------

// MemberSource fetches the full member roster for a session from a feed.
type MemberSource interface {
	FetchMembers(ctx context.Context, session int) ([]*legislator.Legislator, error)
}

// BillSource fetches raw bill records for a session from a feed.
type BillSource interface {
	// FetchBills returns the raw records for a session.  exclude holds the
	// bill ids already stored; incremental runs pass it so the source can
	// skip unchanged items, full runs pass nil.
	FetchBills(ctx context.Context, session int, exclude map[string]bool) ([]*bill.RawBillRecord, error)

	// FetchBill re-fetches a single bill, used for pending status checks.
	// A nil record with a nil error means the bill is gone from the feed.
	FetchBill(ctx context.Context, session int, billType string, number int) (*bill.RawBillRecord, error)
}

// Report is a finished statistics build, the shape served to clients and
// cached between builds.
type Report struct {
	Session           int                    `json:"ga_session"`
	Years             string                 `json:"years"`
	GeneratedAt       int64                  `json:"generated_at"`
	Rows              []*sponsorship.Record  `json:"rows"`
	Summary           ReportSummary          `json:"summary"`
	UnmatchedSponsors int                    `json:"unmatched_sponsors"`
	Unmatched         []legislator.Unmatched `json:"unmatched,omitempty"`
	Note              string                 `json:"note"`
}

// ReportSummary is the headline counts block of a Report.
type ReportSummary struct {
	TotalLegislators int `json:"total_legislators"`
	TotalBills       int `json:"total_bills"`
	TotalLaws        int `json:"total_laws"`
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

// BuilderDeps wires the builder's collaborators.
type BuilderDeps struct {
	Members    MemberSource
	Bills      BillSource
	MemberRepo legislator.Repository
	BillRepo   bill.Repository
	Normalizer *Normalizer
	Log        logging.Logger
}

// BuilderOptions holds the build tunables.
type BuilderOptions struct {
	// PriorWeight is handed to the bipartisan calculator.
	PriorWeight float64
	// Workers bounds the pending-bill re-fetch fan-out.
	Workers int
}

// Builder orchestrates one statistics build: roster fetch, bill fetch,
// pending-bill status checks, incremental merge, aggregation, scoring, and
// persistence.
type Builder struct {
	members    MemberSource
	bills      BillSource
	memberRepo legislator.Repository
	billRepo   bill.Repository
	normalizer *Normalizer
	opts       BuilderOptions
	log        logging.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(deps BuilderDeps, opts BuilderOptions) *Builder {
	log := deps.Log
	if log == nil {
		log = logging.NewNopLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil, log)
	}
	return &Builder{
		members:    deps.Members,
		bills:      deps.Bills,
		memberRepo: deps.MemberRepo,
		billRepo:   deps.BillRepo,
		normalizer: normalizer,
		opts:       opts,
		log:        log.Named("builder"),
	}
}

// Build runs one pass for a session.  Incremental mode loads the stored bill
// set, re-checks pending bills for status changes, fetches only new bills,
// and merges by bill identity so re-running over the same bills never double
// counts.
func (b *Builder) Build(ctx context.Context, session int, incremental bool) (*Report, error) {
	started := time.Now()
	b.log.Info("stats build starting",
		logging.Int("session", session),
		logging.Bool("incremental", incremental))

	roster, err := b.loadRoster(ctx, session)
	if err != nil {
		return nil, err
	}

	var existing []*bill.NormalizedBill
	var updatedPending []*bill.NormalizedBill
	exclude := map[string]bool{}

	if incremental {
		existing, err = b.billRepo.ListBySession(ctx, session)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "loading stored bills")
		}
		for _, nb := range existing {
			exclude[nb.BillID] = true
		}
		updatedPending, err = b.refreshPending(ctx, session)
		if err != nil {
			return nil, err
		}
	}

	rawBills, err := b.bills.FetchBills(ctx, session, exclude)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "fetching bills")
	}
	fresh := make([]*bill.NormalizedBill, 0, len(rawBills))
	for _, raw := range rawBills {
		if nb := b.normalizer.Normalize(ctx, raw); nb != nil {
			fresh = append(fresh, nb)
		}
	}

	merged, deduped := bill.MergeByID(existing, fresh, updatedPending)
	if deduped > 0 {
		b.log.Info("merge removed overlapping bills", logging.Int("deduped", deduped))
	}

	if len(fresh) > 0 || len(updatedPending) > 0 {
		toStore := append(append([]*bill.NormalizedBill{}, fresh...), updatedPending...)
		if err := b.billRepo.SaveBatch(ctx, session, toStore); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "persisting bills")
		}
	}

	agg := NewAggregator(roster, b.log)
	agg.ApplyAll(merged, deduped)
	result := agg.Result()

	if len(result.Laws) > 0 {
		if err := b.billRepo.SaveLaws(ctx, session, result.Laws); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "persisting laws")
		}
	}

	calc := NewBipartisanCalculator(b.opts.PriorWeight)
	calc.Compute(result.ByMember, merged, roster, agg.Matcher())

	// Scoring may add rows for members only seen as co-sponsors; rebuild the
	// sorted view from the final map.
	rows := make([]*sponsorship.Record, 0, len(result.ByMember))
	for _, rec := range result.ByMember {
		rows = append(rows, rec)
	}
	sponsorship.SortRecords(rows)

	years := YearsForSession(session)
	report := &Report{
		Session:     session,
		Years:       years,
		GeneratedAt: time.Now().Unix(),
		Rows:        rows,
		Summary: ReportSummary{
			TotalLegislators: len(rows),
			TotalBills:       result.TotalBills,
			TotalLaws:        len(result.Laws),
		},
		UnmatchedSponsors: result.UnmatchedSponsors,
		Unmatched:         result.Unmatched,
		Note: fmt.Sprintf(
			"Data from Illinois General Assembly FTP XML files for the %dth GA (%s).",
			session, years),
	}

	b.log.Info("stats build finished",
		logging.Int("session", session),
		logging.Int("legislators", len(rows)),
		logging.Int("bills", result.TotalBills),
		logging.Int("laws", len(result.Laws)),
		logging.Int("unmatched_sponsors", result.UnmatchedSponsors),
		logging.Duration("elapsed", time.Since(started)))
	return report, nil
}

// loadRoster fetches the member roster from the feed, persisting it when a
// repository is wired; on feed failure it falls back to the stored roster.
func (b *Builder) loadRoster(ctx context.Context, session int) ([]*legislator.Legislator, error) {
	roster, err := b.members.FetchMembers(ctx, session)
	if err != nil {
		if b.memberRepo != nil {
			stored, repoErr := b.memberRepo.ListBySession(ctx, session)
			if repoErr == nil && len(stored) > 0 {
				b.log.Warn("member feed unavailable, using stored roster",
					logging.Int("session", session),
					logging.Err(err))
				return stored, nil
			}
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "fetching members")
	}
	if len(roster) == 0 {
		return nil, apperrors.New(apperrors.CodeLegislatorNotFound,
			fmt.Sprintf("no members found for session %d", session))
	}
	if b.memberRepo != nil {
		if err := b.memberRepo.SaveBatch(ctx, session, roster); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "persisting members")
		}
	}
	return roster, nil
}

// refreshPending re-fetches stored bills that lack an enactment marker.  A
// bill is persisted and included in the merge only when its latest-action
// date actually changed, which keeps unchanged bills from burning writes on
// every incremental run.
func (b *Builder) refreshPending(ctx context.Context, session int) ([]*bill.NormalizedBill, error) {
	pending, err := b.billRepo.ListPending(ctx, session)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "loading pending bills")
	}
	if len(pending) == 0 {
		return nil, nil
	}
	b.log.Info("re-checking pending bills", logging.Int("count", len(pending)))

	var updated []*bill.NormalizedBill
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(b.opts.Workers)
	results := make(chan *bill.NormalizedBill, len(pending))

	for _, stored := range pending {
		stored := stored
		group.Go(func() error {
			raw, err := b.bills.FetchBill(gctx, session, stored.Type, stored.Number)
			if err != nil {
				b.log.Warn("pending bill re-fetch failed",
					logging.String("bill_id", stored.BillID),
					logging.Err(err))
				return nil // a single failed re-check never fails the build
			}
			if raw == nil {
				return nil
			}
			nb := b.normalizer.Normalize(gctx, raw)
			if nb == nil || strings.TrimSpace(nb.LatestActionDate) == strings.TrimSpace(stored.LatestActionDate) {
				return nil
			}
			if err := b.billRepo.UpdateStatus(gctx, nb.BillID, nb.EnactmentMarker,
				nb.LawType, nb.LatestActionText, nb.LatestActionDate); err != nil {
				return apperrors.Wrap(err, apperrors.CodeInternal, "updating pending bill")
			}
			if nb.Enacted() {
				b.log.Info("pending bill enacted",
					logging.String("bill_id", nb.BillID),
					logging.String("marker", nb.EnactmentMarker))
			}
			results <- nb
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	close(results)
	for nb := range results {
		updated = append(updated, nb)
	}
	b.log.Info("pending bill check finished", logging.Int("updated", len(updated)))
	return updated, nil
}

//Personal.AI order the ending
