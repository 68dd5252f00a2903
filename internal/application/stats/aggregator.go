package stats

import (
	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Result is the output of one aggregation pass.
type Result struct {
	// ByMember maps legislator id to its aggregate row.
	ByMember map[string]*sponsorship.Record
	// Rows is ByMember sorted by sponsored total descending, then name.
	Rows []*sponsorship.Record
	// Laws lists every detected enactment, in bill-processing order.
	Laws []*bill.Law
	// UnmatchedSponsors is the data-quality tally: bills with no resolvable
	// primary sponsor, unresolved co-sponsor occurrences, and the matcher's
	// unmatched-name recordings.
	UnmatchedSponsors int
	// Unmatched is the matcher's detail list.
	Unmatched []legislator.Unmatched
	// TotalBills is the number of distinct bills applied.
	TotalBills int
	// DedupedBills is the overlap removed by the incremental merge, zero for
	// full builds.
	DedupedBills int
}

// Aggregator folds normalized bills into per-legislator running totals.  One
// instance serves one build pass; it is not safe for concurrent use and must
// be confined to a single worker.
type Aggregator struct {
	matcher *legislator.Matcher
	byID    map[string]*legislator.Legislator

	records   map[string]*sponsorship.Record
	laws      []*bill.Law
	unmatched int
	bills     int
	deduped   int

	log logging.Logger
}

// NewAggregator builds an aggregator over the session roster.  The matcher
// indices and the id lookup are built once here.
func NewAggregator(roster []*legislator.Legislator, log logging.Logger) *Aggregator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	byID := make(map[string]*legislator.Legislator, len(roster))
	for _, member := range roster {
		if member != nil && member.ID != "" {
			byID[member.ID] = member
		}
	}
	return &Aggregator{
		matcher: legislator.NewMatcher(roster),
		byID:    byID,
		records: make(map[string]*sponsorship.Record),
		log:     log.Named("aggregator"),
	}
}

// ApplyAll runs Apply over a bill set and notes the dedup count produced by a
// preceding merge.
func (a *Aggregator) ApplyAll(bills []*bill.NormalizedBill, deduped int) {
	a.deduped += deduped
	for _, b := range bills {
		a.Apply(b)
	}
}

// Apply folds one bill into the totals.  The steps run in a fixed order:
// primary sponsor (with enactment credit), then chief co-sponsors, then plain
// co-sponsors, so the primary-sponsor exclusion in the plain tier is correct.
// A bill whose primary sponsor cannot be resolved is tallied as unmatched and
// contributes nothing else.
func (a *Aggregator) Apply(b *bill.NormalizedBill) {
	if b == nil || b.BillID == "" {
		return
	}
	a.bills++

	billChamber := b.Chamber()

	primary := a.resolvePrimary(b, billChamber)
	if primary == nil {
		a.unmatched++
		return
	}
	primaryRec := a.record(primary)
	primaryRec.SponsoredTotal++
	primaryRec.PrimarySponsorTotal++
	b.PrimarySponsorID = primary.ID

	if b.Enacted() {
		primaryRec.EnactedTotal++
		if b.LawType == bill.LawPrivate {
			primaryRec.PrivateLawCount++
		} else {
			primaryRec.PublicLawCount++
			primaryRec.PublicActNumbers = append(primaryRec.PublicActNumbers, b.EnactmentMarker)
		}
		a.laws = append(a.laws, &bill.Law{
			Number:          b.EnactmentMarker,
			Type:            b.LawType,
			BillID:          b.BillID,
			SponsorMemberID: primary.ID,
			Session:         b.Session,
		})
	}

	// The chief tier only dedups; a primary sponsor listed as their own
	// chief co-sponsor still earns the chief credit.
	seenChief := map[string]bool{}
	for _, name := range b.ChiefCoSponsors {
		member := a.resolveName(name, billChamber)
		if member == nil {
			a.unmatched++
			continue
		}
		if seenChief[member.ID] {
			continue
		}
		seenChief[member.ID] = true
		a.record(member).ChiefCoSponsorTotal++
	}

	seenCo := map[string]bool{primary.ID: true}
	for _, name := range b.CoSponsors {
		member := a.resolveName(name, billChamber)
		if member == nil {
			a.unmatched++
			continue
		}
		if seenCo[member.ID] {
			continue
		}
		seenCo[member.ID] = true
		a.record(member).CoSponsorTotal++
	}

	for _, ref := range b.CoSponsorRefs {
		if ref.Withdrawn {
			continue
		}
		member := a.resolveRef(ref, billChamber)
		if member == nil {
			a.unmatched++
			continue
		}
		if seenCo[member.ID] {
			continue
		}
		seenCo[member.ID] = true
		rec := a.record(member)
		rec.CoSponsorTotal++
		if ref.IsOriginal {
			rec.OriginalCoSponsorTotal++
		}
	}
}

// resolvePrimary resolves the bill's primary sponsor: a structured id wins,
// then name matching with the bill's chamber as hint.
func (a *Aggregator) resolvePrimary(b *bill.NormalizedBill, billChamber common.Chamber) *legislator.Legislator {
	if b.PrimarySponsorID != "" {
		if member, ok := a.byID[b.PrimarySponsorID]; ok {
			return member
		}
	}
	if b.PrimarySponsorName == "" {
		return nil
	}
	return a.matcher.Match(b.PrimarySponsorName, billChamber)
}

// resolveName resolves a free-text sponsor name.  A title token in the name
// itself beats the bill-type chamber as disambiguation hint.
func (a *Aggregator) resolveName(name string, billChamber common.Chamber) *legislator.Legislator {
	if name == "" {
		return nil
	}
	hint := legislator.InferChamberFromName(name)
	if hint == "" {
		hint = billChamber
	}
	return a.matcher.Match(name, hint)
}

// resolveRef resolves a structured co-sponsor: id lookup first, name match as
// fallback for rosters keyed differently than the feed.
func (a *Aggregator) resolveRef(ref bill.CoSponsorRef, billChamber common.Chamber) *legislator.Legislator {
	if ref.ID != "" {
		if member, ok := a.byID[ref.ID]; ok {
			return member
		}
	}
	return a.resolveName(ref.Name, billChamber)
}

// record returns the member's aggregate row, creating it lazily on first
// contribution.
func (a *Aggregator) record(member *legislator.Legislator) *sponsorship.Record {
	rec, ok := a.records[member.ID]
	if !ok {
		rec = &sponsorship.Record{
			MemberID:         member.ID,
			Name:             member.Name,
			Party:            member.Party,
			Chamber:          member.Chamber,
			District:         member.District,
			PublicActNumbers: []string{},
		}
		a.records[member.ID] = rec
	}
	return rec
}

// Matcher exposes the pass's name matcher so post-processing steps (the
// bipartisan calculator) reuse the same indices and unmatched collector.
func (a *Aggregator) Matcher() *legislator.Matcher {
	return a.matcher
}

// Result closes the pass: rows are sorted deterministically and the matcher's
// unmatched recordings are folded into the tally.
func (a *Aggregator) Result() *Result {
	rows := make([]*sponsorship.Record, 0, len(a.records))
	for _, rec := range a.records {
		rows = append(rows, rec)
	}
	sponsorship.SortRecords(rows)

	unmatchedDetail := a.matcher.Unmatched()
	total := a.unmatched + len(unmatchedDetail)

	a.log.Info("aggregation pass complete",
		logging.Int("legislators", len(rows)),
		logging.Int("bills", a.bills),
		logging.Int("laws", len(a.laws)),
		logging.Int("unmatched_sponsors", total))

	return &Result{
		ByMember:          a.records,
		Rows:              rows,
		Laws:              a.laws,
		UnmatchedSponsors: total,
		Unmatched:         unmatchedDetail,
		TotalBills:        a.bills,
		DedupedBills:      a.deduped,
	}
}

//Personal.AI order the ending
