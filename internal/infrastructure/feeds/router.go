// Package feeds routes build requests to the upstream data source that owns
// the requested session.  Illinois General Assembly sessions are small
// two-digit numbers; federal congress numbers start three digits up, so the
// two ranges never collide.
package feeds

import (
	"context"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
)

// DefaultCongressMin is the lowest session number treated as a federal
// congress.  The Illinois GA is at session 104 in 2025; congress numbering
// passed 110 back in 2007.
const DefaultCongressMin = 110

// MemberSource fetches a session roster.
type MemberSource interface {
	FetchMembers(ctx context.Context, session int) ([]*legislator.Legislator, error)
}

// BillSource fetches raw bill records.
type BillSource interface {
	FetchBills(ctx context.Context, session int, exclude map[string]bool) ([]*bill.RawBillRecord, error)
	FetchBill(ctx context.Context, session int, billType string, number int) (*bill.RawBillRecord, error)
}

// Source is a complete feed: roster plus bills.
type Source interface {
	MemberSource
	BillSource
}

// Router dispatches by session number: sessions at or above CongressMin go
// to the federal source, everything below goes to the GA source.
type Router struct {
	ga          Source
	congress    Source
	congressMin int
}

// NewRouter wires both sources.  congressMin <= 0 selects
// DefaultCongressMin.
func NewRouter(ga, congress Source, congressMin int) *Router {
	if congressMin <= 0 {
		congressMin = DefaultCongressMin
	}
	return &Router{ga: ga, congress: congress, congressMin: congressMin}
}

func (r *Router) pick(session int) Source {
	if session >= r.congressMin && r.congress != nil {
		return r.congress
	}
	return r.ga
}

func (r *Router) FetchMembers(ctx context.Context, session int) ([]*legislator.Legislator, error) {
	return r.pick(session).FetchMembers(ctx, session)
}

func (r *Router) FetchBills(ctx context.Context, session int, exclude map[string]bool) ([]*bill.RawBillRecord, error) {
	return r.pick(session).FetchBills(ctx, session, exclude)
}

func (r *Router) FetchBill(ctx context.Context, session int, billType string, number int) (*bill.RawBillRecord, error) {
	return r.pick(session).FetchBill(ctx, session, billType, number)
}

//Personal.AI order the ending
