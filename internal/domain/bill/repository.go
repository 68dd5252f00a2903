package bill

import "context"

// Repository is the persistence contract for normalized bills and detected
// laws.
type Repository interface {
	// SaveBatch upserts normalized bills for a session.
	SaveBatch(ctx context.Context, session int, bills []*NormalizedBill) error

	// ListBySession returns every stored bill for a session.
	ListBySession(ctx context.Context, session int) ([]*NormalizedBill, error)

	// ListPending returns bills stored without an enactment marker, the set
	// eligible for status re-checks on incremental runs.
	ListPending(ctx context.Context, session int) ([]*NormalizedBill, error)

	// UpdateStatus overwrites the enactment marker and latest-action fields
	// of a single bill.
	UpdateStatus(ctx context.Context, billID string, marker string, lawType LawType, latestActionText, latestActionDate string) error

	// SaveLaws upserts detected enactments for a session.
	SaveLaws(ctx context.Context, session int, laws []*Law) error

	// ListLaws returns detected enactments for a session.
	ListLaws(ctx context.Context, session int) ([]*Law, error)
}

//Personal.AI order the ending
