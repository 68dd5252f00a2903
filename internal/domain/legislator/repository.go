package legislator

import "context"

// Repository is the persistence contract for legislator rosters.
type Repository interface {
	// SaveBatch upserts the full roster for a session.
	SaveBatch(ctx context.Context, session int, members []*Legislator) error

	// ListBySession returns every member of a session, both chambers.
	ListBySession(ctx context.Context, session int) ([]*Legislator, error)

	// FindByID returns the member with the given stable ID, or a not-found
	// error.
	FindByID(ctx context.Context, id string) (*Legislator, error)
}

//Personal.AI order the ending
