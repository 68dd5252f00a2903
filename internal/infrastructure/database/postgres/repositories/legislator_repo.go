package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// LegislatorRepo persists legislator rosters.
type LegislatorRepo struct {
	db  DB
	log logging.Logger
}

// NewLegislatorRepo builds a LegislatorRepo.
func NewLegislatorRepo(db DB, log logging.Logger) *LegislatorRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LegislatorRepo{db: db, log: log.Named("legislator_repo")}
}

const upsertLegislatorSQL = `
INSERT INTO legislators (id, session, chamber, district, name, first_name, last_name, party, state, title)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	chamber = EXCLUDED.chamber,
	district = EXCLUDED.district,
	name = EXCLUDED.name,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	party = EXCLUDED.party,
	state = EXCLUDED.state,
	title = EXCLUDED.title`

// SaveBatch upserts the full roster for a session in one round trip.
func (r *LegislatorRepo) SaveBatch(ctx context.Context, session int, members []*legislator.Legislator) error {
	if len(members) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range members {
		batch.Queue(upsertLegislatorSQL,
			m.ID, session, string(m.Chamber), m.District, m.Name,
			m.FirstName, m.LastName, string(m.Party), m.State, m.Title)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range members {
		if _, err := results.Exec(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to upsert legislators")
		}
	}
	r.log.Debug("roster saved", logging.Int("session", session), logging.Int("members", len(members)))
	return nil
}

const selectLegislatorColumns = `id, session, chamber, district, name, first_name, last_name, party, state, title`

func scanLegislator(row pgx.Row) (*legislator.Legislator, error) {
	var m legislator.Legislator
	var chamber, party string
	if err := row.Scan(&m.ID, &m.Session, &chamber, &m.District, &m.Name,
		&m.FirstName, &m.LastName, &party, &m.State, &m.Title); err != nil {
		return nil, err
	}
	m.Chamber = common.Chamber(chamber)
	m.Party = common.Party(party)
	return &m, nil
}

// ListBySession returns every member of a session ordered by chamber and
// district.
func (r *LegislatorRepo) ListBySession(ctx context.Context, session int) ([]*legislator.Legislator, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+selectLegislatorColumns+` FROM legislators WHERE session = $1 ORDER BY chamber, district`,
		session)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list legislators")
	}
	defer rows.Close()

	var members []*legislator.Legislator
	for rows.Next() {
		m, err := scanLegislator(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan legislator")
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate legislators")
	}
	return members, nil
}

// FindByID returns one member or a not-found error.
func (r *LegislatorRepo) FindByID(ctx context.Context, id string) (*legislator.Legislator, error) {
	m, err := scanLegislator(r.db.QueryRow(ctx,
		`SELECT `+selectLegislatorColumns+` FROM legislators WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.CodeLegislatorNotFound, "legislator %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to find legislator")
	}
	return m, nil
}

//Personal.AI order the ending
