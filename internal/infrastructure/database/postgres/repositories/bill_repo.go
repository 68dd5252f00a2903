package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// BillRepo persists normalized bills and detected laws.
type BillRepo struct {
	db  DB
	log logging.Logger
}

// NewBillRepo builds a BillRepo.
func NewBillRepo(db DB, log logging.Logger) *BillRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &BillRepo{db: db, log: log.Named("bill_repo")}
}

const upsertBillSQL = `
INSERT INTO bills (bill_id, session, type, number, primary_sponsor_name, primary_sponsor_id,
	chief_co_sponsors, co_sponsors, co_sponsor_refs, enactment_marker, law_type,
	title, synopsis, latest_action_text, latest_action_date, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
ON CONFLICT (bill_id) DO UPDATE SET
	primary_sponsor_name = EXCLUDED.primary_sponsor_name,
	primary_sponsor_id = EXCLUDED.primary_sponsor_id,
	chief_co_sponsors = EXCLUDED.chief_co_sponsors,
	co_sponsors = EXCLUDED.co_sponsors,
	co_sponsor_refs = EXCLUDED.co_sponsor_refs,
	enactment_marker = EXCLUDED.enactment_marker,
	law_type = EXCLUDED.law_type,
	title = EXCLUDED.title,
	synopsis = EXCLUDED.synopsis,
	latest_action_text = EXCLUDED.latest_action_text,
	latest_action_date = EXCLUDED.latest_action_date,
	updated_at = now()`

// SaveBatch upserts normalized bills in one round trip.
func (r *BillRepo) SaveBatch(ctx context.Context, session int, bills []*bill.NormalizedBill) error {
	if len(bills) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, b := range bills {
		chief, err := jsonb(b.ChiefCoSponsors)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to encode chief co-sponsors")
		}
		co, err := jsonb(b.CoSponsors)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to encode co-sponsors")
		}
		refs, err := jsonb(b.CoSponsorRefs)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to encode co-sponsor refs")
		}
		batch.Queue(upsertBillSQL,
			b.BillID, session, b.Type, b.Number, b.PrimarySponsorName, b.PrimarySponsorID,
			chief, co, refs, b.EnactmentMarker, string(b.LawType),
			b.Title, b.Synopsis, b.LatestActionText, b.LatestActionDate)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range bills {
		if _, err := results.Exec(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to upsert bills")
		}
	}
	r.log.Debug("bills saved", logging.Int("session", session), logging.Int("bills", len(bills)))
	return nil
}

const selectBillColumns = `bill_id, session, type, number, primary_sponsor_name, primary_sponsor_id,
	chief_co_sponsors, co_sponsors, co_sponsor_refs, enactment_marker, law_type,
	title, synopsis, latest_action_text, latest_action_date`

func scanBill(rows pgx.Rows) (*bill.NormalizedBill, error) {
	var b bill.NormalizedBill
	var chief, co, refs []byte
	var lawType string
	if err := rows.Scan(&b.BillID, &b.Session, &b.Type, &b.Number,
		&b.PrimarySponsorName, &b.PrimarySponsorID,
		&chief, &co, &refs, &b.EnactmentMarker, &lawType,
		&b.Title, &b.Synopsis, &b.LatestActionText, &b.LatestActionDate); err != nil {
		return nil, err
	}
	b.LawType = bill.LawType(lawType)

	var err error
	if b.ChiefCoSponsors, err = fromJSONB[string](chief); err != nil {
		return nil, err
	}
	if b.CoSponsors, err = fromJSONB[string](co); err != nil {
		return nil, err
	}
	if b.CoSponsorRefs, err = fromJSONB[bill.CoSponsorRef](refs); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillRepo) listBills(ctx context.Context, query string, args ...any) ([]*bill.NormalizedBill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query bills")
	}
	defer rows.Close()

	var bills []*bill.NormalizedBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan bill")
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate bills")
	}
	return bills, nil
}

// ListBySession returns every stored bill for a session.
func (r *BillRepo) ListBySession(ctx context.Context, session int) ([]*bill.NormalizedBill, error) {
	return r.listBills(ctx,
		`SELECT `+selectBillColumns+` FROM bills WHERE session = $1 ORDER BY type, number`,
		session)
}

// ListPending returns bills without an enactment marker, the candidates for
// incremental status re-checks.
func (r *BillRepo) ListPending(ctx context.Context, session int) ([]*bill.NormalizedBill, error) {
	return r.listBills(ctx,
		`SELECT `+selectBillColumns+` FROM bills WHERE session = $1 AND enactment_marker = '' ORDER BY type, number`,
		session)
}

// UpdateStatus overwrites the enactment and latest-action fields of one
// bill.
func (r *BillRepo) UpdateStatus(ctx context.Context, billID string, marker string, lawType bill.LawType, latestActionText, latestActionDate string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bills SET enactment_marker = $2, law_type = $3, latest_action_text = $4, latest_action_date = $5, updated_at = now() WHERE bill_id = $1`,
		billID, marker, string(lawType), latestActionText, latestActionDate)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to update bill status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.CodeBillNotFound, "bill %s not found", billID)
	}
	return nil
}

const upsertLawSQL = `
INSERT INTO laws (session, number, type, bill_id, sponsor_member_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (session, number) DO UPDATE SET
	type = EXCLUDED.type,
	bill_id = EXCLUDED.bill_id,
	sponsor_member_id = EXCLUDED.sponsor_member_id`

// SaveLaws upserts detected enactments.
func (r *BillRepo) SaveLaws(ctx context.Context, session int, laws []*bill.Law) error {
	if len(laws) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, law := range laws {
		batch.Queue(upsertLawSQL, session, law.Number, string(law.Type), law.BillID, law.SponsorMemberID)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range laws {
		if _, err := results.Exec(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to upsert laws")
		}
	}
	return nil
}

// ListLaws returns detected enactments for a session ordered by law number.
func (r *BillRepo) ListLaws(ctx context.Context, session int) ([]*bill.Law, error) {
	rows, err := r.db.Query(ctx,
		`SELECT session, number, type, bill_id, sponsor_member_id FROM laws WHERE session = $1 ORDER BY number`,
		session)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query laws")
	}
	defer rows.Close()

	var laws []*bill.Law
	for rows.Next() {
		var law bill.Law
		var lawType string
		if err := rows.Scan(&law.Session, &law.Number, &lawType, &law.BillID, &law.SponsorMemberID); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan law")
		}
		law.Type = bill.LawType(lawType)
		laws = append(laws, &law)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to iterate laws")
	}
	return laws, nil
}

//Personal.AI order the ending
