//go:build integration

// Integration tests for the PostgreSQL repositories.  They require Docker and
// are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/database/postgres/repositories"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("billstats_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	return pool
}

func testLegislators(session int) []*legislator.Legislator {
	return []*legislator.Legislator{
		{
			ID:        legislator.MemberID(session, common.ChamberSenate, 40),
			Session:   session,
			Chamber:   common.ChamberSenate,
			District:  40,
			Name:      "Carol Gamma",
			FirstName: "Carol",
			LastName:  "Gamma",
			Party:     "R",
			Title:     "Senator",
		},
		{
			ID:        legislator.MemberID(session, common.ChamberHouse, 5),
			Session:   session,
			Chamber:   common.ChamberHouse,
			District:  5,
			Name:      "Alice Alpha",
			FirstName: "Alice",
			LastName:  "Alpha",
			Party:     "D",
			Title:     "Representative",
		},
	}
}

func TestLegislatorRepoRoundTrip(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewLegislatorRepo(pool, nil)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, 104, testLegislators(104)))

	members, err := repo.ListBySession(ctx, 104)
	require.NoError(t, err)
	require.Len(t, members, 2)
	// Ordered by chamber then district.
	assert.Equal(t, "104-house-5", members[0].ID)
	assert.Equal(t, "104-senate-40", members[1].ID)
	assert.Equal(t, "Alice Alpha", members[0].Name)
	assert.Equal(t, common.Party("D"), members[0].Party)

	found, err := repo.FindByID(ctx, "104-senate-40")
	require.NoError(t, err)
	assert.Equal(t, "Carol Gamma", found.Name)

	_, err = repo.FindByID(ctx, "104-house-999")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeLegislatorNotFound, apperrors.GetCode(err))
}

func TestLegislatorRepoUpsertOverwrites(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewLegislatorRepo(pool, nil)
	ctx := context.Background()

	members := testLegislators(104)
	require.NoError(t, repo.SaveBatch(ctx, 104, members))

	members[0].Party = "D"
	members[0].Name = "Carol Gamma-Delta"
	require.NoError(t, repo.SaveBatch(ctx, 104, members))

	found, err := repo.FindByID(ctx, "104-senate-40")
	require.NoError(t, err)
	assert.Equal(t, "Carol Gamma-Delta", found.Name)
	assert.Equal(t, common.Party("D"), found.Party)

	all, err := repo.ListBySession(ctx, 104)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testBills() []*bill.NormalizedBill {
	return []*bill.NormalizedBill{
		{
			BillID:             "104-hb-2",
			Session:            104,
			Type:               "hb",
			Number:             2,
			PrimarySponsorName: "Alice Alpha",
			Title:              "Vehicle Code amendments",
		},
		{
			BillID:             "104-hb-1",
			Session:            104,
			Type:               "hb",
			Number:             1,
			PrimarySponsorName: "Alice Alpha",
			ChiefCoSponsors:    []string{"Carol Gamma"},
			CoSponsors:         []string{"Dana Delta"},
			CoSponsorRefs: []bill.CoSponsorRef{
				{ID: "B001234", Name: "Carol Gamma", IsOriginal: true},
			},
			EnactmentMarker:  "104-0001",
			LawType:          bill.LawPublic,
			Title:            "School Code amendments",
			Synopsis:         "Amends the School Code.",
			LatestActionText: "Public Act . . . . . . . . . 104-0001",
			LatestActionDate: "2025-08-01",
		},
	}
}

func TestBillRepoRoundTrip(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewBillRepo(pool, nil)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, 104, testBills()))

	bills, err := repo.ListBySession(ctx, 104)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	// Ordered by type then number.
	assert.Equal(t, "104-hb-1", bills[0].BillID)
	assert.Equal(t, "104-hb-2", bills[1].BillID)

	first := bills[0]
	assert.Equal(t, []string{"Carol Gamma"}, first.ChiefCoSponsors)
	assert.Equal(t, []string{"Dana Delta"}, first.CoSponsors)
	require.Len(t, first.CoSponsorRefs, 1)
	assert.Equal(t, "B001234", first.CoSponsorRefs[0].ID)
	assert.True(t, first.CoSponsorRefs[0].IsOriginal)
	assert.Equal(t, bill.LawPublic, first.LawType)
	assert.True(t, first.Enacted())

	second := bills[1]
	assert.Empty(t, second.ChiefCoSponsors)
	assert.False(t, second.Enacted())
}

func TestBillRepoListPendingExcludesEnacted(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewBillRepo(pool, nil)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, 104, testBills()))

	pending, err := repo.ListPending(ctx, 104)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "104-hb-2", pending[0].BillID)
}

func TestBillRepoUpdateStatus(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewBillRepo(pool, nil)
	ctx := context.Background()

	require.NoError(t, repo.SaveBatch(ctx, 104, testBills()))

	err := repo.UpdateStatus(ctx, "104-hb-2", "104-0042", bill.LawPublic,
		"Public Act . . . . . . . . . 104-0042", "2025-08-15")
	require.NoError(t, err)

	pending, err := repo.ListPending(ctx, 104)
	require.NoError(t, err)
	assert.Empty(t, pending)

	bills, err := repo.ListBySession(ctx, 104)
	require.NoError(t, err)
	assert.Equal(t, "104-0042", bills[1].EnactmentMarker)
	assert.Equal(t, "2025-08-15", bills[1].LatestActionDate)

	err = repo.UpdateStatus(ctx, "104-hb-999", "104-0001", bill.LawPublic, "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBillNotFound, apperrors.GetCode(err))
}

func TestBillRepoLaws(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewBillRepo(pool, nil)
	ctx := context.Background()

	laws := []*bill.Law{
		{Number: "104-0002", Type: bill.LawPublic, BillID: "104-sb-7", SponsorMemberID: "104-senate-40", Session: 104},
		{Number: "104-0001", Type: bill.LawPublic, BillID: "104-hb-1", SponsorMemberID: "104-house-5", Session: 104},
	}
	require.NoError(t, repo.SaveLaws(ctx, 104, laws))
	// Saving again keeps the set stable.
	require.NoError(t, repo.SaveLaws(ctx, 104, laws))

	listed, err := repo.ListLaws(ctx, 104)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "104-0001", listed[0].Number)
	assert.Equal(t, "104-0002", listed[1].Number)
	assert.Equal(t, "104-house-5", listed[0].SponsorMemberID)
}

//Personal.AI order the ending
