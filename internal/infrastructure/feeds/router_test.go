package feeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
)

type recordingSource struct {
	name     string
	sessions []int
}

func (s *recordingSource) FetchMembers(_ context.Context, session int) ([]*legislator.Legislator, error) {
	s.sessions = append(s.sessions, session)
	return []*legislator.Legislator{{ID: s.name}}, nil
}

func (s *recordingSource) FetchBills(_ context.Context, session int, _ map[string]bool) ([]*bill.RawBillRecord, error) {
	s.sessions = append(s.sessions, session)
	return []*bill.RawBillRecord{{Type: s.name}}, nil
}

func (s *recordingSource) FetchBill(_ context.Context, session int, _ string, _ int) (*bill.RawBillRecord, error) {
	s.sessions = append(s.sessions, session)
	return &bill.RawBillRecord{Type: s.name}, nil
}

func TestRouterSplitsSessionRanges(t *testing.T) {
	ga := &recordingSource{name: "ga"}
	fed := &recordingSource{name: "fed"}
	r := NewRouter(ga, fed, 0)

	members, err := r.FetchMembers(context.Background(), 104)
	require.NoError(t, err)
	assert.Equal(t, "ga", members[0].ID)

	records, err := r.FetchBills(context.Background(), 119, nil)
	require.NoError(t, err)
	assert.Equal(t, "fed", records[0].Type)

	rec, err := r.FetchBill(context.Background(), 118, "hr", 1)
	require.NoError(t, err)
	assert.Equal(t, "fed", rec.Type)

	assert.Equal(t, []int{104}, ga.sessions)
	assert.Equal(t, []int{119, 118}, fed.sessions)
}

func TestRouterCustomThreshold(t *testing.T) {
	ga := &recordingSource{name: "ga"}
	fed := &recordingSource{name: "fed"}
	r := NewRouter(ga, fed, 200)

	records, err := r.FetchBills(context.Background(), 119, nil)
	require.NoError(t, err)
	assert.Equal(t, "ga", records[0].Type)
}

func TestRouterWithoutFederalSourceFallsBack(t *testing.T) {
	ga := &recordingSource{name: "ga"}
	r := NewRouter(ga, nil, 0)

	members, err := r.FetchMembers(context.Background(), 119)
	require.NoError(t, err)
	assert.Equal(t, "ga", members[0].ID)
}

//Personal.AI order the ending
