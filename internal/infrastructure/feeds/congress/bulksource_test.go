package congress

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

func TestBulkSourceServesBillsFromDisk(t *testing.T) {
	dir := t.TempDir()
	writeBillStatusFile(t, dir, "BILLSTATUS-119hr1.xml", 119, "HR", 1)
	writeBillStatusFile(t, dir, "BILLSTATUS-119s2.xml", 119, "S", 2)

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected api call: %s", r.URL.Path)
	}))
	src := NewBulkSource(client, NewBulkLoader(2, logging.NewNopLogger()), dir, logging.NewNopLogger())

	records, err := src.FetchBills(context.Background(), 119, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestBulkSourceAppliesExclude(t *testing.T) {
	dir := t.TempDir()
	writeBillStatusFile(t, dir, "BILLSTATUS-119hr1.xml", 119, "HR", 1)
	writeBillStatusFile(t, dir, "BILLSTATUS-119s2.xml", 119, "S", 2)

	src := NewBulkSource(nil, nil, dir, logging.NewNopLogger())

	records, err := src.FetchBills(context.Background(), 119, map[string]bool{"119-hr-1": true})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "119-s-2", records[0].ID())
}

func TestBulkSourceFetchBillAnswersFromLoadedTree(t *testing.T) {
	dir := t.TempDir()
	writeBillStatusFile(t, dir, "BILLSTATUS-119hr1.xml", 119, "HR", 1)

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected api call: %s", r.URL.Path)
	}))
	src := NewBulkSource(client, nil, dir, logging.NewNopLogger())

	_, err := src.FetchBills(context.Background(), 119, nil)
	require.NoError(t, err)

	rec, err := src.FetchBill(context.Background(), 119, "hr", 1)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "119-hr-1", rec.ID())
}

func TestBulkSourceFallsBackToAPIWithoutTree(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"bills":      []interface{}{billItem("HR", 7, "B000001")},
			"pagination": map[string]interface{}{"count": 1},
		})
	}))
	src := NewBulkSource(client, nil, filepath.Join(t.TempDir(), "absent"), logging.NewNopLogger())

	records, err := src.FetchBills(context.Background(), 119, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "119-hr-7", records[0].ID())
}

//Personal.AI order the ending
