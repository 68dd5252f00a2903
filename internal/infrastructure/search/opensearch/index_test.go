package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
)

func testIndex(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	idx, err := NewIndex(context.Background(), config.OpenSearchConfig{
		Addresses:     []string{srv.URL},
		IndexPrefix:   "billstats",
		BulkBatchSize: 2,
	}, nil)
	require.NoError(t, err)
	return idx
}

func writeBody(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func createIndexResponse(t *testing.T, w http.ResponseWriter) {
	writeBody(t, w, map[string]any{
		"acknowledged":        true,
		"shards_acknowledged": true,
		"index":               "billstats-bills",
	})
}

func sampleBills() []*bill.NormalizedBill {
	return []*bill.NormalizedBill{
		{BillID: "104-hb-1", Session: 104, Type: "hb", Number: 1, Title: "School Code amendments"},
		{BillID: "104-hb-2", Session: 104, Type: "hb", Number: 2, Title: "Vehicle Code amendments"},
		{BillID: "104-sb-3", Session: 104, Type: "sb", Number: 3, Title: "Budget implementation"},
	}
}

func TestNewIndexCreatesMapping(t *testing.T) {
	var createBody string
	testIndex(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/billstats-bills", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		createBody = string(body)
		createIndexResponse(t, w)
	})
	assert.Contains(t, createBody, `"synopsis"`)
	assert.Contains(t, createBody, `"number_of_shards": 1`)
}

func TestIndexBillsBatchesBulkRequests(t *testing.T) {
	var bulkBodies []string
	idx := testIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			createIndexResponse(t, w)
			return
		}
		require.Equal(t, "/_bulk", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		bulkBodies = append(bulkBodies, string(body))
		writeBody(t, w, map[string]any{"took": 1, "errors": false, "items": []any{}})
	})

	require.NoError(t, idx.IndexBills(context.Background(), sampleBills()))

	// Batch size 2 splits three bills across two requests.
	require.Len(t, bulkBodies, 2)
	assert.Contains(t, bulkBodies[0], `"_id":"104-hb-1"`)
	assert.Contains(t, bulkBodies[0], `"_id":"104-hb-2"`)
	assert.Contains(t, bulkBodies[1], `"_id":"104-sb-3"`)
	assert.Contains(t, bulkBodies[1], `"title":"Budget implementation"`)

	// NDJSON: action line then document line.
	lines := strings.Split(strings.TrimSpace(bulkBodies[1]), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"index"`)
}

func TestSearchFiltersBySession(t *testing.T) {
	var searchBody map[string]any
	idx := testIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			createIndexResponse(t, w)
			return
		}
		require.Equal(t, "/billstats-bills/_search", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&searchBody))
		writeBody(t, w, map[string]any{
			"took":      1,
			"timed_out": false,
			"hits": map[string]any{
				"total": map[string]any{"value": 2, "relation": "eq"},
				"hits": []any{
					map[string]any{
						"_index": "billstats-bills", "_id": "104-hb-1", "_score": 1.5,
						"_source": map[string]any{"bill_id": "104-hb-1", "session": 104, "title": "School Code amendments"},
					},
					map[string]any{
						"_index": "billstats-bills", "_id": "104-hb-2", "_score": 1.1,
						"_source": map[string]any{"bill_id": "104-hb-2", "session": 104, "title": "Vehicle Code amendments"},
					},
				},
			},
		})
	})

	result, err := idx.Search(context.Background(), 104, "amendments", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Bills, 2)
	assert.Equal(t, "104-hb-1", result.Bills[0].BillID)
	assert.Equal(t, "School Code amendments", result.Bills[0].Title)

	query := searchBody["query"].(map[string]any)["bool"].(map[string]any)
	filter := query["filter"].([]any)
	require.Len(t, filter, 1)
	term := filter[0].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, float64(104), term["session"])
	assert.Equal(t, float64(10), searchBody["size"])
}

func TestSearchRequiresQuery(t *testing.T) {
	idx := testIndex(t, func(w http.ResponseWriter, r *http.Request) {
		createIndexResponse(t, w)
	})

	_, err := idx.Search(context.Background(), 104, "", 0, 10)
	assert.Error(t, err)
}

func TestSearchAllSessionsOmitsFilter(t *testing.T) {
	var searchBody map[string]any
	idx := testIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			createIndexResponse(t, w)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&searchBody))
		writeBody(t, w, map[string]any{
			"took": 1,
			"hits": map[string]any{
				"total": map[string]any{"value": 0, "relation": "eq"},
				"hits":  []any{},
			},
		})
	})

	result, err := idx.Search(context.Background(), 0, "budget", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Bills)

	query := searchBody["query"].(map[string]any)["bool"].(map[string]any)
	assert.Nil(t, query["filter"])
	// Default page size applies when none is given.
	assert.Equal(t, float64(20), searchBody["size"])
}

//Personal.AI order the ending
