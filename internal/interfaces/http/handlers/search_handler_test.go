package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/search/opensearch"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

type fakeBillSearcher struct {
	search func(ctx context.Context, session int, query string, from, size int) (*opensearch.SearchResult, error)
}

func (f *fakeBillSearcher) Search(ctx context.Context, session int, query string, from, size int) (*opensearch.SearchResult, error) {
	return f.search(ctx, session, query, from, size)
}

func searchRouter(searcher BillSearcher) *gin.Engine {
	r := gin.New()
	r.GET("/api/bills/search", NewSearchHandler(searcher).Search)
	return r
}

func TestSearchPassesParameters(t *testing.T) {
	searcher := &fakeBillSearcher{
		search: func(_ context.Context, session int, query string, from, size int) (*opensearch.SearchResult, error) {
			assert.Equal(t, 104, session)
			assert.Equal(t, "school funding", query)
			assert.Equal(t, 10, from)
			assert.Equal(t, 25, size)
			return &opensearch.SearchResult{
				Total: 1,
				Bills: []opensearch.BillDoc{{BillID: "104-hb-12", Title: "School funding reform"}},
			}, nil
		},
	}
	rec := get(searchRouter(searcher), "/api/bills/search?q=school+funding&session=104&from=10&size=25")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total int                  `json:"total"`
		Bills []opensearch.BillDoc `json:"bills"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Bills, 1)
	assert.Equal(t, "104-hb-12", body.Bills[0].BillID)
}

func TestSearchMissingQueryIsBadRequest(t *testing.T) {
	searcher := &fakeBillSearcher{
		search: func(_ context.Context, _ int, query string, _, _ int) (*opensearch.SearchResult, error) {
			assert.Empty(t, query)
			return nil, apperrors.InvalidParam("query must not be empty")
		},
	}
	rec := get(searchRouter(searcher), "/api/bills/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchNoHitsServesEmptyList(t *testing.T) {
	searcher := &fakeBillSearcher{
		search: func(_ context.Context, _ int, _ string, _, _ int) (*opensearch.SearchResult, error) {
			return &opensearch.SearchResult{}, nil
		},
	}
	rec := get(searchRouter(searcher), "/api/bills/search?q=nothing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bills":[]`)
}

//Personal.AI order the ending
