package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// SearchResult is one page of bill search hits.
type SearchResult struct {
	Total int       `json:"total"`
	Bills []BillDoc `json:"bills"`
}

type searchQuery struct {
	Query map[string]any `json:"query"`
	From  int            `json:"from"`
	Size  int            `json:"size"`
}

// Search runs a full-text query over bill titles and synopses.  session <= 0
// searches every session; size is clamped to 100.
func (i *Index) Search(ctx context.Context, session int, query string, from, size int) (*SearchResult, error) {
	if query == "" {
		return nil, apperrors.InvalidParam("search query is required")
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	if from < 0 {
		from = 0
	}

	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"title^2", "synopsis", "primary_sponsor_name"},
		},
	}}
	var filter []map[string]any
	if session > 0 {
		filter = append(filter, map[string]any{
			"term": map[string]any{"session": session},
		})
	}
	body, err := json.Marshal(searchQuery{
		Query: map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		From: from,
		Size: size,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode search query")
	}

	resp, err := i.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{i.indexName},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "bill search failed")
	}

	result := &SearchResult{
		Total: resp.Hits.Total.Value,
		Bills: make([]BillDoc, 0, len(resp.Hits.Hits)),
	}
	for _, hit := range resp.Hits.Hits {
		var doc BillDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			i.log.Warn("skipping malformed search hit", logging.Err(err))
			continue
		}
		result.Bills = append(result.Bills, doc)
	}
	return result, nil
}

//Personal.AI order the ending
