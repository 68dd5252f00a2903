// Package opensearch maintains the full-text bill index behind the search
// endpoint.  Documents are keyed by bill id, so re-indexing a session is
// idempotent.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// BillDoc is the indexed shape of one bill.
type BillDoc struct {
	BillID             string `json:"bill_id"`
	Session            int    `json:"session"`
	Type               string `json:"type"`
	Number             int    `json:"number"`
	Title              string `json:"title"`
	Synopsis           string `json:"synopsis"`
	PrimarySponsorName string `json:"primary_sponsor_name"`
	EnactmentMarker    string `json:"enactment_marker"`
}

// Index wraps the OpenSearch client for bill indexing and search.
type Index struct {
	client    *opensearchapi.Client
	indexName string
	batchSize int
	log       logging.Logger
}

// NewIndex connects to the cluster and ensures the bill index exists.
func NewIndex(ctx context.Context, cfg config.OpenSearchConfig, log logging.Logger) (*Index, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	transport := &http.Transport{}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.User,
			Password:  cfg.Password,
			Transport: transport,
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create opensearch client")
	}

	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = config.DefaultOpenSearchPrefix
	}
	batchSize := cfg.BulkBatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	idx := &Index{
		client:    client,
		indexName: prefix + "-bills",
		batchSize: batchSize,
		log:       log.Named("search"),
	}
	if err := idx.ensureIndex(ctx); err != nil {
		return nil, err
	}
	idx.log.Info("opensearch index ready", logging.String("index", idx.indexName))
	return idx, nil
}

const billMapping = `{
	"settings": {"number_of_shards": 1, "number_of_replicas": 0},
	"mappings": {
		"properties": {
			"bill_id":              {"type": "keyword"},
			"session":              {"type": "integer"},
			"type":                 {"type": "keyword"},
			"number":               {"type": "integer"},
			"title":                {"type": "text"},
			"synopsis":             {"type": "text"},
			"primary_sponsor_name": {"type": "text"},
			"enactment_marker":     {"type": "keyword"}
		}
	}
}`

func (i *Index) ensureIndex(ctx context.Context) error {
	_, err := i.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: i.indexName,
		Body:  strings.NewReader(billMapping),
	})
	if err != nil {
		if strings.Contains(err.Error(), "resource_already_exists_exception") {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create bill index")
	}
	return nil
}

func docFor(b *bill.NormalizedBill) BillDoc {
	return BillDoc{
		BillID:             b.BillID,
		Session:            b.Session,
		Type:               b.Type,
		Number:             b.Number,
		Title:              b.Title,
		Synopsis:           b.Synopsis,
		PrimarySponsorName: b.PrimarySponsorName,
		EnactmentMarker:    b.EnactmentMarker,
	}
}

// IndexBills bulk-indexes a bill set in batches.  Item-level failures are
// logged and counted but do not abort the run.
func (i *Index) IndexBills(ctx context.Context, bills []*bill.NormalizedBill) error {
	var failed int
	for start := 0; start < len(bills); start += i.batchSize {
		end := start + i.batchSize
		if end > len(bills) {
			end = len(bills)
		}
		n, err := i.bulkIndex(ctx, bills[start:end])
		if err != nil {
			return err
		}
		failed += n
	}
	if failed > 0 {
		i.log.Warn("bulk index completed with failures",
			logging.Int("total", len(bills)), logging.Int("failed", failed))
	} else {
		i.log.Info("bills indexed", logging.Int("total", len(bills)))
	}
	return nil
}

func (i *Index) bulkIndex(ctx context.Context, batch []*bill.NormalizedBill) (int, error) {
	var buf bytes.Buffer
	for _, b := range batch {
		if b == nil || b.BillID == "" {
			continue
		}
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, i.indexName, b.BillID)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		doc, err := json.Marshal(docFor(b))
		if err != nil {
			return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode bill document")
		}
		buf.Write(doc)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return 0, nil
	}

	resp, err := i.client.Bulk(ctx, opensearchapi.BulkReq{Body: &buf})
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "bulk index request failed")
	}
	if !resp.Errors {
		return 0, nil
	}
	failed := 0
	for _, item := range resp.Items {
		for _, result := range item {
			if result.Status >= 300 {
				failed++
			}
		}
	}
	return failed, nil
}

//Personal.AI order the ending
