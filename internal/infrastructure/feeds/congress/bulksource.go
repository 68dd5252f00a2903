package congress

import (
	"context"
	"os"
	"sync"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// BulkSource feeds builds from a locally synced Bill Status tree instead of
// paging the congress.gov API bill by bill.  Rosters and single-bill
// re-checks still go through the API client; only the expensive full bill
// listing is served from disk.  When the tree is absent the source falls
// back to the API, so a host that never ran a sync still works.
type BulkSource struct {
	client  *Client
	loader  *BulkLoader
	baseDir string
	log     logging.Logger

	mu     sync.Mutex
	loaded map[string]*bill.RawBillRecord
}

// NewBulkSource wires the disk loader in front of the API client.
func NewBulkSource(client *Client, loader *BulkLoader, baseDir string, log logging.Logger) *BulkSource {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if loader == nil {
		loader = NewBulkLoader(0, log)
	}
	return &BulkSource{client: client, loader: loader, baseDir: baseDir, log: log.Named("bulksource")}
}

// FetchMembers delegates to the API client; rosters are not part of the bulk
// data product.
func (s *BulkSource) FetchMembers(ctx context.Context, congress int) ([]*legislator.Legislator, error) {
	return s.client.FetchMembers(ctx, congress)
}

// FetchBills loads the synced tree when present, otherwise pages the API.
func (s *BulkSource) FetchBills(ctx context.Context, congress int, exclude map[string]bool) ([]*bill.RawBillRecord, error) {
	if _, err := os.Stat(s.baseDir); err != nil {
		s.log.Info("bulk tree absent, using api",
			logging.String("dir", s.baseDir),
			logging.Int("congress", congress))
		return s.client.FetchBills(ctx, congress, exclude)
	}
	records, err := s.loader.Load(ctx, s.baseDir, congress)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.loaded = records
	s.mu.Unlock()

	out := make([]*bill.RawBillRecord, 0, len(records))
	for id, rec := range records {
		if exclude != nil && exclude[id] {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// FetchBill answers from the last loaded tree when it holds the bill,
// falling back to the API for anything it does not.
func (s *BulkSource) FetchBill(ctx context.Context, congress int, billType string, number int) (*bill.RawBillRecord, error) {
	id := bill.BillID(congress, billType, number)
	s.mu.Lock()
	rec := s.loaded[id]
	s.mu.Unlock()
	if rec != nil {
		return rec, nil
	}
	return s.client.FetchBill(ctx, congress, billType, number)
}

//Personal.AI order the ending
