package congress

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// BulkLoader reads Bill Status XML files synced to local disk (or exploded
// from the govinfo bulk ZIPs) and parses them concurrently.
type BulkLoader struct {
	workers int
	log     logging.Logger
}

// NewBulkLoader builds a loader with a bounded parse pool.
func NewBulkLoader(workers int, log logging.Logger) *BulkLoader {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &BulkLoader{workers: workers, log: log.Named("bulk")}
}

// discoverXMLFiles walks baseDir for .xml files, sorted for determinism.
func discoverXMLFiles(baseDir string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", baseDir)
	}
	var files []string
	err = filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Load parses every Bill Status file under baseDir, keeping records for the
// target congress keyed by bill id.  Files that fail to read or parse are
// skipped, not fatal.
func (l *BulkLoader) Load(ctx context.Context, baseDir string, congress int) (map[string]*bill.RawBillRecord, error) {
	paths, err := discoverXMLFiles(baseDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return map[string]*bill.RawBillRecord{}, nil
	}

	var mu sync.Mutex
	out := make(map[string]*bill.RawBillRecord)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)
	for _, path := range paths {
		path := path
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			data, err := os.ReadFile(path)
			if err != nil {
				l.log.Warn("bulk file unreadable", logging.String("path", path), logging.Err(err))
				return nil
			}
			rec := ParseBillStatusXML(data)
			if rec == nil || rec.Session != congress {
				return nil
			}
			mu.Lock()
			out[rec.ID()] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	l.log.Info("bulk load finished",
		logging.Int("congress", congress),
		logging.Int("files", len(paths)),
		logging.Int("bills", len(out)))
	return out, nil
}

//Personal.AI order the ending
