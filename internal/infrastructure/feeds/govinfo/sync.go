package govinfo

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

const manifestName = ".billstatus_manifest.json"

// ObjectStore archives raw downloaded payloads.  Implemented by the MinIO
// adapter; nil disables archiving.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// manifestEntry records where a synced file came from and its remote
// modification stamp.
type manifestEntry struct {
	SourceURL string `json:"source_url"`
	Modified  string `json:"modified,omitempty"`
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Congress   int    `json:"congress"`
	Discovered int    `json:"discovered"`
	Downloaded int    `json:"downloaded"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	DestDir    string `json:"dest_dir"`
}

// Syncer mirrors the remote bulk tree into a local directory.  Files whose
// remote modification stamp matches the manifest are skipped.
type Syncer struct {
	client      *Client
	destDir     string
	maxZipBytes int64
	store       ObjectStore
	log         logging.Logger
}

// NewSyncer builds a Syncer.  store may be nil.
func NewSyncer(client *Client, destDir string, maxZipBytes int64, store ObjectStore, log logging.Logger) *Syncer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if maxZipBytes <= 0 {
		maxZipBytes = 512 << 20
	}
	return &Syncer{
		client:      client,
		destDir:     destDir,
		maxZipBytes: maxZipBytes,
		store:       store,
		log:         log.Named("govinfo_sync"),
	}
}

func (s *Syncer) manifestPath() string {
	return filepath.Join(s.destDir, manifestName)
}

func (s *Syncer) loadManifest() map[string]manifestEntry {
	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		return map[string]manifestEntry{}
	}
	var manifest map[string]manifestEntry
	if err := json.Unmarshal(data, &manifest); err != nil || manifest == nil {
		return map[string]manifestEntry{}
	}
	return manifest
}

func (s *Syncer) saveManifest(manifest map[string]manifestEntry) error {
	if err := os.MkdirAll(s.destDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.manifestPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.manifestPath())
}

func writeBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// explodeZip writes the XML members of a downloaded ZIP next to where the
// ZIP itself would have landed.  Returns the relative paths written.
func (s *Syncer) explodeZip(relPath string, zipBytes []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, err
	}
	var written []string
	var total int64
	for _, member := range reader.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), ".xml") {
			continue
		}
		total += int64(member.UncompressedSize64)
		if total > s.maxZipBytes {
			return written, fmt.Errorf("zip %s exceeds %d uncompressed bytes", relPath, s.maxZipBytes)
		}
		rc, err := member.Open()
		if err != nil {
			return written, err
		}
		data, err := io.ReadAll(io.LimitReader(rc, s.maxZipBytes))
		rc.Close()
		if err != nil {
			return written, err
		}
		rel := filepath.Join(filepath.Dir(relPath), filepath.Base(member.Name))
		if err := writeBytes(filepath.Join(s.destDir, rel), data); err != nil {
			return written, err
		}
		written = append(written, rel)
	}
	return written, nil
}

// Sync discovers the remote tree and downloads changed files.  Per-file
// failures are counted, not fatal; the manifest only advances for files that
// landed on disk.
func (s *Syncer) Sync(ctx context.Context, congress int) (*SyncResult, error) {
	discovered := s.client.Discover(ctx, congress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest := s.loadManifest()
	next := make(map[string]manifestEntry, len(manifest))
	for k, v := range manifest {
		next[k] = v
	}

	result := &SyncResult{Congress: congress, Discovered: len(discovered), DestDir: s.destDir}
	for _, item := range discovered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.Modified != "" {
			if old, ok := manifest[item.RelativePath]; ok && old.Modified == item.Modified {
				result.Skipped++
				continue
			}
		}

		data := s.client.Download(ctx, item.URL)
		if data == nil {
			result.Failed++
			continue
		}
		if s.store != nil {
			if err := s.store.Put(ctx, item.RelativePath, data, contentTypeFor(item.URL)); err != nil {
				s.log.Warn("archive put failed",
					logging.String("key", item.RelativePath),
					logging.Err(err))
			}
		}

		entry := manifestEntry{SourceURL: item.URL, Modified: item.Modified}
		if strings.HasSuffix(strings.ToLower(item.URL), ".zip") {
			written, err := s.explodeZip(item.RelativePath, data)
			if err != nil {
				s.log.Warn("zip explode failed", logging.String("file", item.RelativePath), logging.Err(err))
				result.Failed++
				continue
			}
			for _, rel := range written {
				next[rel] = entry
			}
			next[item.RelativePath] = entry
		} else {
			if err := writeBytes(filepath.Join(s.destDir, item.RelativePath), data); err != nil {
				s.log.Warn("file write failed", logging.String("file", item.RelativePath), logging.Err(err))
				result.Failed++
				continue
			}
			next[item.RelativePath] = entry
		}
		result.Downloaded++
	}

	if err := s.saveManifest(next); err != nil {
		return nil, err
	}
	s.log.Info("bulk sync finished",
		logging.Int("congress", congress),
		logging.Int("discovered", result.Discovered),
		logging.Int("downloaded", result.Downloaded),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed))
	return result, nil
}

func contentTypeFor(url string) string {
	if strings.HasSuffix(strings.ToLower(url), ".zip") {
		return "application/zip"
	}
	return "application/xml"
}

//Personal.AI order the ending
