// Package govinfo syncs Bill Status bulk XML from the govinfo.gov bulk-data
// tree to local disk, with manifest-based change detection and ZIP
// explosion.  The synced directory feeds the congress bulk loader.
package govinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// RemoteFile is one discovered bulk-data file.
type RemoteFile struct {
	URL          string
	RelativePath string
	Modified     string
}

// Client fetches bulk-data listings and files.
type Client struct {
	baseURL    string
	collection string
	apiKey     string
	httpClient *http.Client
	log        logging.Logger
}

// NewClient builds a Client from feed configuration.
func NewClient(cfg config.GovInfoConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	collection := cfg.Collection
	if collection == "" {
		collection = config.DefaultGovInfoCollection
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: collection,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("govinfo"),
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}

// getJSON fetches one listing.  Any failure returns nil: a missing or broken
// subtree should not sink the rest of the traversal.
func (c *Client) getJSON(ctx context.Context, url string) map[string]interface{} {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("listing fetch failed", logging.String("url", url), logging.Err(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Debug("listing skipped", logging.String("url", url), logging.Int("status", resp.StatusCode))
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		c.log.Warn("listing not JSON", logging.String("url", url), logging.Err(err))
		return nil
	}
	switch v := payload.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		// Bare-list listings get wrapped so extraction stays uniform.
		return map[string]interface{}{"items": v}
	default:
		return nil
	}
}

// Download fetches one file's bytes, or nil on any failure.
func (c *Client) Download(ctx context.Context, url string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("download failed", logging.String("url", url), logging.Err(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// ---------------------------------------------------------------------------
// Listing-shape helpers
// ---------------------------------------------------------------------------

// The bulk-data JSON index has shipped several shapes over time; each helper
// probes the aliases observed in the wild.

var (
	nodeListAliases = []string{"children", "childNodes", "entries", "items", "files", "directories", "results"}
	linkAliases     = []string{"href", "url", "link", "path", "downloadUrl"}
	modifiedAliases = []string{"lastModified", "modified", "updated", "lastUpdated", "mtime"}
	dirFlagAliases  = []string{"isDirectory", "directory", "isDir", "dir", "folder", "isFolder"}
)

func extractNodes(payload map[string]interface{}) []map[string]interface{} {
	for _, key := range nodeListAliases {
		if list, ok := payload[key].([]interface{}); ok {
			var nodes []map[string]interface{}
			for _, item := range list {
				if node, ok := item.(map[string]interface{}); ok {
					nodes = append(nodes, node)
				}
			}
			return nodes
		}
	}
	// Fallback: entry-like values keyed by name.
	var nodes []map[string]interface{}
	for _, v := range payload {
		if node, ok := v.(map[string]interface{}); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func extractLinks(node map[string]interface{}) []string {
	var links []string
	for _, key := range linkAliases {
		if v, ok := node[key].(string); ok && v != "" {
			links = append(links, v)
		}
	}
	return links
}

func extractModified(node map[string]interface{}) string {
	for _, key := range modifiedAliases {
		if v, ok := node[key]; ok && v != nil {
			switch val := v.(type) {
			case string:
				if val != "" {
					return val
				}
			case float64:
				return fmt.Sprintf("%.0f", val)
			}
		}
	}
	return ""
}

// dirFlag returns the explicit directory flag for a node, tri-state: the
// second result is false when no flag is present.
func dirFlag(node map[string]interface{}) (bool, bool) {
	for _, key := range dirFlagAliases {
		v, ok := node[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case bool:
			return val, true
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "true", "t", "yes", "y", "1":
				return true, true
			case "false", "f", "no", "n", "0":
				return false, true
			}
		}
	}
	switch strings.ToLower(fmt.Sprint(node["type"])) {
	case "directory", "dir", "folder":
		return true, true
	case "file":
		return false, true
	}
	return false, false
}

func isFileURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".zip")
}

// toJSONListingURL maps directory URLs onto the JSON index variant.
func toJSONListingURL(u string) string {
	if strings.Contains(u, "/bulkdata/json/") {
		return strings.TrimRight(u, "/")
	}
	if strings.Contains(u, "/bulkdata/") {
		return strings.TrimRight(strings.Replace(u, "/bulkdata/", "/bulkdata/json/", 1), "/")
	}
	return strings.TrimRight(u, "/")
}

func normURL(base, maybe string) string {
	maybe = strings.TrimSpace(maybe)
	if maybe == "" {
		return ""
	}
	if strings.HasPrefix(maybe, "http://") || strings.HasPrefix(maybe, "https://") {
		return maybe
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return ""
	}
	ref, err := url.Parse(maybe)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// relativePath keys a file by its path under the collection marker so the
// manifest survives host or scheme changes.
func (c *Client) relativePath(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return path.Base(fileURL)
	}
	marker := "/" + strings.ToUpper(c.collection) + "/"
	idx := strings.Index(strings.ToUpper(parsed.Path), marker)
	if idx >= 0 {
		return strings.TrimLeft(parsed.Path[idx+len(marker):], "/")
	}
	return path.Base(parsed.Path)
}

// Discover traverses the bulk JSON tree for one congress and returns every
// XML and ZIP file found, deduplicated by URL.
func (c *Client) Discover(ctx context.Context, congress int) []RemoteFile {
	start := fmt.Sprintf("%s/json/%s/%d", c.baseURL, c.collection, congress)
	pending := []string{start}
	seen := make(map[string]bool)
	files := make(map[string]RemoteFile)

	for len(pending) > 0 {
		if ctx.Err() != nil {
			break
		}
		current := toJSONListingURL(pending[len(pending)-1])
		pending = pending[:len(pending)-1]
		if seen[current] {
			continue
		}
		seen[current] = true

		payload := c.getJSON(ctx, current)
		if payload == nil {
			continue
		}

		for _, node := range extractNodes(payload) {
			explicitDir, hasFlag := dirFlag(node)
			for _, rawLink := range extractLinks(node) {
				fullURL := normURL(current, rawLink)
				if fullURL == "" {
					continue
				}
				if isFileURL(fullURL) {
					files[fullURL] = RemoteFile{
						URL:          fullURL,
						RelativePath: c.relativePath(fullURL),
						Modified:     extractModified(node),
					}
					continue
				}
				isDir := strings.HasSuffix(fullURL, "/")
				if hasFlag {
					isDir = explicitDir
				}
				if isDir {
					pending = append(pending, fullURL)
				}
			}
		}
	}

	c.log.Info("bulk tree discovered",
		logging.Int("congress", congress),
		logging.Int("files", len(files)),
		logging.Int("listings", len(seen)))
	out := make([]RemoteFile, 0, len(files))
	for _, f := range files {
		out = append(out, f)
	}
	return out
}

//Personal.AI order the ending
