// Package ilga ingests Illinois General Assembly data from the ILGA FTP
// site: member roster XML, the BillStatus directory listing, and individual
// bill XML files.
package ilga

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// Client fetches documents from the ILGA FTP site.  The site throttles
// aggressive crawlers, so every fetch is followed by a pacing delay.
type Client struct {
	baseURL    string
	userAgent  string
	fetchDelay time.Duration
	httpClient *http.Client
	log        logging.Logger
}

// NewClient builds a Client from feed configuration.
func NewClient(cfg config.ILGAConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		fetchDelay: cfg.FetchDelay,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("ilga"),
	}
}

// BaseURL returns the configured FTP root.
func (c *Client) BaseURL() string { return c.baseURL }

// get performs one GET with retries on 5xx and transport errors.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(float64(attempt)*1.2) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "building ilga request")
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("ilga request failed",
				logging.String("url", url),
				logging.Int("attempt", attempt+1),
				logging.Err(err))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.log.Debug("ilga response",
			logging.String("url", url),
			logging.Int("status", resp.StatusCode),
			logging.Duration("elapsed", time.Since(started)))
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("ilga ftp status %d", resp.StatusCode)
			continue
		default:
			return nil, apperrors.Newf(apperrors.ErrCodeFeedFetchFailed,
				"ilga ftp error %d for %s", resp.StatusCode, url)
		}
	}
	return nil, apperrors.Wrap(lastErr, apperrors.ErrCodeFeedUnavailable, "ilga ftp unavailable after retries")
}

// FetchXML retrieves a document and decodes it to valid UTF-8.  ILGA files
// are nominally UTF-8 with a BOM, but some carry Latin-1 accented names.
func (c *Client) FetchXML(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimPrefix(body, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(body) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err == nil {
			body = decoded
		}
	}
	c.pace(ctx)
	return body, nil
}

// FetchListing retrieves a directory page and returns the XML filenames it
// links to.
func (c *Client) FetchListing(ctx context.Context, url string) ([]string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	c.pace(ctx)
	return ParseDirectoryListing(bytes.NewReader(body))
}

func (c *Client) pace(ctx context.Context) {
	if c.fetchDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.fetchDelay):
	}
}

//Personal.AI order the ending
