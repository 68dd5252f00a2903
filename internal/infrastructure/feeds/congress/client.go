package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Doommen3/congress-bill-stats/internal/application/stats"
	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Client talks to the Congress.gov v3 REST API.  Every call retries
// transient failures (5xx, transport errors) with linear backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	pageSize   int
	maxRetries int
	workers    int
	log        logging.Logger
}

// NewClient builds a Client from feed configuration.
func NewClient(cfg config.CongressConfig, workers int, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 250
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	if workers <= 0 {
		workers = 8
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		pageSize:   pageSize,
		maxRetries: retries,
		workers:    workers,
		log:        log.Named("congress"),
	}
}

// apiGet performs one JSON GET with retries.  The API key travels in a header
// so it never lands in logs.
func (c *Client) apiGet(ctx context.Context, path string, query url.Values) (map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "congress api key is not configured")
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("format", "json")
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(float64(attempt)*1.2) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "building congress request")
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("congress request failed",
				logging.String("path", path),
				logging.Int("attempt", attempt+1),
				logging.Err(err))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.log.Debug("congress response",
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.Duration("elapsed", time.Since(started)))
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var payload map[string]interface{}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeFeedParseError, "invalid JSON from congress api")
			}
			return payload, nil
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("congress api status %d", resp.StatusCode)
			continue
		}
		return nil, apperrors.Newf(apperrors.ErrCodeFeedFetchFailed,
			"congress api error %d: %.200s", resp.StatusCode, string(body))
	}
	return nil, apperrors.Wrap(lastErr, apperrors.ErrCodeFeedUnavailable, "congress api unavailable after retries")
}

// extractItemList flattens the response shapes the API has shipped:
// {data:{<key>:[...]}}, {<key>:[...]}, or {data:[...]}.
func extractItemList(payload map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, key := range keys {
		if items := stats.UnwrapItems(payload[key]); len(items) > 0 {
			return items
		}
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		for _, key := range keys {
			if items := stats.UnwrapItems(data[key]); len(items) > 0 {
				return items
			}
		}
	}
	if data, ok := payload["data"].([]interface{}); ok {
		return stats.UnwrapItems(data)
	}
	return nil
}

func paginationCount(payload map[string]interface{}, fallback int) int {
	pagination, _ := payload["pagination"].(map[string]interface{})
	if n, ok := stats.CoSponsorCountHint(pagination); ok {
		return n
	}
	return fallback
}

func intField(m map[string]interface{}, aliases ...string) (int, bool) {
	raw, ok := stats.FirstAlias(m, aliases...)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// billRecordFromItem maps one list-level bill object to a raw record.
// Returns nil when the identity triple is incomplete.
func billRecordFromItem(congress int, item map[string]interface{}) *bill.RawBillRecord {
	if nested, ok := item["bill"].(map[string]interface{}); ok {
		item = nested
	}
	billType := strings.ToLower(stats.StringAlias(item, "type", "billType"))
	number, ok := intField(item, "number", "billNumber")
	if billType == "" || !ok {
		return nil
	}
	rec := &bill.RawBillRecord{
		Session:    congress,
		Type:       billType,
		Number:     number,
		UpdateDate: stats.StringAlias(item, "updateDateIncludingText", "updateDate"),
		Sponsor:    stats.ExtractSponsorRef(item),
		Title:      stats.StringAlias(item, "title"),
	}
	if cosponsorObj, ok := item["cosponsors"]; ok {
		rec.CoSponsors = stats.ExtractCoSponsorRefs(cosponsorObj)
		if n, ok := stats.CoSponsorCountHint(cosponsorObj); ok && len(rec.CoSponsors) == 0 {
			rec.CoSponsorCount = &n
		}
	}
	if latest, ok := item["latestAction"].(map[string]interface{}); ok {
		rec.LatestActionText = stats.StringAlias(latest, "text")
		rec.LatestActionDate = stats.StringAlias(latest, "actionDate")
	}
	return rec
}

// FetchBills pages through /bill/{congress}, fanning remaining pages out over
// a bounded pool.  exclude holds bill ids to drop; law numbers from the law
// endpoints are merged into the matching records.
func (c *Client) FetchBills(ctx context.Context, congress int, exclude map[string]bool) ([]*bill.RawBillRecord, error) {
	first, err := c.apiGet(ctx, fmt.Sprintf("/bill/%d", congress), pageQuery(c.pageSize, 0))
	if err != nil {
		return nil, err
	}
	items := extractItemList(first, "bills")
	total := paginationCount(first, len(items))
	c.log.Info("bill listing started",
		logging.Int("congress", congress),
		logging.Int("total", total),
		logging.Int("page_size", c.pageSize))

	pages := [][]map[string]interface{}{items}
	if total > c.pageSize {
		var mu sync.Mutex
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(c.workers)
		for offset := c.pageSize; offset < total; offset += c.pageSize {
			offset := offset
			group.Go(func() error {
				payload, err := c.apiGet(gctx, fmt.Sprintf("/bill/%d", congress), pageQuery(c.pageSize, offset))
				if err != nil {
					return err
				}
				page := extractItemList(payload, "bills")
				mu.Lock()
				pages = append(pages, page)
				mu.Unlock()
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	laws, err := c.fetchLawIndex(ctx, congress)
	if err != nil {
		// Law annotations are an enrichment; a failed law listing does not
		// sink the whole bill fetch.
		c.log.Warn("law listing failed", logging.Int("congress", congress), logging.Err(err))
		laws = nil
	}

	var out []*bill.RawBillRecord
	for _, page := range pages {
		for _, item := range page {
			rec := billRecordFromItem(congress, item)
			if rec == nil {
				continue
			}
			if exclude != nil && exclude[rec.ID()] {
				continue
			}
			if law, ok := laws[rec.ID()]; ok {
				rec.LawNumber = law.number
				rec.LawKind = law.kind
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

type lawRef struct {
	number string
	kind   string
}

// fetchLawIndex lists enacted public and private laws and keys them by bill
// id.
func (c *Client) fetchLawIndex(ctx context.Context, congress int) (map[string]lawRef, error) {
	out := make(map[string]lawRef)
	for _, lawType := range []string{"pub", "priv"} {
		offset := 0
		for {
			payload, err := c.apiGet(ctx, fmt.Sprintf("/law/%d/%s", congress, lawType), pageQuery(c.pageSize, offset))
			if err != nil {
				return nil, err
			}
			items := extractItemList(payload, "bills", "laws")
			for _, item := range items {
				billType := strings.ToLower(stats.StringAlias(item, "type", "billType"))
				number, ok := intField(item, "number", "billNumber")
				if billType == "" || !ok {
					continue
				}
				lawItems := stats.UnwrapItems(item["laws"])
				for _, law := range lawItems {
					lawNumber := stats.StringAlias(law, "number")
					if lawNumber == "" {
						continue
					}
					out[bill.BillID(congress, billType, number)] = lawRef{
						number: lawNumber,
						kind:   stats.StringAlias(law, "type"),
					}
					break
				}
			}
			total := paginationCount(payload, 0)
			offset += c.pageSize
			if len(items) == 0 || offset >= total {
				break
			}
		}
	}
	return out, nil
}

// FetchBill retrieves the item endpoint for one bill plus its co-sponsor
// pages.  Implements the builder's single-bill re-check.
func (c *Client) FetchBill(ctx context.Context, congress int, billType string, number int) (*bill.RawBillRecord, error) {
	path := fmt.Sprintf("/bill/%d/%s/%d", congress, strings.ToLower(billType), number)
	payload, err := c.apiGet(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	item := detailBillObject(payload)
	if item == nil {
		return nil, nil
	}
	rec := billRecordFromItem(congress, item)
	if rec == nil {
		return nil, nil
	}
	if len(rec.CoSponsors) == 0 && (rec.CoSponsorCount == nil || *rec.CoSponsorCount > 0) {
		cosponsors, err := c.fetchCoSponsors(ctx, path)
		if err != nil {
			return nil, err
		}
		rec.CoSponsors = cosponsors
	}
	return rec, nil
}

// FetchBillDetail implements the normalizer's detail fallback.
func (c *Client) FetchBillDetail(ctx context.Context, rec *bill.RawBillRecord) (*bill.RawBillRecord, error) {
	return c.FetchBill(ctx, rec.Session, rec.Type, rec.Number)
}

func detailBillObject(payload map[string]interface{}) map[string]interface{} {
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if item, ok := data["bill"].(map[string]interface{}); ok {
			return item
		}
	}
	if item, ok := payload["bill"].(map[string]interface{}); ok {
		return item
	}
	return nil
}

// fetchCoSponsors pages the /cosponsors sub-resource.
func (c *Client) fetchCoSponsors(ctx context.Context, billPath string) ([]bill.CoSponsorRef, error) {
	var out []bill.CoSponsorRef
	offset := 0
	for {
		payload, err := c.apiGet(ctx, billPath+"/cosponsors", pageQuery(c.pageSize, offset))
		if err != nil {
			return nil, err
		}
		items := extractItemList(payload, "cosponsors")
		for _, item := range items {
			if ref, ok := stats.ExtractCoSponsorRef(item); ok {
				out = append(out, ref)
			}
		}
		total := paginationCount(payload, len(items))
		offset += c.pageSize
		if len(items) == 0 || offset >= total {
			break
		}
	}
	return out, nil
}

// FetchMembers pages /member/congress/{congress} into a roster keyed by
// bioguide id.  Implements the builder's member source for national builds.
func (c *Client) FetchMembers(ctx context.Context, congress int) ([]*legislator.Legislator, error) {
	var out []*legislator.Legislator
	offset := 0
	for {
		payload, err := c.apiGet(ctx, fmt.Sprintf("/member/congress/%d", congress), pageQuery(c.pageSize, offset))
		if err != nil {
			return nil, err
		}
		items := extractItemList(payload, "members")
		for _, item := range items {
			member := memberFromItem(congress, item)
			if member != nil {
				out = append(out, member)
			}
		}
		total := paginationCount(payload, len(items))
		offset += c.pageSize
		if len(items) == 0 || offset >= total {
			break
		}
	}
	return out, nil
}

func memberFromItem(congress int, item map[string]interface{}) *legislator.Legislator {
	bioguide := stats.StringAlias(item, "bioguideId", "bioguideID", "bioguide")
	if bioguide == "" {
		return nil
	}
	chamber := chamberFromLabel(stats.StringAlias(item, "chamber"))
	if chamber == "" {
		if terms := stats.UnwrapItems(item["terms"]); len(terms) > 0 {
			chamber = chamberFromLabel(stats.StringAlias(terms[0], "chamber"))
		}
	}
	name := stats.StringAlias(item, "name", "fullName")
	first, last := splitDirectoryName(name)
	return &legislator.Legislator{
		ID:        bioguide,
		Session:   congress,
		Chamber:   chamber,
		Name:      name,
		FirstName: first,
		LastName:  last,
		Party:     commonParty(stats.StringAlias(item, "partyName", "party")),
		State:     stats.StringAlias(item, "state"),
	}
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return q
}

func chamberFromLabel(label string) common.Chamber {
	switch {
	case strings.Contains(strings.ToLower(label), "house"):
		return common.ChamberHouse
	case strings.Contains(strings.ToLower(label), "senate"):
		return common.ChamberSenate
	default:
		return ""
	}
}

// commonParty collapses "Democratic" / "Republican" style labels to the
// one-letter code the rest of the pipeline uses.
func commonParty(label string) common.Party {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	return common.Party(strings.ToUpper(label[:1]))
}

// splitDirectoryName handles the API's "Last, First" member name format.
func splitDirectoryName(name string) (first, last string) {
	parts := strings.SplitN(name, ",", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
	}
	fields := strings.Fields(name)
	if len(fields) >= 2 {
		return fields[0], fields[len(fields)-1]
	}
	return "", strings.TrimSpace(name)
}

//Personal.AI order the ending
