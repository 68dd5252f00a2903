// Package stats is the application layer of the statistics engine: it
// normalizes raw feed records into the canonical bill shape, folds them into
// per-legislator aggregates, and derives the bipartisan crossover scores.
package stats

import (
	"context"
	"strconv"
	"strings"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Loose-shape extraction helpers
// ---------------------------------------------------------------------------

// Boolish interprets a loosely typed feed value as a boolean.  Accepts native
// booleans, the strings true/t/yes/y/1 (case-insensitive), and nonzero
// numbers; everything else, including nil, is false.
func Boolish(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y", "1":
			return true
		}
		return false
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}

// FirstAlias probes a loosely typed record for a list of known field-name
// aliases in priority order and returns the first present, non-nil value.
func FirstAlias(m map[string]interface{}, aliases ...string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	for _, key := range aliases {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// StringAlias is FirstAlias narrowed to a trimmed string.  Numeric values are
// rendered rather than dropped, since feeds flip between "1" and 1 across
// versions.
func StringAlias(m map[string]interface{}, aliases ...string) string {
	v, ok := FirstAlias(m, aliases...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}

// UnwrapItems accepts a co-sponsor collection in any of the shapes feeds have
// shipped: a bare list, a single object, or a {count, item: ...} wrapper
// (whose item may itself be a list or a single object).  Returns the item
// maps in document order.
func UnwrapItems(v interface{}) []map[string]interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]interface{}:
		if inner, ok := FirstAlias(val, "item", "items", "cosponsor", "cosponsors"); ok {
			return UnwrapItems(inner)
		}
		// A single object that is itself an entry.
		return []map[string]interface{}{val}
	default:
		return nil
	}
}

// CoSponsorCountHint reads a co-sponsor count hint from a wrapper object.
// The second return is false when no usable hint is present.
func CoSponsorCountHint(v interface{}) (int, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return 0, false
	}
	raw, ok := FirstAlias(m, "count", "totalCount", "cosponsorCount")
	if !ok {
		return 0, false
	}
	switch val := raw.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ExtractSponsorRef pulls the primary sponsor out of a structured bill
// object, probing the field-name aliases seen across feed versions.  The
// sponsor may sit under "sponsor" directly, or under "sponsors" as a list
// whose first entry wins.  Returns nil when no sponsor object is present.
func ExtractSponsorRef(billObj map[string]interface{}) *bill.SponsorRef {
	raw, ok := FirstAlias(billObj, "sponsor", "sponsors")
	if !ok {
		return nil
	}
	items := UnwrapItems(raw)
	if len(items) == 0 {
		return nil
	}
	return sponsorFromItem(items[0])
}

func sponsorFromItem(item map[string]interface{}) *bill.SponsorRef {
	ref := &bill.SponsorRef{
		ID:      StringAlias(item, "bioguideId", "bioguideID", "bioguide"),
		Name:    StringAlias(item, "fullName", "name"),
		Party:   StringAlias(item, "party", "partyName"),
		State:   StringAlias(item, "state"),
		Chamber: StringAlias(item, "chamber"),
	}
	if ref.ID == "" && ref.Name == "" {
		return nil
	}
	return ref
}

// ExtractCoSponsorRef normalizes one structured co-sponsor entry.  Withdrawn
// is true when any withdrawal-date alias carries a value or a boolean
// withdrawal flag parses true; IsOriginal follows the original-cosponsor flag
// aliases.  Returns the zero ref and false for an entry with neither an id
// nor a name.
func ExtractCoSponsorRef(item map[string]interface{}) (bill.CoSponsorRef, bool) {
	ref := bill.CoSponsorRef{
		ID:      StringAlias(item, "bioguideId", "bioguideID", "bioguide"),
		Name:    StringAlias(item, "fullName", "name"),
		Party:   StringAlias(item, "party", "partyName"),
		State:   StringAlias(item, "state"),
		Chamber: StringAlias(item, "chamber"),
	}
	if ref.ID == "" && ref.Name == "" {
		return bill.CoSponsorRef{}, false
	}

	withdrawnDate := StringAlias(item, "withdrawnDate", "sponsorshipWithdrawnDate", "withdrawalDate")
	withdrawnFlag, _ := FirstAlias(item, "isWithdrawn", "withdrawn")
	ref.Withdrawn = withdrawnDate != "" || Boolish(withdrawnFlag)

	originalFlag, _ := FirstAlias(item, "isOriginalCosponsor", "originalCosponsor", "isOriginal")
	ref.IsOriginal = Boolish(originalFlag)
	return ref, true
}

// ExtractCoSponsorRefs normalizes a structured co-sponsor collection in any
// accepted wrapper shape.
func ExtractCoSponsorRefs(v interface{}) []bill.CoSponsorRef {
	items := UnwrapItems(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]bill.CoSponsorRef, 0, len(items))
	for _, item := range items {
		if ref, ok := ExtractCoSponsorRef(item); ok {
			out = append(out, ref)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Normalizer
// ---------------------------------------------------------------------------

// DetailFetcher retrieves the per-item detail representation of a bill when
// the list-level record lacks sponsor or co-sponsor data.  Implemented by the
// congress feed client; nil disables detail fallback.
type DetailFetcher interface {
	FetchBillDetail(ctx context.Context, rec *bill.RawBillRecord) (*bill.RawBillRecord, error)
}

// Normalizer converts raw feed records into the canonical NormalizedBill
// shape.  It handles both source families: structured sponsor objects from
// the national bulk feed and free-text action logs from the state feed.
type Normalizer struct {
	detail DetailFetcher
	log    logging.Logger
}

// NewNormalizer builds a Normalizer.  detail may be nil when the caller has
// no per-bill detail endpoint.
func NewNormalizer(detail DetailFetcher, log logging.Logger) *Normalizer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Normalizer{detail: detail, log: log.Named("normalizer")}
}

// Normalize converts one raw record.  Extraction is total: malformed input
// degrades to a bill with no sponsor data, never an error.
func (n *Normalizer) Normalize(ctx context.Context, rec *bill.RawBillRecord) *bill.NormalizedBill {
	if rec == nil {
		return nil
	}
	nb := &bill.NormalizedBill{
		BillID:           rec.ID(),
		Session:          rec.Session,
		Type:             strings.ToLower(rec.Type),
		Number:           rec.Number,
		Title:            rec.Title,
		Synopsis:         rec.Synopsis,
		LatestActionText: rec.LatestActionText,
		LatestActionDate: rec.LatestActionDate,
	}

	if len(rec.Actions) > 0 {
		n.normalizeFromActions(rec, nb)
	} else {
		n.normalizeStructured(ctx, rec, nb)
	}

	if rec.LawNumber != "" {
		nb.EnactmentMarker = rec.LawNumber
		nb.LawType = bill.LawTypeFromKind(rec.LawKind)
	}
	return nb
}

// normalizeFromActions covers the state feed: the action log is authoritative
// for sponsorship and enactment.
func (n *Normalizer) normalizeFromActions(rec *bill.RawBillRecord, nb *bill.NormalizedBill) {
	nb.PrimarySponsorName = bill.ExtractPrimarySponsor(rec.Actions)
	if nb.PrimarySponsorName == "" && rec.SponsorFallback != "" {
		// Structured chief-sponsor field lists every sponsor comma-joined;
		// only the first name is the primary.
		first := rec.SponsorFallback
		if idx := strings.Index(first, ","); idx >= 0 {
			first = first[:idx]
		}
		first = legislator.StripTitlePrefix(legislator.TrimActionSuffixes(first))
		nb.PrimarySponsorName = first
	}

	nb.ChiefCoSponsors, nb.CoSponsors = bill.ExtractSponsorChanges(rec.Actions)

	for _, action := range rec.Actions {
		if marker := bill.ExtractEnactmentMarker(action.Text); marker != "" {
			nb.EnactmentMarker = marker
			nb.LawType = bill.LawPublic
		}
	}
	if last := rec.Actions[len(rec.Actions)-1]; nb.LatestActionText == "" {
		nb.LatestActionText = last.Text
		nb.LatestActionDate = last.Date
	}
}

// normalizeStructured covers the national feed: sponsor and co-sponsor
// objects are authoritative.  When the list-level record carries neither and
// a detail fetcher is wired, the detail representation is fetched once and
// extraction retried there.
func (n *Normalizer) normalizeStructured(ctx context.Context, rec *bill.RawBillRecord, nb *bill.NormalizedBill) {
	sponsor := rec.Sponsor
	cosponsors := rec.CoSponsors

	needDetail := sponsor == nil || (len(cosponsors) == 0 && !zeroCountHint(rec))
	if needDetail && n.detail != nil {
		detail, err := n.detail.FetchBillDetail(ctx, rec)
		if err != nil {
			n.log.Warn("bill detail fetch failed",
				logging.String("bill_id", nb.BillID),
				logging.Err(err))
		} else if detail != nil {
			if sponsor == nil {
				sponsor = detail.Sponsor
			}
			if len(cosponsors) == 0 {
				cosponsors = detail.CoSponsors
			}
			if nb.LatestActionText == "" {
				nb.LatestActionText = detail.LatestActionText
				nb.LatestActionDate = detail.LatestActionDate
			}
		}
	}

	if sponsor != nil {
		nb.PrimarySponsorID = sponsor.ID
		nb.PrimarySponsorName = sponsor.Name
	}
	nb.CoSponsorRefs = cosponsors
}

// zeroCountHint reports whether the record carries an explicit co-sponsor
// count of zero, which makes a detail fetch pointless.
func zeroCountHint(rec *bill.RawBillRecord) bool {
	return rec.CoSponsorCount != nil && *rec.CoSponsorCount == 0
}

//Personal.AI order the ending
