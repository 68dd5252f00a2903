// Package bill holds the bill data model, the free-text action-log parser,
// and the merge-by-identity helpers used by incremental aggregation runs.
package bill

import (
	"fmt"
	"strings"
	"time"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// ActionEntry is one line of a bill's chronological action log.  Dates may be
// missing or unparsable; document order is the fallback tie-break.
type ActionEntry struct {
	Date    string `json:"date,omitempty"` // M/D/YYYY, verbatim from the feed
	Text    string `json:"text"`
	Chamber string `json:"chamber,omitempty"`
}

// ParsedDate returns the entry date as a time, or false when the date is
// missing or not in M/D/YYYY form.
func (a ActionEntry) ParsedDate() (time.Time, bool) {
	s := strings.TrimSpace(a.Date)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CoSponsorRef is one structured co-sponsor entry from a national feed.
type CoSponsorRef struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Party      string `json:"party,omitempty"`
	State      string `json:"state,omitempty"`
	Chamber    string `json:"chamber,omitempty"`
	IsOriginal bool   `json:"is_original"`
	Withdrawn  bool   `json:"withdrawn"`
}

// SponsorRef is the structured primary sponsor from a national feed.
type SponsorRef struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Party   string `json:"party,omitempty"`
	State   string `json:"state,omitempty"`
	Chamber string `json:"chamber,omitempty"`
}

// RawBillRecord is one legislative item as received from a source.  Exactly
// one of the structured sponsor data or the action log is authoritative per
// source; the normalizer handles both.
type RawBillRecord struct {
	Session    int    `json:"session"`
	Type       string `json:"type"` // lowercased: hb, sb, hr, hjr, hjrca, s, ...
	Number     int    `json:"number"`
	UpdateDate string `json:"update_date,omitempty"`

	// Structured path (national bulk feed).
	Sponsor        *SponsorRef    `json:"sponsor,omitempty"`
	CoSponsors     []CoSponsorRef `json:"cosponsors,omitempty"`
	CoSponsorCount *int           `json:"cosponsor_count,omitempty"`

	// Action-log path (state feed).
	Actions []ActionEntry `json:"actions,omitempty"`
	// SponsorFallback is the structured PrimarySponsor/ChiefSponsor field
	// used only when the action log yields no filer.
	SponsorFallback string `json:"sponsor_fallback,omitempty"`

	// Law fields from structured feeds that report enactments directly.
	LawNumber string `json:"law_number,omitempty"`
	LawKind   string `json:"law_kind,omitempty"` // verbatim, e.g. "Public Law"

	LatestActionText string `json:"latest_action_text,omitempty"`
	LatestActionDate string `json:"latest_action_date,omitempty"`

	Title    string `json:"title,omitempty"`
	Synopsis string `json:"synopsis,omitempty"`
}

// ID returns the stable bill identity "{session}-{type}-{number}".
func (r RawBillRecord) ID() string {
	return BillID(r.Session, r.Type, r.Number)
}

// BillID builds the stable bill identity from its parts.
func BillID(session int, billType string, number int) string {
	return fmt.Sprintf("%d-%s-%d", session, strings.ToLower(billType), number)
}

// NormalizedBill is the canonical per-bill shape handed to the aggregator and
// persisted between incremental runs.
//
// Invariant: a name present in ChiefCoSponsors is never also present in
// CoSponsors; promotion removes from the lower tier.
type NormalizedBill struct {
	BillID             string         `json:"bill_id"`
	Session            int            `json:"session"`
	Type               string         `json:"type"`
	Number             int            `json:"number"`
	PrimarySponsorName string         `json:"primary_sponsor_name,omitempty"`
	PrimarySponsorID   string         `json:"primary_sponsor_id,omitempty"`
	ChiefCoSponsors    []string       `json:"chief_co_sponsors,omitempty"`
	CoSponsors         []string       `json:"co_sponsors,omitempty"`
	CoSponsorRefs      []CoSponsorRef `json:"co_sponsor_refs,omitempty"`
	EnactmentMarker    string         `json:"enactment_marker,omitempty"`
	LawType            LawType        `json:"law_type,omitempty"`
	Title              string         `json:"title,omitempty"`
	Synopsis           string         `json:"synopsis,omitempty"`
	LatestActionText   string         `json:"latest_action_text,omitempty"`
	LatestActionDate   string         `json:"latest_action_date,omitempty"`
}

// Enacted reports whether the bill carries an enactment marker.
func (b *NormalizedBill) Enacted() bool {
	return b != nil && b.EnactmentMarker != ""
}

// Chamber returns the originating chamber inferred from the bill type.
func (b *NormalizedBill) Chamber() common.Chamber {
	return ChamberForType(b.Type)
}

// ChamberForType maps a lowercased bill-type code to its originating chamber.
// House types are hb, hr, hjr and hjrca; everything else is senate.
func ChamberForType(billType string) common.Chamber {
	switch strings.ToLower(billType) {
	case "hb", "hr", "hjr", "hjrca":
		return common.ChamberHouse
	default:
		return common.ChamberSenate
	}
}

// LawType distinguishes public from private law enactments.
type LawType string

const (
	LawPublic  LawType = "public"
	LawPrivate LawType = "private"
)

// LawTypeFromKind maps a feed's verbatim law-kind label to a LawType.  Any
// label mentioning "priv" is private; everything else, including the empty
// string, is public.
func LawTypeFromKind(kind string) LawType {
	if strings.Contains(strings.ToLower(kind), "priv") {
		return LawPrivate
	}
	return LawPublic
}

// Law is one detected enactment.
type Law struct {
	Number          string  `json:"number"`
	Type            LawType `json:"type"`
	BillID          string  `json:"bill_id"`
	SponsorMemberID string  `json:"sponsor_member_id,omitempty"`
	Session         int     `json:"session"`
}

// MergeByID merges previously persisted bills with freshly fetched ones by
// bill identity; later inputs override earlier ones.  The returned dedup
// count is the sum of all input sizes minus the merged size, reported so an
// operator can see how much overlap an incremental run produced.
func MergeByID(sets ...[]*NormalizedBill) (merged []*NormalizedBill, deduped int) {
	byID := make(map[string]*NormalizedBill)
	var order []string
	total := 0
	for _, set := range sets {
		for _, b := range set {
			if b == nil || b.BillID == "" {
				continue
			}
			total++
			if _, seen := byID[b.BillID]; !seen {
				order = append(order, b.BillID)
			}
			byID[b.BillID] = b
		}
	}
	merged = make([]*NormalizedBill, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged, total - len(merged)
}

//Personal.AI order the ending
