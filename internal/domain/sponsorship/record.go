// Package sponsorship holds the per-legislator aggregate produced by a stats
// build and its deterministic output ordering.
package sponsorship

import (
	"sort"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Record is the per-legislator rollup for one session.  Created lazily on a
// legislator's first contribution during an aggregation pass; counts only
// increase within a pass.
type Record struct {
	MemberID string         `json:"memberId"`
	Name     string         `json:"sponsorName"`
	Party    common.Party   `json:"party"`
	Chamber  common.Chamber `json:"chamber"`
	District int            `json:"district"`

	SponsoredTotal         int `json:"sponsored_total"`
	PrimarySponsorTotal    int `json:"primary_sponsor_total"`
	ChiefCoSponsorTotal    int `json:"chief_co_sponsor_total"`
	CoSponsorTotal         int `json:"co_sponsor_total"`
	OriginalCoSponsorTotal int `json:"original_co_sponsor_total"`
	EnactedTotal           int `json:"enacted_total"`
	PublicLawCount         int `json:"public_law_count"`
	PrivateLawCount        int `json:"private_law_count"`

	PublicActNumbers []string `json:"public_act_numbers"`

	// Bipartisan link counters, filled by the score calculator.
	CrossPartyCoSponsorTotal int `json:"bipartisan_cross_party_total"`
	CoSponsorLinkTotal       int `json:"bipartisan_total"`

	// Scores are nil when the legislator has no resolved co-sponsorship
	// links.
	BipartisanScoreRaw *float64 `json:"bipartisan_score_raw"`
	BipartisanScore    *float64 `json:"bipartisan_score"`
}

// SortRecords orders rows by sponsored total descending, then display name
// ascending, for deterministic, human-scannable output.
func SortRecords(rows []*Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SponsoredTotal != rows[j].SponsoredTotal {
			return rows[i].SponsoredTotal > rows[j].SponsoredTotal
		}
		return rows[i].Name < rows[j].Name
	})
}

//Personal.AI order the ending
