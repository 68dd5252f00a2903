// Package legislator holds the canonical legislator identity model, the name
// normalization rules, and the layered name matcher used to resolve free-text
// sponsor names from feed data to known members.
package legislator

import (
	"fmt"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Legislator is the canonical identity record for one member of a legislature
// within one session.  Immutable once created; looked up by ID throughout.
type Legislator struct {
	// ID is the stable key.  For state members it is
	// "{session}-{chamber}-{district}"; for national members it is the
	// bioguide identifier.
	ID        string         `json:"id"`
	Session   int            `json:"session"`
	Chamber   common.Chamber `json:"chamber"`
	District  int            `json:"district"`
	Name      string         `json:"name"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Party     common.Party   `json:"party"`
	State     string         `json:"state,omitempty"`
	Title     string         `json:"title,omitempty"`
}

// MemberID builds the stable state-member identifier from its parts.
func MemberID(session int, chamber common.Chamber, district int) string {
	return fmt.Sprintf("%d-%s-%d", session, chamber, district)
}

// Unmatched records one sponsor name that could not be resolved to any known
// legislator, for data-quality reporting.
type Unmatched struct {
	Name       string         `json:"name"`
	Chamber    common.Chamber `json:"chamber,omitempty"`
	Normalized string         `json:"normalized"`
}

//Personal.AI order the ending
