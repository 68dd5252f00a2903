package legislator

import (
	"strings"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Matcher resolves free-text sponsor names to known legislators using a
// layered strategy: exact normalized name, then simplified first+last name,
// then last name with chamber disambiguation.
//
// A Matcher is built once per aggregation batch from the full member roster
// for a session.  It is not safe for concurrent mutation; confine each
// instance to one worker.
type Matcher struct {
	exact     map[string]*Legislator
	simple    map[string]*Legislator
	byLast    map[string][]*Legislator
	unmatched []Unmatched
}

// NewMatcher builds the lookup indices from the given roster.
func NewMatcher(members []*Legislator) *Matcher {
	m := &Matcher{
		exact:  make(map[string]*Legislator, len(members)),
		simple: make(map[string]*Legislator, len(members)),
		byLast: make(map[string][]*Legislator),
	}
	for _, member := range members {
		if key := Normalize(member.Name); key != "" {
			m.exact[key] = member
		}
		if member.FirstName != "" && member.LastName != "" {
			key := strings.ToLower(member.FirstName) + " " + strings.ToLower(member.LastName)
			// first entry wins on collision
			if _, ok := m.simple[key]; !ok {
				m.simple[key] = member
			}
		}
		if member.LastName != "" {
			last := strings.ToLower(member.LastName)
			m.byLast[last] = append(m.byLast[last], member)
		}
	}
	return m
}

// Match resolves a sponsor name to a member record, trying exact → simplified
// → last-name strategies in order.  chamberHint, when non-empty, is used to
// disambiguate shared last names.  A name that cannot be resolved is recorded
// in the unmatched list and nil is returned; an empty name returns nil
// without recording anything.
func (m *Matcher) Match(sponsorName string, chamberHint common.Chamber) *Legislator {
	if sponsorName == "" {
		return nil
	}

	exactKey := Normalize(sponsorName)
	if member, ok := m.exact[exactKey]; ok {
		return member
	}

	if member, ok := m.simple[LookupKey(sponsorName)]; ok {
		return member
	}

	parts := strings.Fields(exactKey)
	if len(parts) > 0 {
		lastName := parts[len(parts)-1]
		candidates := m.byLast[lastName]

		if chamberHint != "" && len(candidates) > 0 {
			var filtered []*Legislator
			for _, c := range candidates {
				if c.Chamber == chamberHint {
					filtered = append(filtered, c)
				}
			}
			if len(filtered) == 1 {
				return filtered[0]
			}
		}

		if len(candidates) == 1 {
			return candidates[0]
		}
	}

	m.unmatched = append(m.unmatched, Unmatched{
		Name:       sponsorName,
		Chamber:    chamberHint,
		Normalized: exactKey,
	})
	return nil
}

// Unmatched returns the names recorded as unresolvable so far, in match order.
func (m *Matcher) Unmatched() []Unmatched {
	return m.unmatched
}

//Personal.AI order the ending
