package bill

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
)

// Action-log trigger patterns.  State feeds expose sponsorship changes only
// as free-text action descriptions; these regexes classify each entry.
var (
	publicActPattern     = regexp.MustCompile(`(?i)Public\s+Act\s*[.\s]*(\d{3}-\d{4})`)
	primaryFiledPattern  = regexp.MustCompile(`(?i)\b(Prefiled|Filed)\b.*\bby\b\s+(.+)$`)
	sponsorChangePattern = regexp.MustCompile(`(?i)\bChief\s+Sponsor\s+Changed\s+to\b\s*(.+)$`)
	chiefCoAddPattern    = regexp.MustCompile(`(?i)\bAdded\s+Chief\s+Co-?Sponsors?\b`)
	chiefCoRemovePattern = regexp.MustCompile(`(?i)\bRemoved\s+Chief\s+Co-?Sponsors?\b`)
	coAddPattern         = regexp.MustCompile(`(?i)\bAdded\s+Co-?Sponsors?\b`)
	coRemovePattern      = regexp.MustCompile(`(?i)\bRemoved\s+Co-?Sponsors?\b`)
	anyTitlePattern      = regexp.MustCompile(`(?i)(Rep\.|Sen\.|Representative|Senator)`)
)

// ExtractEnactmentMarker scans free text for a "Public Act NNN-NNNN" marker
// and returns the law number, or "" when none is present.
func ExtractEnactmentMarker(text string) string {
	m := publicActPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// normalizeActionText collapses whitespace for pattern matching.
func normalizeActionText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ParseActionDate parses a state action date in M/D/YYYY form.
func ParseActionDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("1/2/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// extractNamesAfter returns the name list following the trigger match in text.
func extractNamesAfter(text string, pattern *regexp.Regexp) []string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	tail := strings.TrimSpace(text[loc[1]:])
	tail = strings.TrimLeft(tail, ": -")
	return legislator.SplitNameList(tail)
}

// applySponsorAction adds or removes a sponsor name from a tier with
// normalized-name de-duplication.  Removal deletes at most one entry.
func applySponsorAction(names []string, name string, add bool) []string {
	if name == "" {
		return names
	}
	key := legislator.Normalize(name)
	if key == "" {
		return names
	}
	if add {
		for _, existing := range names {
			if legislator.Normalize(existing) == key {
				return names
			}
		}
		return append(names, name)
	}
	for idx, existing := range names {
		if legislator.Normalize(existing) == key {
			return append(names[:idx:idx], names[idx+1:]...)
		}
	}
	return names
}

// containsNormalized reports whether names holds an entry equal to name under
// normalization.
func containsNormalized(names []string, name string) bool {
	key := legislator.Normalize(name)
	for _, existing := range names {
		if legislator.Normalize(existing) == key {
			return true
		}
	}
	return false
}

// primaryCandidate is one filed/prefiled hit during primary-sponsor scanning.
type primaryCandidate struct {
	date     time.Time
	hasDate  bool
	docOrder int
	name     string
}

// ExtractPrimarySponsor scans the action log for the bill's primary sponsor.
//
// Filed/prefiled actions naming a titled legislator are ranked by parsed date
// ascending (unparsable dates sort last), then document order, and the
// earliest wins as the initial filer.  A later "Chief Sponsor Changed to"
// action always overrides the filer; when several exist the last one (latest
// date, then latest document order) wins.
func ExtractPrimarySponsor(actions []ActionEntry) string {
	var filed []primaryCandidate
	var changed []primaryCandidate

	for idx, action := range actions {
		text := normalizeActionText(action.Text)
		if text == "" {
			continue
		}

		if m := sponsorChangePattern.FindStringSubmatch(text); m != nil {
			name := legislator.TrimActionSuffixes(m[1])
			name = legislator.StripTitlePrefix(name)
			if name != "" {
				date, ok := ParseActionDate(action.Date)
				changed = append(changed, primaryCandidate{date: date, hasDate: ok, docOrder: idx, name: name})
			}
			continue
		}

		m := primaryFiledPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		nameText := legislator.TrimActionSuffixes(m[2])
		// Guard against false positives like "filed by the Clerk": the name
		// must carry a legislative title token.
		if !anyTitlePattern.MatchString(nameText) {
			continue
		}
		cleaned := legislator.StripTitlePrefix(nameText)
		if cleaned == "" {
			continue
		}
		date, ok := ParseActionDate(action.Date)
		filed = append(filed, primaryCandidate{date: date, hasDate: ok, docOrder: idx, name: cleaned})
	}

	if len(changed) > 0 {
		sort.SliceStable(changed, func(i, j int) bool {
			a, b := changed[i], changed[j]
			if a.hasDate != b.hasDate {
				return a.hasDate // unparsable dates sort after all parsed dates
			}
			if a.hasDate && !a.date.Equal(b.date) {
				return a.date.Before(b.date)
			}
			return a.docOrder < b.docOrder
		})
		return changed[len(changed)-1].name
	}

	if len(filed) == 0 {
		return ""
	}
	sort.SliceStable(filed, func(i, j int) bool {
		a, b := filed[i], filed[j]
		if a.hasDate != b.hasDate {
			return a.hasDate // unparsable dates sort after all parsed dates
		}
		if a.hasDate && !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.docOrder < b.docOrder
	})
	return filed[0].name
}

// ExtractSponsorChanges walks the action log in order and maintains the chief
// co-sponsor and plain co-sponsor tiers.
//
// The four triggers are checked per entry in priority order: added chief →
// removed chief → added co → removed co; an entry matching several is handled
// only under the first.  Adding a chief co-sponsor promotes the name out of
// the plain tier; adding a plain co-sponsor is skipped when the name already
// sits in the chief tier.
func ExtractSponsorChanges(actions []ActionEntry) (chiefCo, co []string) {
	for _, action := range actions {
		text := normalizeActionText(action.Text)
		if text == "" {
			continue
		}

		switch {
		case chiefCoAddPattern.MatchString(text):
			for _, name := range extractNamesAfter(text, chiefCoAddPattern) {
				chiefCo = applySponsorAction(chiefCo, name, true)
				co = applySponsorAction(co, name, false)
			}
		case chiefCoRemovePattern.MatchString(text):
			for _, name := range extractNamesAfter(text, chiefCoRemovePattern) {
				chiefCo = applySponsorAction(chiefCo, name, false)
			}
		case coAddPattern.MatchString(text):
			for _, name := range extractNamesAfter(text, coAddPattern) {
				if containsNormalized(chiefCo, name) {
					continue
				}
				co = applySponsorAction(co, name, true)
			}
		case coRemovePattern.MatchString(text):
			for _, name := range extractNamesAfter(text, coRemovePattern) {
				co = applySponsorAction(co, name, false)
			}
		}
	}
	return chiefCo, co
}

//Personal.AI order the ending
