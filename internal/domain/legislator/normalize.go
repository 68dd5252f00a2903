package legislator

import (
	"regexp"
	"strings"

	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Name canonicalization rules.  Free-text sponsor names arrive with
// inconsistent title prefixes ("Rep.", "Senator"), generational suffixes
// ("Jr.", "III"), and whitespace; all comparisons in the matcher and the
// action-log parser run on the canonical form produced here.
var (
	titlePattern       = regexp.MustCompile(`(?i)^(Rep\.|Sen\.|Representative|Senator)\s+`)
	suffixPattern      = regexp.MustCompile(`(?i),?\s+(Jr\.?|Sr\.?|II|III|IV|V)$`)
	listTitlePattern   = regexp.MustCompile(`(?i)^(Reps?\.|Rep\.|Sens?\.|Sen\.|Representatives?|Senators?)\s+`)
	suffixCommaJoin    = regexp.MustCompile(`(?i),\s*(Jr\.?|Sr\.?|II|III|IV|V)\b`)
	andSeparator       = regexp.MustCompile(`(?i)\s+and\s+`)
	senateTitlePattern = regexp.MustCompile(`(?i)\b(Sen\.|Senator)\b`)
	houseTitlePattern  = regexp.MustCompile(`(?i)\b(Rep\.|Representative)\b`)
)

// Normalize canonicalizes a free-text legislator name for matching:
//  1. Strip a leading title prefix (Rep., Sen., Representative, Senator).
//  2. Strip a trailing generational suffix (Jr., Sr., II, III, IV, V).
//  3. Collapse whitespace and lowercase.
//
// Total on any input; empty input yields an empty key.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	name := titlePattern.ReplaceAllString(strings.TrimSpace(raw), "")
	name = suffixPattern.ReplaceAllString(name, "")
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	return name
}

// LookupKey creates a simplified lookup key from a name by dropping middle
// names and initials: "{first} {last}" whenever the normalized form has two
// or more tokens, otherwise the normalized form itself.
func LookupKey(raw string) string {
	normalized := Normalize(raw)
	parts := strings.Fields(normalized)
	if len(parts) >= 2 {
		return parts[0] + " " + parts[len(parts)-1]
	}
	return normalized
}

// StripTitlePrefix removes a leading Rep./Sen. style title without any other
// canonicalization.
func StripTitlePrefix(name string) string {
	return strings.TrimSpace(titlePattern.ReplaceAllString(strings.TrimSpace(name), ""))
}

// TrimActionSuffixes removes trailing parentheticals and stray punctuation
// from a name extracted out of free-text action descriptions.
func TrimActionSuffixes(name string) string {
	if name == "" {
		return ""
	}
	cleaned := name
	if idx := strings.Index(cleaned, "("); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " ,;")
	return cleaned
}

// SplitNameList splits the free-text tail of a sponsor action ("Rep. Smith,
// Jones and Lee") into individual raw names.  Suffix commas ("Coffey, Jr.")
// are protected so they do not split a single name in two.
func SplitNameList(raw string) []string {
	if raw == "" {
		return nil
	}

	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	text = listTitlePattern.ReplaceAllString(text, "")
	text = suffixCommaJoin.ReplaceAllString(text, " $1")
	text = andSeparator.ReplaceAllString(text, ", ")

	var names []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = listTitlePattern.ReplaceAllString(part, "")
		part = TrimActionSuffixes(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// InferChamberFromName infers a chamber hint from the title embedded in a raw
// sponsor name, returning the empty chamber when no title is present.
func InferChamberFromName(raw string) common.Chamber {
	if raw == "" {
		return ""
	}
	if senateTitlePattern.MatchString(raw) {
		return common.ChamberSenate
	}
	if houseTitlePattern.MatchString(raw) {
		return common.ChamberHouse
	}
	return ""
}

//Personal.AI order the ending
