package stats

import (
	"math"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// BipartisanCalculator derives the cross-party co-sponsorship scores from a
// finished aggregation pass.  Each resolved co-sponsorship link is credited
// to the co-sponsoring legislator; a link is cross-party when the co-sponsor's
// declared party differs from the bill sponsor's.
//
// Raw score is the plain cross-party percentage.  The published score shrinks
// it toward the legislator's (chamber, party) peer-group baseline with a
// fixed-weight prior, so low-sample legislators do not report noisy extremes.
type BipartisanCalculator struct {
	// PriorWeight is the shrinkage weight: the number of baseline-rate
	// pseudo-links blended into each legislator's observed links.
	PriorWeight float64
}

// NewBipartisanCalculator builds a calculator with the given prior weight.
// Weights at or below zero disable smoothing (the score equals the raw
// score).
func NewBipartisanCalculator(priorWeight float64) *BipartisanCalculator {
	return &BipartisanCalculator{PriorWeight: priorWeight}
}

// Compute walks the bill set, counts co-sponsorship links into the aggregate
// rows, and fills the raw and smoothed scores.  byMember rows are created
// lazily for co-sponsors that have no row yet; sponsor-side lookups use the
// roster.  Bills whose sponsor is unresolved or whose sponsor's party is
// unknown contribute no links.
func (c *BipartisanCalculator) Compute(
	byMember map[string]*sponsorship.Record,
	bills []*bill.NormalizedBill,
	roster []*legislator.Legislator,
	matcher *legislator.Matcher,
) {
	byID := make(map[string]*legislator.Legislator, len(roster))
	for _, member := range roster {
		if member != nil && member.ID != "" {
			byID[member.ID] = member
		}
	}

	for _, b := range bills {
		if b == nil || b.PrimarySponsorID == "" {
			continue
		}
		sponsorParty := sponsorPartyFor(b.PrimarySponsorID, byMember, byID)
		if sponsorParty == "" {
			continue
		}
		billChamber := b.Chamber()

		credit := func(member *legislator.Legislator) {
			rec := byMember[member.ID]
			if rec == nil {
				rec = &sponsorship.Record{
					MemberID:         member.ID,
					Name:             member.Name,
					Party:            member.Party,
					Chamber:          member.Chamber,
					District:         member.District,
					PublicActNumbers: []string{},
				}
				byMember[member.ID] = rec
			}
			rec.CoSponsorLinkTotal++
			if rec.Party != "" && rec.Party != sponsorParty {
				rec.CrossPartyCoSponsorTotal++
			}
		}

		for _, name := range b.ChiefCoSponsors {
			if member := matchName(matcher, name, billChamber); member != nil {
				credit(member)
			}
		}
		for _, name := range b.CoSponsors {
			if member := matchName(matcher, name, billChamber); member != nil {
				credit(member)
			}
		}
		for _, ref := range b.CoSponsorRefs {
			if ref.Withdrawn {
				continue
			}
			if member, ok := byID[ref.ID]; ok {
				credit(member)
			} else if member := matchName(matcher, ref.Name, billChamber); member != nil {
				credit(member)
			}
		}
	}

	c.score(byMember)
}

// score fills BipartisanScoreRaw and BipartisanScore on every row.  Rows with
// no links keep both scores nil.
func (c *BipartisanCalculator) score(byMember map[string]*sponsorship.Record) {
	type groupKey struct {
		chamber common.Chamber
		party   common.Party
	}
	type groupSum struct {
		cross int
		total int
	}
	groups := make(map[groupKey]*groupSum)
	for _, rec := range byMember {
		key := groupKey{chamber: rec.Chamber, party: rec.Party}
		sum := groups[key]
		if sum == nil {
			sum = &groupSum{}
			groups[key] = sum
		}
		sum.cross += rec.CrossPartyCoSponsorTotal
		sum.total += rec.CoSponsorLinkTotal
	}

	for _, rec := range byMember {
		if rec.CoSponsorLinkTotal == 0 {
			rec.BipartisanScoreRaw = nil
			rec.BipartisanScore = nil
			continue
		}
		cross := float64(rec.CrossPartyCoSponsorTotal)
		total := float64(rec.CoSponsorLinkTotal)

		raw := round1(100 * cross / total)
		rec.BipartisanScoreRaw = &raw

		sum := groups[groupKey{chamber: rec.Chamber, party: rec.Party}]
		baseline := 0.0
		if sum != nil && sum.total > 0 {
			baseline = float64(sum.cross) / float64(sum.total)
		}
		smoothed := round1(100 * (cross + c.PriorWeight*baseline) / (total + c.PriorWeight))
		rec.BipartisanScore = &smoothed
	}
}

// sponsorPartyFor resolves the bill sponsor's declared party, preferring an
// existing aggregate row over the roster.
func sponsorPartyFor(
	memberID string,
	byMember map[string]*sponsorship.Record,
	byID map[string]*legislator.Legislator,
) common.Party {
	if rec, ok := byMember[memberID]; ok && rec.Party != "" {
		return rec.Party
	}
	if member, ok := byID[memberID]; ok {
		return member.Party
	}
	return ""
}

func matchName(matcher *legislator.Matcher, name string, billChamber common.Chamber) *legislator.Legislator {
	if name == "" {
		return nil
	}
	hint := legislator.InferChamberFromName(name)
	if hint == "" {
		hint = billChamber
	}
	return matcher.Match(name, hint)
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

//Personal.AI order the ending
