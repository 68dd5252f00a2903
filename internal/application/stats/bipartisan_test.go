package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
)

// Scenario: Alice (D) sponsors 2 bills each co-sponsored by Bob (R); Carol
// (R) sponsors 9 bills, 8 co-sponsored by herself and 1 by Bob.  Bob lands at
// 2 cross-party links out of 3; the house Republican baseline is 2/11.
func TestBipartisanScoreSmoothedByGroupBaseline(t *testing.T) {
	roster := testRoster()
	matcher := legislator.NewMatcher(roster)
	byMember := map[string]*sponsorship.Record{}

	bills := []*bill.NormalizedBill{
		{PrimarySponsorID: "104-house-1", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
		{PrimarySponsorID: "104-house-1", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
		{PrimarySponsorID: "104-house-3", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
	}
	for i := 0; i < 8; i++ {
		bills = append(bills, &bill.NormalizedBill{
			PrimarySponsorID: "104-house-3", Type: "hb",
			CoSponsors: []string{"Rep. Carol Red"},
		})
	}

	calc := NewBipartisanCalculator(10.0)
	calc.Compute(byMember, bills, roster, matcher)

	bob := byMember["104-house-2"]
	require.NotNil(t, bob)
	assert.Equal(t, 2, bob.CrossPartyCoSponsorTotal)
	assert.Equal(t, 3, bob.CoSponsorLinkTotal)
	require.NotNil(t, bob.BipartisanScoreRaw)
	assert.InDelta(t, 66.7, *bob.BipartisanScoreRaw, 0.001)

	baseline := 2.0 / 11.0
	expected := round1(100 * (2 + 10.0*baseline) / (3 + 10.0))
	require.NotNil(t, bob.BipartisanScore)
	assert.InDelta(t, expected, *bob.BipartisanScore, 0.001)
	assert.Less(t, *bob.BipartisanScore, *bob.BipartisanScoreRaw)

	// Self-cosponsorship still counts as a same-party link.
	carol := byMember["104-house-3"]
	require.NotNil(t, carol)
	assert.Equal(t, 0, carol.CrossPartyCoSponsorTotal)
	assert.Equal(t, 8, carol.CoSponsorLinkTotal)
}

// Smoothed scores sit strictly between the raw score and the peer-group
// baseline whenever the legislator has links and differs from the baseline.
func TestBipartisanSmoothingBounds(t *testing.T) {
	roster := testRoster()
	matcher := legislator.NewMatcher(roster)
	byMember := map[string]*sponsorship.Record{}

	bills := []*bill.NormalizedBill{
		{PrimarySponsorID: "104-house-1", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
		{PrimarySponsorID: "104-house-1", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
		{PrimarySponsorID: "104-house-3", Type: "hb", CoSponsors: []string{"Rep. Bob Red"}},
	}
	for i := 0; i < 8; i++ {
		bills = append(bills, &bill.NormalizedBill{
			PrimarySponsorID: "104-house-3", Type: "hb",
			CoSponsors: []string{"Rep. Carol Red"},
		})
	}

	calc := NewBipartisanCalculator(10.0)
	calc.Compute(byMember, bills, roster, matcher)

	baselinePct := 100 * 2.0 / 11.0
	for _, id := range []string{"104-house-2", "104-house-3"} {
		rec := byMember[id]
		require.NotNil(t, rec.BipartisanScore, "member %s", id)
		raw := *rec.BipartisanScoreRaw
		smoothed := *rec.BipartisanScore
		if raw > baselinePct {
			assert.Greater(t, smoothed, baselinePct)
			assert.Less(t, smoothed, raw)
		} else if raw < baselinePct {
			assert.Less(t, smoothed, baselinePct)
			assert.Greater(t, smoothed, raw)
		}
	}
}

func TestBipartisanScoresNilWithoutLinks(t *testing.T) {
	roster := testRoster()
	matcher := legislator.NewMatcher(roster)
	byMember := map[string]*sponsorship.Record{
		"104-house-1": {
			MemberID: "104-house-1", Name: "Alice Blue",
			Party: "D", Chamber: "house", District: 1,
			PublicActNumbers: []string{},
		},
	}

	bills := []*bill.NormalizedBill{
		{PrimarySponsorID: "104-house-1", Type: "hb", CoSponsors: []string{"Rep. Unknown Person"}},
	}

	calc := NewBipartisanCalculator(10.0)
	calc.Compute(byMember, bills, roster, matcher)

	alice := byMember["104-house-1"]
	assert.Nil(t, alice.BipartisanScoreRaw)
	assert.Nil(t, alice.BipartisanScore)
	assert.Equal(t, 0, alice.CrossPartyCoSponsorTotal)
	assert.Equal(t, 0, alice.CoSponsorLinkTotal)
}

func TestBipartisanChiefTierAndStructuredRefsCount(t *testing.T) {
	roster := testRoster()
	matcher := legislator.NewMatcher(roster)
	byMember := map[string]*sponsorship.Record{}

	bills := []*bill.NormalizedBill{
		{
			PrimarySponsorID: "104-house-1", Type: "hb",
			ChiefCoSponsors: []string{"Rep. Bob Red"},
		},
		{
			PrimarySponsorID: "104-house-1", Type: "hb",
			CoSponsorRefs: []bill.CoSponsorRef{
				{ID: "104-house-2"},
				{ID: "104-house-3", Withdrawn: true},
			},
		},
	}

	calc := NewBipartisanCalculator(10.0)
	calc.Compute(byMember, bills, roster, matcher)

	bob := byMember["104-house-2"]
	require.NotNil(t, bob)
	assert.Equal(t, 2, bob.CoSponsorLinkTotal)
	assert.Equal(t, 2, bob.CrossPartyCoSponsorTotal)
	assert.Nil(t, byMember["104-house-3"], "withdrawn refs contribute no links")
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 66.7, round1(100*2.0/3.0))
	assert.Equal(t, 0.0, round1(0))
	assert.Equal(t, 29.4, round1(29.37))
}

//Personal.AI order the ending
