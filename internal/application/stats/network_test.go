package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
)

func TestBuildNetworkWeightsRepeatLinks(t *testing.T) {
	bills := []*bill.NormalizedBill{
		{
			BillID: "104-hb-1", Session: 104, Type: "hb", Number: 1,
			PrimarySponsorName: "Alice Blue",
			CoSponsors:         []string{"Rep. Bob Red", "Rep. Carol Red"},
		},
		{
			BillID: "104-hb-2", Session: 104, Type: "hb", Number: 2,
			PrimarySponsorName: "Alice Blue",
			CoSponsors:         []string{"Rep. Bob Red"},
		},
	}
	nodes, edges := BuildNetwork(testRoster(), bills)

	require.Len(t, nodes, 3)
	assert.Equal(t, "104-house-1", nodes[0].ID)
	assert.Equal(t, "104-house-2", nodes[1].ID)
	assert.Equal(t, "104-house-3", nodes[2].ID)

	require.Len(t, edges, 2)
	assert.Equal(t, sponsorship.NetworkEdge{
		SourceID: "104-house-1", TargetID: "104-house-2", Weight: 2,
	}, edges[0])
	assert.Equal(t, sponsorship.NetworkEdge{
		SourceID: "104-house-1", TargetID: "104-house-3", Weight: 1,
	}, edges[1])
}

func TestBuildNetworkSkipsWithdrawnAndUnresolved(t *testing.T) {
	bills := []*bill.NormalizedBill{
		{
			BillID: "104-hb-3", Session: 104, Type: "hb", Number: 3,
			PrimarySponsorName: "Alice Blue",
			CoSponsorRefs: []bill.CoSponsorRef{
				{Name: "Rep. Bob Red", Withdrawn: true},
				{Name: "Rep. Nobody Known"},
				{Name: "Rep. Dana Blue"},
			},
		},
	}
	nodes, edges := BuildNetwork(testRoster(), bills)

	require.Len(t, edges, 1)
	assert.Equal(t, "104-house-4", edges[0].TargetID)
	// Only the sponsor and the one resolved co-sponsor appear.
	require.Len(t, nodes, 2)
}

func TestBuildNetworkUnresolvedPrimaryContributesNothing(t *testing.T) {
	bills := []*bill.NormalizedBill{
		{
			BillID: "104-hb-4", Session: 104, Type: "hb", Number: 4,
			PrimarySponsorName: "Rep. Nobody Known",
			CoSponsors:         []string{"Rep. Bob Red"},
		},
	}
	nodes, edges := BuildNetwork(testRoster(), bills)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}

func TestBuildNetworkNoSelfEdges(t *testing.T) {
	bills := []*bill.NormalizedBill{
		{
			BillID: "104-hb-5", Session: 104, Type: "hb", Number: 5,
			PrimarySponsorName: "Alice Blue",
			CoSponsors:         []string{"Rep. Alice Blue", "Rep. Bob Red"},
		},
	}
	nodes, edges := BuildNetwork(testRoster(), bills)

	require.Len(t, edges, 1)
	assert.Equal(t, "104-house-2", edges[0].TargetID)
	assert.Len(t, nodes, 2)
}

//Personal.AI order the ending
