package stats

import (
	"sort"

	"github.com/Doommen3/congress-bill-stats/internal/domain/bill"
	"github.com/Doommen3/congress-bill-stats/internal/domain/legislator"
	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
)

// BuildNetwork derives the co-sponsorship graph from a bill set.  Names are
// resolved with the same precedence the aggregation pass uses, so the graph
// and the stats rows agree on who is who.  Withdrawn co-sponsors carry no
// edge.  Output ordering is deterministic: nodes by id, edges by source then
// target.
func BuildNetwork(roster []*legislator.Legislator, bills []*bill.NormalizedBill) ([]sponsorship.NetworkNode, []sponsorship.NetworkEdge) {
	a := NewAggregator(roster, nil)

	weights := make(map[[2]string]int)
	active := make(map[string]bool)

	link := func(sponsorID, coSponsorID string) {
		if coSponsorID == sponsorID {
			return
		}
		weights[[2]string{sponsorID, coSponsorID}]++
		active[sponsorID] = true
		active[coSponsorID] = true
	}

	for _, b := range bills {
		if b == nil || b.BillID == "" {
			continue
		}
		billChamber := b.Chamber()
		primary := a.resolvePrimary(b, billChamber)
		if primary == nil {
			continue
		}
		active[primary.ID] = true

		seen := map[string]bool{primary.ID: true}
		for _, name := range b.ChiefCoSponsors {
			if member := a.resolveName(name, billChamber); member != nil && !seen[member.ID] {
				seen[member.ID] = true
				link(primary.ID, member.ID)
			}
		}
		for _, name := range b.CoSponsors {
			if member := a.resolveName(name, billChamber); member != nil && !seen[member.ID] {
				seen[member.ID] = true
				link(primary.ID, member.ID)
			}
		}
		for _, ref := range b.CoSponsorRefs {
			if ref.Withdrawn {
				continue
			}
			if member := a.resolveRef(ref, billChamber); member != nil && !seen[member.ID] {
				seen[member.ID] = true
				link(primary.ID, member.ID)
			}
		}
	}

	nodes := make([]sponsorship.NetworkNode, 0, len(active))
	for _, member := range roster {
		if member == nil || !active[member.ID] {
			continue
		}
		nodes = append(nodes, sponsorship.NetworkNode{
			ID:       member.ID,
			Name:     member.Name,
			Party:    member.Party,
			Chamber:  member.Chamber,
			District: member.District,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]sponsorship.NetworkEdge, 0, len(weights))
	for pair, weight := range weights {
		edges = append(edges, sponsorship.NetworkEdge{
			SourceID: pair[0],
			TargetID: pair[1],
			Weight:   weight,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].TargetID < edges[j].TargetID
	})
	return nodes, edges
}

//Personal.AI order the ending
