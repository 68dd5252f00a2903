package sponsorship

import "github.com/Doommen3/congress-bill-stats/pkg/types/common"

// NetworkNode is one legislator in the co-sponsorship graph.
type NetworkNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Party    common.Party   `json:"party"`
	Chamber  common.Chamber `json:"chamber"`
	District int            `json:"district"`
}

// NetworkEdge is a directed co-sponsorship link: the target co-sponsored
// Weight of the source's bills.
type NetworkEdge struct {
	SourceID string `json:"source"`
	TargetID string `json:"target"`
	Weight   int    `json:"weight"`
}

// NetworkView is the graph payload served by the network endpoint.
type NetworkView struct {
	Session int           `json:"session"`
	Nodes   []NetworkNode `json:"nodes"`
	Edges   []NetworkEdge `json:"edges"`
}

//Personal.AI order the ending
