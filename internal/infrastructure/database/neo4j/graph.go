package neo4j

import (
	"context"

	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

// Graph persists the per-session co-sponsorship network.  Legislators are
// (:Legislator {id, session, ...}) nodes; a -[:COSPONSORED {weight}]-> edge
// means the target co-sponsored weight of the source's bills.
type Graph struct {
	driver DriverInterface
	log    logging.Logger
}

// NewGraph wires the graph store onto a driver.
func NewGraph(driver DriverInterface, log logging.Logger) *Graph {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Graph{driver: driver, log: log.Named("graph")}
}

const deleteSessionCypher = `
	MATCH (l:Legislator {session: $session})
	DETACH DELETE l
`

const mergeNodesCypher = `
	UNWIND $nodes AS row
	MERGE (l:Legislator {id: row.id})
	SET l.session = $session,
	    l.name = row.name,
	    l.party = row.party,
	    l.chamber = row.chamber,
	    l.district = row.district
`

const mergeEdgesCypher = `
	UNWIND $edges AS row
	MATCH (s:Legislator {id: row.source})
	MATCH (t:Legislator {id: row.target})
	MERGE (s)-[e:COSPONSORED]->(t)
	SET e.weight = row.weight
`

// ReplaceSession rewrites one session's subgraph from scratch.  Rebuilds are
// idempotent: the session's previous nodes and edges are removed first.
func (g *Graph) ReplaceSession(ctx context.Context, session int, nodes []sponsorship.NetworkNode, edges []sponsorship.NetworkEdge) error {
	nodeRows := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		nodeRows = append(nodeRows, map[string]any{
			"id":       n.ID,
			"name":     n.Name,
			"party":    string(n.Party),
			"chamber":  string(n.Chamber),
			"district": n.District,
		})
	}
	edgeRows := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		edgeRows = append(edgeRows, map[string]any{
			"source": e.SourceID,
			"target": e.TargetID,
			"weight": e.Weight,
		})
	}

	_, err := g.driver.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
		if _, err := tx.Run(ctx, deleteSessionCypher, map[string]any{"session": session}); err != nil {
			return nil, err
		}
		if len(nodeRows) > 0 {
			if _, err := tx.Run(ctx, mergeNodesCypher, map[string]any{"session": session, "nodes": nodeRows}); err != nil {
				return nil, err
			}
		}
		if len(edgeRows) > 0 {
			if _, err := tx.Run(ctx, mergeEdgesCypher, map[string]any{"edges": edgeRows}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	g.log.Info("co-sponsorship graph replaced",
		logging.Int("session", session),
		logging.Int("nodes", len(nodes)),
		logging.Int("edges", len(edges)))
	return nil
}

const nodesCypher = `
	MATCH (l:Legislator {session: $session})
	RETURN l.id AS id, l.name AS name, l.party AS party,
	       l.chamber AS chamber, l.district AS district
	ORDER BY id
`

const edgesCypher = `
	MATCH (s:Legislator {session: $session})-[e:COSPONSORED]->(t:Legislator)
	RETURN s.id AS source, t.id AS target, e.weight AS weight
	ORDER BY source, target
`

// Network reads one session's graph back as the serving payload.
func (g *Graph) Network(ctx context.Context, session int) (*sponsorship.NetworkView, error) {
	result, err := g.driver.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		view := &sponsorship.NetworkView{Session: session}

		res, err := tx.Run(ctx, nodesCypher, map[string]any{"session": session})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			fields := res.Record().AsMap()
			view.Nodes = append(view.Nodes, sponsorship.NetworkNode{
				ID:       stringValue(fields["id"]),
				Name:     stringValue(fields["name"]),
				Party:    common.Party(stringValue(fields["party"])),
				Chamber:  common.Chamber(stringValue(fields["chamber"])),
				District: intValue(fields["district"]),
			})
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, edgesCypher, map[string]any{"session": session})
		if err != nil {
			return nil, err
		}
		for res.Next(ctx) {
			fields := res.Record().AsMap()
			view.Edges = append(view.Edges, sponsorship.NetworkEdge{
				SourceID: stringValue(fields["source"]),
				TargetID: stringValue(fields["target"]),
				Weight:   intValue(fields["weight"]),
			})
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*sponsorship.NetworkView), nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// intValue accepts int64, the driver's integer representation.
func intValue(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

//Personal.AI order the ending
