package neo4j

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Doommen3/congress-bill-stats/internal/domain/sponsorship"
	"github.com/Doommen3/congress-bill-stats/pkg/types/common"
)

type fakeDriver struct {
	executeReadFn  func(ctx context.Context, work TransactionWork) (any, error)
	executeWriteFn func(ctx context.Context, work TransactionWork) (any, error)
}

func (f *fakeDriver) ExecuteRead(ctx context.Context, work TransactionWork) (any, error) {
	return f.executeReadFn(ctx, work)
}

func (f *fakeDriver) ExecuteWrite(ctx context.Context, work TransactionWork) (any, error) {
	return f.executeWriteFn(ctx, work)
}

func (f *fakeDriver) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeDriver) Close(ctx context.Context) error       { return nil }

type runCall struct {
	cypher string
	params map[string]any
}

type fakeTransaction struct {
	calls   []runCall
	results map[int]Result // by call index
}

func (f *fakeTransaction) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, runCall{cypher: cypher, params: params})
	if res, ok := f.results[idx]; ok {
		return res, nil
	}
	return &fakeResult{}, nil
}

type fakeResult struct {
	records []*neo4j.Record
	pos     int
}

func (f *fakeResult) Next(ctx context.Context) bool {
	if f.pos >= len(f.records) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeResult) Record() *neo4j.Record { return f.records[f.pos-1] }
func (f *fakeResult) Err() error            { return nil }
func (f *fakeResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	return nil, nil
}

func record(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestReplaceSessionDeletesThenMerges(t *testing.T) {
	tx := &fakeTransaction{}
	driver := &fakeDriver{
		executeWriteFn: func(ctx context.Context, work TransactionWork) (any, error) {
			return work(tx)
		},
	}
	g := NewGraph(driver, nil)

	nodes := []sponsorship.NetworkNode{
		{ID: "104-house-5", Name: "Alice Alpha", Party: common.Party("D"), Chamber: common.ChamberHouse, District: 5},
		{ID: "104-house-7", Name: "Bob Beta", Party: common.Party("R"), Chamber: common.ChamberHouse, District: 7},
	}
	edges := []sponsorship.NetworkEdge{
		{SourceID: "104-house-5", TargetID: "104-house-7", Weight: 3},
	}
	require.NoError(t, g.ReplaceSession(context.Background(), 104, nodes, edges))

	require.Len(t, tx.calls, 3)
	assert.Contains(t, tx.calls[0].cypher, "DETACH DELETE")
	assert.Equal(t, 104, tx.calls[0].params["session"])

	assert.Contains(t, tx.calls[1].cypher, "MERGE (l:Legislator")
	nodeRows := tx.calls[1].params["nodes"].([]map[string]any)
	require.Len(t, nodeRows, 2)
	assert.Equal(t, "104-house-5", nodeRows[0]["id"])
	assert.Equal(t, "Alice Alpha", nodeRows[0]["name"])
	assert.Equal(t, 5, nodeRows[0]["district"])

	assert.Contains(t, tx.calls[2].cypher, "MERGE (s)-[e:COSPONSORED]->(t)")
	edgeRows := tx.calls[2].params["edges"].([]map[string]any)
	require.Len(t, edgeRows, 1)
	assert.Equal(t, "104-house-7", edgeRows[0]["target"])
	assert.Equal(t, 3, edgeRows[0]["weight"])
}

func TestReplaceSessionEmptyGraphOnlyDeletes(t *testing.T) {
	tx := &fakeTransaction{}
	driver := &fakeDriver{
		executeWriteFn: func(ctx context.Context, work TransactionWork) (any, error) {
			return work(tx)
		},
	}
	g := NewGraph(driver, nil)

	require.NoError(t, g.ReplaceSession(context.Background(), 104, nil, nil))
	require.Len(t, tx.calls, 1)
	assert.Contains(t, tx.calls[0].cypher, "DETACH DELETE")
}

func TestNetworkReadsNodesAndEdges(t *testing.T) {
	tx := &fakeTransaction{
		results: map[int]Result{
			0: &fakeResult{records: []*neo4j.Record{
				record(
					[]string{"id", "name", "party", "chamber", "district"},
					[]any{"104-house-5", "Alice Alpha", "D", "house", int64(5)},
				),
				record(
					[]string{"id", "name", "party", "chamber", "district"},
					[]any{"104-senate-40", "Carol Gamma", "R", "senate", int64(40)},
				),
			}},
			1: &fakeResult{records: []*neo4j.Record{
				record(
					[]string{"source", "target", "weight"},
					[]any{"104-house-5", "104-senate-40", int64(2)},
				),
			}},
		},
	}
	driver := &fakeDriver{
		executeReadFn: func(ctx context.Context, work TransactionWork) (any, error) {
			return work(tx)
		},
	}
	g := NewGraph(driver, nil)

	view, err := g.Network(context.Background(), 104)
	require.NoError(t, err)
	assert.Equal(t, 104, view.Session)
	require.Len(t, view.Nodes, 2)
	assert.Equal(t, sponsorship.NetworkNode{
		ID:       "104-house-5",
		Name:     "Alice Alpha",
		Party:    common.Party("D"),
		Chamber:  common.ChamberHouse,
		District: 5,
	}, view.Nodes[0])
	require.Len(t, view.Edges, 1)
	assert.Equal(t, 2, view.Edges[0].Weight)
}

func TestNetworkPropagatesDriverError(t *testing.T) {
	driver := &fakeDriver{
		executeReadFn: func(ctx context.Context, work TransactionWork) (any, error) {
			return nil, assert.AnError
		},
	}
	g := NewGraph(driver, nil)

	_, err := g.Network(context.Background(), 104)
	assert.Error(t, err)
}

//Personal.AI order the ending
