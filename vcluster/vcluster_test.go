package vcluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/vcluster"
)

// chainGraph builds 0 -> 1 -> 2 -> 3 -> 4 with no node flagged forbidden.
// Only the source 0 and the sink 4 count as forbidden (by degree), so
// nothing separates any pair of 1, 2, 3, and those three form one cluster
// whose P set is {1, 2, 3}.
func chainGraph() *dfg.Graph {
	g := dfg.New("", 5, 0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.Index()
	return g
}

func TestPartitionWithNoForbiddenNodesIsOneCluster(t *testing.T) {
	g := chainGraph()
	clusters := vcluster.Partition(g)
	assert.Len(t, clusters, 1)
	// Nodes 0 and 4 are forbidden in Forbidden() (no in/out edges), so the
	// partition only ever covers {1,2,3}.
	var total int
	for _, c := range clusters {
		total += len(c.Nodes)
	}
	assert.Equal(t, 3, total)
}

func TestForbiddenNodeSplitsPermissibility(t *testing.T) {
	// 0 -> 1 -> 2 -> 3 -> 4, with 2 forbidden: 1 and 3 can never share a
	// convex subgraph (their betweenness is exactly {2}), so they land in
	// different V-clusters despite being structurally symmetric.
	g := chainGraph()
	g.SetForbidden(2)
	g.Index()

	forbidden := g.Forbidden()
	p1 := vcluster.PermissiblePredecessors(g, forbidden, 1)
	p3 := vcluster.PermissiblePredecessors(g, forbidden, 3)
	assert.False(t, p1.Equal(p3))
	assert.False(t, p1.Contains(3))
	assert.False(t, p3.Contains(1))
}

func TestBuildAndCompatibilityMIS(t *testing.T) {
	g := chainGraph()
	clusters := vcluster.Partition(g)
	require.NotEmpty(t, clusters)

	cg := vcluster.Build(clusters)
	assert.Equal(t, len(clusters), cg.Graph.NumNodes())

	misGraph := cg.CompatibilityMIS()
	assert.Equal(t, len(clusters), misGraph.NumNodes())
}
