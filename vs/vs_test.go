package vs_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vs"
)

var fixtureEdges = [][2]int{
	{0, 4}, {1, 4}, {1, 5}, {1, 6}, {4, 2}, {5, 2}, {5, 3}, {6, 0}, {6, 3},
}

func buildFixture() *dfg.Graph {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()
	return g
}

// bruteForceVS independently enumerates every convex, I/O-bounded,
// forbidden-free subgraph by exhaustively checking every subset of
// non-forbidden nodes. It exists so the test does not depend on the
// implementation strategy of vs.Enumerate matching any particular
// internal pruning order — only on the two agreeing on WHICH subgraphs
// qualify.
func bruteForceVS(t *testing.T, g *dfg.Graph, maxIn, maxOut int) [][]int {
	t.Helper()
	n := g.NumNodes()
	forbidden := g.Forbidden()
	var candidates []int
	for u := 0; u < n; u++ {
		if !forbidden.Contains(u) {
			candidates = append(candidates, u)
		}
	}

	var results [][]int
	total := 1 << len(candidates)
	for mask := 1; mask < total; mask++ {
		nodes := intset.New(n)
		for i, u := range candidates {
			if mask&(1<<i) != 0 {
				nodes.Add(u)
			}
		}
		io := dfg.NewIOSubgraph(g)
		io.Set(nodes)
		if io.Inputs().Len() > maxIn || io.Outputs().Len() > maxOut {
			continue
		}
		if !io.IsConvex() {
			continue
		}
		results = append(results, nodes.Elements())
	}
	return results
}

func normalizeSets(sets [][]int) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		sorted := append([]int(nil), s...)
		sort.Ints(sorted)
		out[i] = keyOf(sorted)
	}
	sort.Strings(out)
	return out
}

func keyOf(s []int) string {
	var b strings.Builder
	for _, v := range s {
		fmt.Fprintf(&b, "%d,", v)
	}
	return b.String()
}

func runVS(g *dfg.Graph, maxIn, maxOut int) ([][]int, vs.Stats) {
	var found [][]int
	stats := vs.Enumerate(g, maxIn, maxOut, func(io dfg.IOSubgraph) {
		found = append(found, io.Nodes.Elements())
	})
	return found, stats
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	for _, bound := range []struct{ maxIn, maxOut int }{
		{1, 1}, {2, 1}, {1, 2}, {2, 2},
	} {
		g := buildFixture()
		got, stats := runVS(g, bound.maxIn, bound.maxOut)
		want := bruteForceVS(t, g, bound.maxIn, bound.maxOut)

		assert.Equal(t, int64(len(want)), stats.Count, "bounds %+v", bound)
		assert.Equal(t, normalizeSets(want), normalizeSets(got), "bounds %+v", bound)
	}
}

func TestEveryEmittedSubgraphIsConvexAndForbiddenFree(t *testing.T) {
	g := buildFixture()
	forbidden := g.Forbidden()
	found, _ := runVS(g, 2, 2)
	require.NotEmpty(t, found)

	for _, nodes := range found {
		s := intset.New(g.NumNodes())
		for _, u := range nodes {
			s.Add(u)
			assert.False(t, forbidden.Contains(u))
		}
		sg := dfg.NewSubgraph(g, s)
		assert.True(t, sg.IsConvex(), "nodes %v not convex", nodes)
	}
}

func TestConfigExclusionExtendsForbiddenUpward(t *testing.T) {
	g := buildFixture()
	s := intset.New(g.NumNodes())
	s.Add(4)
	f := vs.ConfigExclusion(g, s)
	// forbidden nodes are in f by construction
	for _, u := range g.Forbidden().Elements() {
		assert.True(t, f.Contains(u))
	}
	// 5 feeds the forbidden sink 3 and is not in s, so it is excluded too;
	// 4 is in s and stays out of f.
	assert.True(t, f.Contains(5))
	assert.False(t, f.Contains(4))
}
