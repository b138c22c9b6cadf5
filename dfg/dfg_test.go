package dfg_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
)

// fixtureEdges is the standard small fixture: 7 nodes, DFS from node 0
// then node 1 visits every remaining node.
var fixtureEdges = [][2]int{
	{0, 4}, {1, 4}, {1, 5}, {1, 6}, {4, 2}, {5, 2}, {5, 3}, {6, 0}, {6, 3},
}

func TestDFSVisitReversePostorder(t *testing.T) {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}

	var postorder []int
	dfg.DFSVisit(g, func(u int) { postorder = append(postorder, u) })

	reversed := make([]int, len(postorder))
	for i, u := range postorder {
		reversed[len(postorder)-1-i] = u
	}
	assert.Equal(t, []int{1, 6, 5, 3, 0, 4, 2}, reversed)
}

func TestIndexComputesTransitiveClosure(t *testing.T) {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()

	assert.ElementsMatch(t, []int{2}, g.Succ(4).Elements())
	assert.ElementsMatch(t, []int{0, 1, 6}, g.Pred(4).Elements())
	assert.ElementsMatch(t, []int{0, 2, 3, 4}, g.Succ(6).Elements())
	assert.ElementsMatch(t, []int{1}, g.Pred(6).Elements())
}

func TestForbiddenIncludesSourcesAndSinks(t *testing.T) {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()

	forbidden := g.Forbidden()
	// node 1 has no in-edges, nodes 2 and 3 have no out-edges.
	assert.True(t, forbidden.Contains(1))
	assert.True(t, forbidden.Contains(2))
	assert.True(t, forbidden.Contains(3))
	assert.False(t, forbidden.Contains(0))
	assert.False(t, forbidden.Contains(4))
}

func TestParseRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"p test 3 1 1 42",
		"n 1 2.5 0",
		"n 2 1.0 1",
		"n 3 0.5 0",
		"e 1 2",
		"e 2 3",
		"",
	}, "\n")

	g, err := dfg.Parse(strings.NewReader(input), true)
	require.NoError(t, err)
	assert.Equal(t, "test", g.Name())
	assert.Equal(t, 42, g.Frequency())
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2.5, g.Weight(0))
	assert.True(t, g.IsForbidden(1))
	assert.ElementsMatch(t, []int{1, 2}, g.Succ(0).Elements())
}

func TestParseIgnoresWeightsWhenDisabled(t *testing.T) {
	input := "p test 2 0 0 0\nn 1 9.0 0\nn 2 9.0 0\ne 1 2\n"
	g, err := dfg.Parse(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Weight(0))
	assert.Equal(t, 1.0, g.Weight(1))
}

func TestParseRejectsMalformedLines(t *testing.T) {
	cases := []string{
		"x bogus line",
		"p test notanumber 0 0 0",
		"n 1 notafloat 0",
		"e 1",
	}
	for _, c := range cases {
		input := "p test 2 0 0 0\n" + c + "\n"
		if c == "x bogus line" {
			input = c + "\n"
		}
		_, err := dfg.Parse(strings.NewReader(input), true)
		assert.ErrorIs(t, err, dfg.ErrInvalidLine, "input %q", c)
	}
}

func TestParseRequiresHeaderFirst(t *testing.T) {
	_, err := dfg.Parse(strings.NewReader("e 1 2\n"), true)
	assert.ErrorIs(t, err, dfg.ErrMissingHeader)
}

func TestSubgraphConvexity(t *testing.T) {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()

	// {4, 2} is convex: no external node lies on a path between them.
	convexNodes := newSet(g, 4, 2)
	sg := dfg.NewSubgraph(g, convexNodes)
	assert.True(t, sg.IsConvex())

	// {0, 2} is not convex: 4 lies on the path 0 -> 4 -> 2.
	nonConvex := newSet(g, 0, 2)
	sg2 := dfg.NewSubgraph(g, nonConvex)
	assert.False(t, sg2.IsConvex())
}

func TestIOSubgraphIncrementalMatchesSet(t *testing.T) {
	g := dfg.New("", 7, 0)
	for _, e := range fixtureEdges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()

	io := dfg.NewIOSubgraph(g)
	io.Add(4)
	io.Add(2)

	full := dfg.NewIOSubgraph(g)
	full.Set(newSet(g, 4, 2))

	assert.ElementsMatch(t, full.Inputs().Items(), io.Inputs().Items())
	assert.ElementsMatch(t, full.Outputs().Items(), io.Outputs().Items())
	assert.Equal(t, full.Weight(), io.Weight())

	io.Remove(2)
	full.Set(newSet(g, 4))
	assert.ElementsMatch(t, full.Inputs().Items(), io.Inputs().Items())
	assert.ElementsMatch(t, full.Outputs().Items(), io.Outputs().Items())
	assert.Equal(t, full.Weight(), io.Weight())
}

func newSet(g *dfg.Graph, elems ...int) intset.Set {
	s := intset.New(g.NumNodes())
	for _, e := range elems {
		s.Add(e)
	}
	return s
}
