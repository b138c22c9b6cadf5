package ioanalysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/ioanalysis"
	"github.com/exg/mvs/vset"
)

// chainGraph builds 0 -> 1 -> 2 -> 3 -> 4.
func chainGraph() *dfg.Graph {
	g := dfg.New("", 5, 0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.Index()
	return g
}

func setOf(n int, elems ...int) intset.Set {
	s := intset.New(n)
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func TestFullyCommittedConfigHasNoRemovableNodes(t *testing.T) {
	g := chainGraph()
	config := setOf(5, 1, 2, 3)
	nodesLeft := intset.New(5) // nothing left to decide: everything committed

	a := ioanalysis.Analyze(g, config, nodesLeft)
	assert.Equal(t, 1, a.NumPermIn, "the single input 0 is permanent once nothing is left to remove")
	assert.Equal(t, 1, a.NumPermOut)
	assert.Equal(t, 0, a.RNodes.Len())
}

// TestUndecidedMiddleNodeWithBothSidesCommittedIsPermanent exercises the
// fixture from original_source/io.cpp's is_permanent: removing node 2
// would disconnect the already-committed node 1 from the already-
// committed node 3, on both the predecessor and successor side, so node
// 2 is permanent even though it is still nominally "undecided" (present
// in nodesLeft).
func TestUndecidedMiddleNodeWithBothSidesCommittedIsPermanent(t *testing.T) {
	g := chainGraph()
	config := setOf(5, 1, 2, 3)
	nodesLeft := setOf(5, 2) // only node 2 still undecided

	assert.True(t, ioanalysis.IsPermanent(g, config, nodesLeft, 2))
	assert.True(t, ioanalysis.IsPermanent(g, config, nodesLeft, 1))
	assert.True(t, ioanalysis.IsPermanent(g, config, nodesLeft, 3))

	a := ioanalysis.Analyze(g, config, nodesLeft)
	assert.Equal(t, 0, a.RNodes.Len())
}

// TestIsolatedUndecidedNodeIsNonPermanentAndRemovable exercises the case
// IsPermanent must actually free up: a node whose removal cannot
// disconnect anything already committed because one side of it has
// nothing committed left to reach.
func TestIsolatedUndecidedNodeIsNonPermanentAndRemovable(t *testing.T) {
	g := chainGraph()
	config := setOf(5, 1, 2, 3)
	nodesLeft := setOf(5, 1, 2) // nodes 1 and 2 still undecided, 3 committed

	// pred(1) = {0}, which does not intersect config\nodesLeft = {3}: not permanent.
	assert.False(t, ioanalysis.IsPermanent(g, config, nodesLeft, 1))

	a := ioanalysis.Analyze(g, config, nodesLeft)
	assert.Equal(t, 2, a.RNodes.Len())
	w, ok := a.RNodes.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, w)
}

func TestSumSmallest(t *testing.T) {
	var values vset.Map[int, float64]
	*values.Add(1) = 5
	*values.Add(2) = 1
	*values.Add(3) = 3

	assert.Equal(t, 0.0, ioanalysis.SumSmallest(&values, 0))
	assert.Equal(t, 1.0, ioanalysis.SumSmallest(&values, 1))
	assert.Equal(t, 4.0, ioanalysis.SumSmallest(&values, 2))
	assert.Equal(t, 9.0, ioanalysis.SumSmallest(&values, 10))
}
