// Package ioanalysis computes the permanence analysis that MVSFinder uses
// to prune its branch-and-bound search: which of the current
// configuration's inputs and outputs can never be eliminated within the
// current search subtree ("permanent"), and how much total weight is
// available among the nodes that still could be dropped.
package ioanalysis

import (
	"sort"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vset"
)

// Analysis is the result of one Analyze call.
type Analysis struct {
	NumPermIn           int
	NumPermOut          int
	NumSharedNonPermOut int
	Inputs              vset.Map[int, float64] // non-permanent inputs, scored 1/reuse
	RNodes              vset.Map[int, float64]  // removable inner nodes, scored by DFG weight
}

// IsPermanent reports whether u cannot be removed from the current
// search subtree: either u has already left nodesLeft (it was committed
// to stay), or both its predecessor closure and its successor closure
// reach the committed portion of config (config minus nodesLeft) —
// meaning removing u would disconnect something already decided on both
// sides. Verified against original_source/io.cpp's is_permanent before
// porting, per spec.md §9: the original returns permanent only when
// both intersections are non-empty, not when either is empty.
func IsPermanent(g *dfg.Graph, config, nodesLeft intset.Set, u int) bool {
	if !nodesLeft.Contains(u) {
		return true
	}
	if !g.Pred(u).IntersectsSub(config, nodesLeft) {
		return false
	}
	if !g.Succ(u).IntersectsSub(config, nodesLeft) {
		return false
	}
	return true
}

// inputPermanent reports whether external input u is permanent: some
// immediate successor of u within config is itself permanent.
func inputPermanent(g *dfg.Graph, config, nodesLeft intset.Set, u int) bool {
	for _, v := range g.OutEdges(u).Items() {
		if config.Contains(v) && IsPermanent(g, config, nodesLeft, v) {
			return true
		}
	}
	return false
}

// immediateExternalPredecessors mirrors the IOSubgraph "inputs" field:
// nodes outside config with an edge directly into it.
func immediateExternalPredecessors(g *dfg.Graph, config intset.Set) intset.Set {
	out := intset.New(g.NumNodes())
	for _, u := range config.Elements() {
		for _, p := range g.InEdges(u).Items() {
			if !config.Contains(p) {
				out.Add(p)
			}
		}
	}
	return out
}

// internalOutputs mirrors the IOSubgraph "outputs" field: nodes inside
// config with an edge leaving it.
func internalOutputs(g *dfg.Graph, config intset.Set) []int {
	var out []int
	for _, u := range config.Elements() {
		for _, v := range g.OutEdges(u).Items() {
			if !config.Contains(v) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// Analyze computes the permanence and removable-weight analysis for the
// given config and nodesLeft (the subset of config still undecided by the
// search).
func Analyze(g *dfg.Graph, config, nodesLeft intset.Set) Analysis {
	var a Analysis

	inputs := immediateExternalPredecessors(g, config)
	outputs := internalOutputs(g, config)

	nonPermInputs := intset.New(g.NumNodes())
	for _, u := range inputs.Elements() {
		if inputPermanent(g, config, nodesLeft, u) {
			a.NumPermIn++
		} else {
			nonPermInputs.Add(u)
			reuse := 0
			for _, v := range g.OutEdges(u).Items() {
				if config.Contains(v) {
					reuse++
				}
			}
			if reuse == 0 {
				reuse = 1
			}
			*a.Inputs.Add(u) = 1.0 / float64(reuse)
		}
	}

	for _, u := range outputs {
		if IsPermanent(g, config, nodesLeft, u) {
			a.NumPermOut++
			continue
		}
		for _, p := range nonPermInputs.Elements() {
			if g.OutEdges(p).Contains(u) {
				a.NumSharedNonPermOut++
				break
			}
		}
	}

	for _, u := range intset.IntersectionOf(config, nodesLeft).Elements() {
		if !IsPermanent(g, config, nodesLeft, u) {
			*a.RNodes.Add(u) = g.Weight(u)
		}
	}

	return a
}

// SumSmallest returns the sum of the n smallest values in m (or every
// value, if n exceeds m's length; 0 if n <= 0).
func SumSmallest(m *vset.Map[int, float64], n int) float64 {
	if n <= 0 {
		return 0
	}
	values := make([]float64, 0, m.Len())
	m.Each(func(_ int, v float64) { values = append(values, v) })
	sort.Float64s(values)
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += values[i]
	}
	return sum
}
