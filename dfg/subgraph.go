package dfg

import (
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vset"
)

// Subgraph is a non-owning view of a node set within a Graph. The
// referenced Graph must outlive the Subgraph and must already be indexed
// (Index must have been called) before Pred/Succ/Closure/IsConvex are
// meaningful.
type Subgraph struct {
	Graph *Graph
	Nodes intset.Set
}

// NewSubgraph returns a Subgraph over g holding nodes.
func NewSubgraph(g *Graph, nodes intset.Set) Subgraph {
	return Subgraph{Graph: g, Nodes: nodes}
}

// ancestorsUnion returns the union of the transitive predecessor sets of
// every node in Nodes (proper ancestors, Nodes itself excluded by
// construction since Pred(u) never contains u).
func (sg Subgraph) ancestorsUnion() intset.Set {
	out := intset.New(sg.Graph.NumNodes())
	for _, u := range sg.Nodes.Elements() {
		out.AddSet(sg.Graph.Pred(u))
	}
	return out
}

// descendantsUnion returns the union of the transitive successor sets of
// every node in Nodes.
func (sg Subgraph) descendantsUnion() intset.Set {
	out := intset.New(sg.Graph.NumNodes())
	for _, u := range sg.Nodes.Elements() {
		out.AddSet(sg.Graph.Succ(u))
	}
	return out
}

// Pred returns the external ancestors of Nodes: nodes outside Nodes that
// reach some node in Nodes.
func (sg Subgraph) Pred() intset.Set {
	out := sg.ancestorsUnion()
	out.RemoveSet(sg.Nodes)
	return out
}

// Succ returns the external descendants of Nodes: nodes outside Nodes
// reachable from some node in Nodes.
func (sg Subgraph) Succ() intset.Set {
	out := sg.descendantsUnion()
	out.RemoveSet(sg.Nodes)
	return out
}

// Closure returns Nodes union every node that lies on a path between two
// (possibly equal) nodes of Nodes: Nodes ∪ (descendantsUnion ∩
// ancestorsUnion). Nodes is convex exactly when Closure(Nodes) == Nodes.
func (sg Subgraph) Closure() intset.Set {
	between := intset.IntersectionOf(sg.descendantsUnion(), sg.ancestorsUnion())
	between.AddSet(sg.Nodes)
	return between
}

// IsConvex reports whether Nodes equals its own Closure: no node outside
// Nodes lies on a path between two nodes of Nodes.
func (sg Subgraph) IsConvex() bool {
	return sg.Closure().Equal(sg.Nodes)
}

// hasExternalSuccessor reports whether u (assumed a member of nodes) has
// an immediate out-edge leaving nodes.
func hasExternalSuccessor(g *Graph, nodes intset.Set, u int) bool {
	for _, v := range g.OutEdges(u).Items() {
		if !nodes.Contains(v) {
			return true
		}
	}
	return false
}

// hasInternalSuccessor reports whether u has an immediate out-edge landing
// inside nodes.
func hasInternalSuccessor(g *Graph, nodes intset.Set, u int) bool {
	for _, v := range g.OutEdges(u).Items() {
		if nodes.Contains(v) {
			return true
		}
	}
	return false
}

// IOSubgraph is a Subgraph that incrementally tracks its I/O boundary and
// total weight as nodes are added or removed, mirroring the original
// project's init_io/update_io/init_weight bookkeeping.
type IOSubgraph struct {
	Subgraph
	inputs  vset.Set[int] // external nodes producing a value consumed inside
	outputs vset.Set[int] // internal nodes producing a value consumed outside
	weight  float64
}

// NewIOSubgraph returns an empty IOSubgraph over g.
func NewIOSubgraph(g *Graph) *IOSubgraph {
	return &IOSubgraph{Subgraph: Subgraph{Graph: g, Nodes: intset.New(g.NumNodes())}}
}

// Inputs returns the external producer nodes feeding this subgraph.
func (io *IOSubgraph) Inputs() *vset.Set[int] { return &io.inputs }

// Outputs returns the internal nodes whose value is consumed externally.
func (io *IOSubgraph) Outputs() *vset.Set[int] { return &io.outputs }

// Weight returns the current total node weight.
func (io *IOSubgraph) Weight() float64 { return io.weight }

// Set recomputes Nodes, inputs, outputs, and weight from scratch.
func (io *IOSubgraph) Set(nodes intset.Set) {
	g := io.Graph
	io.Nodes = nodes.Clone()
	io.inputs = vset.Set[int]{}
	io.outputs = vset.Set[int]{}
	io.weight = 0
	for _, u := range io.Nodes.Elements() {
		io.weight += g.Weight(u)
		if hasExternalSuccessor(g, io.Nodes, u) {
			io.outputs.Add(u)
		}
		for _, p := range g.InEdges(u).Items() {
			if !io.Nodes.Contains(p) {
				io.inputs.Add(p)
			}
		}
	}
}

// Add inserts u into the subgraph, updating inputs/outputs/weight in
// O(degree(u)).
func (io *IOSubgraph) Add(u int) {
	g := io.Graph
	io.Nodes.Add(u)
	io.weight += g.Weight(u)
	io.inputs.Remove(u)

	if hasExternalSuccessor(g, io.Nodes, u) {
		io.outputs.Add(u)
	} else {
		io.outputs.Remove(u)
	}

	for _, p := range g.InEdges(u).Items() {
		if io.Nodes.Contains(p) {
			if hasExternalSuccessor(g, io.Nodes, p) {
				io.outputs.Add(p)
			} else {
				io.outputs.Remove(p)
			}
		} else {
			io.inputs.Add(p)
		}
	}
}

// Remove deletes u from the subgraph, updating inputs/outputs/weight in
// O(degree(u)).
func (io *IOSubgraph) Remove(u int) {
	g := io.Graph
	io.Nodes.Remove(u)
	io.weight -= g.Weight(u)
	io.outputs.Remove(u)

	for _, p := range g.InEdges(u).Items() {
		if io.Nodes.Contains(p) {
			if hasExternalSuccessor(g, io.Nodes, p) {
				io.outputs.Add(p)
			}
		} else if !hasInternalSuccessor(g, io.Nodes, p) {
			// p may have fed Nodes only through the edge p->u; drop it from
			// inputs unless it still reaches a remaining node.
			io.inputs.Remove(p)
		}
	}
	if hasInternalSuccessor(g, io.Nodes, u) {
		io.inputs.Add(u)
	} else {
		io.inputs.Remove(u)
	}
}
