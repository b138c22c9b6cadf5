// Package vs enumerates every convex, I/O-bounded subgraph ("valid
// subgraph", VS) of a data-flow graph by growing a chosen output frontier
// backward through its predecessors. It follows the reverse-growth scheme
// of Pozzi/Atasu/Ienne, generalized to report the full VS family rather
// than a single optimum: an outer recursion chooses which nodes serve as
// the output frontier (canonicalized to avoid enumerating the same
// frontier twice), and an inner recursion (VSFinder) grows the convex
// closure of that frontier backward, one external predecessor at a time,
// until every remaining predecessor has been permanently excluded.
package vs

import (
	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
)

// Stats reports the work Enumerate performed.
type Stats struct {
	Count int64 // number of distinct VS subgraphs emitted
	Calls int64 // number of inner visit() recursive calls
}

// ConfigExclusion computes the forbidden set that the inner search must
// respect for a given output frontier s: the DFG's forbidden nodes,
// extended upward by iterating candidate node b from N-1 down to 0 — if b
// is already excluded, every in-edge endpoint a of b with a not in s is
// excluded too, since any path reaching s through b is blocked.
func ConfigExclusion(g *dfg.Graph, s intset.Set) intset.Set {
	n := g.NumNodes()
	f := g.Forbidden().Clone()
	for b := n - 1; b >= 0; b-- {
		if f.Contains(b) {
			for _, a := range g.InEdges(b).Items() {
				if !s.Contains(a) {
					f.Add(a)
				}
			}
		}
	}
	return f
}

// immediateExternalPredecessors returns the nodes outside config that
// feed an edge directly into config: the "inputs" of the IOSubgraph that
// config will become once emitted.
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

// finder holds the state threaded through one Enumerate call.
type finder struct {
	g       *dfg.Graph
	maxIn   int
	maxOut  int
	emit    func(dfg.IOSubgraph)
	stats   Stats
	emitted []intset.Set
}

// Enumerate calls emit once for every convex subgraph of g with at most
// maxIn inputs and maxOut outputs, none of them forbidden.
func Enumerate(g *dfg.Graph, maxIn, maxOut int, emit func(dfg.IOSubgraph)) Stats {
	f := &finder{g: g, maxIn: maxIn, maxOut: maxOut, emit: emit}
	n := g.NumNodes()
	forbidden := g.Forbidden()
	for u := n - 1; u >= 0; u-- {
		if forbidden.Contains(u) {
			continue
		}
		outputs := intset.New(n)
		outputs.Add(u)
		f.growOutputs(outputs, u-1)
	}
	return f.stats
}

// growOutputs is the outer procedure: it runs the inner search for the
// current output frontier, then (if under the size bound) extends the
// frontier with every eligible candidate strictly smaller than the
// current minimum, recursing once per candidate.
func (f *finder) growOutputs(outputs intset.Set, bound int) {
	f.runInner(outputs)
	if outputs.Size() >= f.maxOut {
		return
	}

	predOutputs := f.unionPred(outputs)
	exclusion := ConfigExclusion(f.g, outputs)
	forbidden := f.g.Forbidden()
	for u := bound; u >= 0; u-- {
		if forbidden.Contains(u) {
			continue
		}
		if !f.eligible(u, predOutputs, exclusion) {
			continue
		}
		next := outputs.Clone()
		next.Add(u)
		f.growOutputs(next, u-1)
	}
}

// eligible reports whether u may extend the current output frontier:
// it must not already be reachable as an internal node, i.e. it must not
// be the case that u is already an ancestor of the frontier AND some
// successor of u is simultaneously an ancestor of the frontier and
// permanently excluded (which would mean growing through u is pointless,
// since the inner search would immediately wall it off).
func (f *finder) eligible(u int, predOutputs, exclusion intset.Set) bool {
	if !predOutputs.Contains(u) {
		return true
	}
	return !f.g.Succ(u).IntersectsAnd(predOutputs, exclusion)
}

func (f *finder) unionPred(s intset.Set) intset.Set {
	out := intset.New(f.g.NumNodes())
	for _, u := range s.Elements() {
		out.AddSet(f.g.Pred(u))
	}
	return out
}

// runInner grows the convex closure of outputs backward until no further
// predecessor decision remains, per visit.
func (f *finder) runInner(outputs intset.Set) {
	sub := dfg.NewSubgraph(f.g, outputs.Clone())
	config := sub.Closure()
	exclusion := ConfigExclusion(f.g, outputs)
	f.visit(config, exclusion)
}

// visit implements VSFinder: pick an undecided external predecessor of
// config and branch on including or permanently excluding it, until none
// remain, at which point config is convex and ready to emit.
func (f *finder) visit(config, forbid intset.Set) {
	f.stats.Calls++

	inputs := immediateExternalPredecessors(f.g, config)
	permanentIn := intset.IntersectionOf(inputs, forbid).Size()
	if permanentIn > f.maxIn {
		return
	}

	candidates := intset.Difference(inputs, forbid)
	if candidates.Size() == 0 {
		f.tryEmit(config)
		return
	}
	id := candidates.Minimum()

	included := config.Clone()
	included.Add(id)
	f.visit(included, forbid)

	excluded := forbid.Clone()
	excluded.Add(id)
	excluded.AddSet(f.g.Pred(id))
	f.visit(config, excluded)
}

// tryEmit performs the final exact bound/convexity/forbidden/dedup check
// before handing config to the caller. The recursive pruning above keeps
// the search small but is conservative; this check is the correctness
// backstop guaranteeing every emitted subgraph is a genuine VS member.
func (f *finder) tryEmit(nodes intset.Set) {
	if f.g.Forbidden().Intersects(nodes) {
		return
	}

	io := dfg.NewIOSubgraph(f.g)
	io.Set(nodes)
	if io.Inputs().Len() > f.maxIn || io.Outputs().Len() > f.maxOut {
		return
	}
	if !io.IsConvex() {
		return
	}
	if f.alreadyEmitted(nodes) {
		return
	}

	f.stats.Count++
	f.emit(*io)
}

func (f *finder) alreadyEmitted(nodes intset.Set) bool {
	for _, s := range f.emitted {
		if s.Equal(nodes) {
			return true
		}
	}
	f.emitted = append(f.emitted, nodes.Clone())
	return false
}
