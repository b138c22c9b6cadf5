package mvsfind

import (
	"math"
	"sort"

	"github.com/exg/mvs/cluster"
	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/ioanalysis"
)

// IterType selects how find_mvsio_ walks the weight-budget ("dels")
// space while searching for the single best refinement. All three must
// agree on the final weight for deterministic input; they differ only in
// how many branch-and-bound calls they spend getting there.
type IterType int

const (
	Linear IterType = iota
	LinearRev
	BinarySearch
)

// Flags is a bitmask of optimizations; bit i (1-indexed) matches the
// spec's flag table. AllFlags enables every optimization, the CLI
// default; -o clears the ones the user names.
type Flags uint8

const (
	FlagPruneNumPermIn Flags = 1 << iota
	FlagPruneNumPermOut
	FlagPruneRemovableWeight
	FlagClustering
	FlagWeightSkip
)

const AllFlags = FlagPruneNumPermIn | FlagPruneNumPermOut | FlagPruneRemovableWeight | FlagClustering | FlagWeightSkip

// Result is one weight-optimal, I/O-bounded subgraph.
type Result struct {
	Nodes  intset.Set
	Weight float64
}

// Enumerate refines every MVS-c candidate into its best I/O-bounded
// weight-optimal subgraph(s), following §4.7's two-pass scheme: a first
// pass establishes the global maximum achievable weight across all
// candidates, a second pass collects every subgraph that attains it (or
// comes within 1%).
func (f *Finder) Enumerate(nIn, nOut int, itype IterType, flags Flags) []Result {
	currentMax := 0.0
	for _, c := range f.candidates {
		if flags&FlagWeightSkip != 0 && c.Weight() < currentMax {
			continue
		}
		if c.Inputs().Len() <= nIn && c.Outputs().Len() <= nOut {
			c.IOWeight = c.Weight()
			c.bestNodes = c.Nodes.Clone()
		} else {
			f.refine(c, true, currentMax, nIn, nOut, itype, flags)
		}
		if c.IOWeight > currentMax {
			currentMax = c.IOWeight
		}
	}

	var all []Result
	seen := map[string]bool{}
	push := func(r Result) {
		key := setKey(r.Nodes)
		if !seen[key] {
			seen[key] = true
			all = append(all, r)
		}
	}

	for _, c := range f.candidates {
		if c.IOWeight != currentMax {
			continue
		}
		if c.Inputs().Len() <= nIn && c.Outputs().Len() <= nOut {
			push(Result{Nodes: c.Nodes.Clone(), Weight: c.Weight()})
			continue
		}
		for _, r := range f.refineEnum(c, currentMax, nIn, nOut, itype, flags) {
			push(r)
		}
	}

	var out []Result
	for _, r := range all {
		if currentMax == 0 || r.Weight >= currentMax*0.99 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

func setKey(s intset.Set) string {
	b := make([]byte, 0, 4*s.Size())
	for _, u := range s.Elements() {
		b = append(b, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
	}
	return string(b)
}

// search holds the mutable state one find_mvsio_ call threads through
// its recursive visit calls.
type search struct {
	g         *dfg.Graph
	sclusters []*cluster.SCluster
	snodes    []*cluster.SNode
	flags     Flags

	config    intset.Set
	nodesLeft intset.Set

	found     bool
	bestWeight float64
	bestNodes intset.Set

	results []Result
}

// refine runs find_mvsio(single=true): link clusters, search for the
// single best I/O-bounded refinement of c, and record it on c.
func (f *Finder) refine(c *Candidate, single bool, maxIOWeight float64, nIn, nOut int, itype IterType, flags Flags) {
	f.findMVSIO(c, single, maxIOWeight, nIn, nOut, itype, flags)
}

// refineEnum runs find_mvsio(single=false) and returns every optimal
// refinement found.
func (f *Finder) refineEnum(c *Candidate, maxIOWeight float64, nIn, nOut int, itype IterType, flags Flags) []Result {
	return f.findMVSIO(c, false, maxIOWeight, nIn, nOut, itype, flags)
}

func (f *Finder) findMVSIO(c *Candidate, single bool, maxIOWeight float64, nIn, nOut int, itype IterType, flags Flags) []Result {
	g := f.g
	clustered := intset.New(g.NumNodes())

	var snodes []*cluster.SNode
	if flags&FlagClustering != 0 {
		unlinkClusters := cluster.LinkScope(g, f.sclusters, clustered)
		defer unlinkClusters()

		if single || isConnected(g, c.Nodes) {
			snodes = cluster.EnumerateSNodes(g, c.Nodes, f.sclusters)
			sort.Slice(snodes, func(i, j int) bool { return snodes[i].Weight > snodes[j].Weight })
			unlinkNodes := cluster.LinkNodeScope(g, snodes, clustered)
			defer unlinkNodes()
		}
	}

	st := &search{g: g, sclusters: f.sclusters, snodes: snodes, flags: flags}

	nodesLeft := intset.Difference(c.Nodes, clustered)
	config := nodesLeft.Clone()
	maxDels := math.Ceil(c.Weight()) - maxIOWeight

	weight, nodes, results := f.findMVSIO_(st, config, nodesLeft, single, maxIOWeight, nIn, nOut, itype, maxDels)

	if single {
		if nodes.Cap() != 0 && weight > c.IOWeight {
			c.IOWeight = weight
			c.bestNodes = nodes
		}

		// Disconnected-refinement probe: with clustering enabled and room
		// to drop another output, try sacrificing the heaviest S-node to
		// see whether relaxing one more output slot buys a better weight.
		// This is a bounded, single-probe approximation of the full
		// iterative disconnected search described for find_mvsio.
		if nOut > 1 && flags&FlagClustering != 0 && len(snodes) > 0 {
			sn := snodes[0]
			altNOut := nOut - 1
			altNIn := nIn
			if nodeIntroducesNewInput(g, sn, config) && altNIn > 0 {
				altNIn--
			}
			altBudget := maxIOWeight - sn.Weight
			altMaxDels := math.Ceil(c.Weight()) - altBudget
			altWeight, altNodes, _ := f.findMVSIO_(st, config.Clone(), nodesLeft.Clone(), true, altBudget, altNIn, altNOut, itype, altMaxDels)
			if altNodes.Cap() != 0 && altWeight > c.IOWeight {
				c.Disconnected = true
				c.IOWeight = altWeight
				c.bestNodes = altNodes
			}
		}
		return nil
	}
	return results
}

// findMVSIO_ runs the branch-and-bound search, iterating the weight
// budget "dels" according to itype in single mode, or making the one
// enumeration-mode call that collects every tied-optimal result.
func (f *Finder) findMVSIO_(st *search, config, nodesLeft intset.Set, single bool, maxWeight float64, nIn, nOut int, itype IterType, maxDels float64) (float64, intset.Set, []Result) {
	if !single {
		st.config, st.nodesLeft = config, nodesLeft
		st.results = nil
		st.visit(maxDels, false, maxWeight, nIn, nOut)
		return 0, intset.Set{}, st.results
	}

	maxDelsInt := int(math.Ceil(maxDels))
	if maxDelsInt < 1 {
		maxDelsInt = 1
	}

	try := func(dels int) (bool, float64, intset.Set) {
		st.config, st.nodesLeft = config.Clone(), nodesLeft.Clone()
		st.found = false
		st.bestWeight = -1
		st.bestNodes = intset.Set{}
		st.visit(float64(dels), true, maxWeight, nIn, nOut)
		return st.found, st.bestWeight, st.bestNodes
	}

	switch itype {
	case LinearRev:
		var lastOK bool
		var lastWeight float64
		var lastNodes intset.Set
		for d := maxDelsInt; d >= 1; d-- {
			ok, w, nodes := try(d)
			if !ok {
				break
			}
			lastOK, lastWeight, lastNodes = ok, w, nodes
		}
		if lastOK {
			return lastWeight, lastNodes, nil
		}
		return 0, intset.Set{}, nil
	case BinarySearch:
		lo, hi := 1, maxDelsInt
		var bestOK bool
		var bestWeight float64
		var bestNodes intset.Set
		for lo <= hi {
			mid := (lo + hi) / 2
			ok, w, nodes := try(mid)
			if ok {
				bestOK, bestWeight, bestNodes = true, w, nodes
				hi = mid - 1
			} else {
				lo = mid + 1
			}
		}
		if bestOK {
			return bestWeight, bestNodes, nil
		}
		return 0, intset.Set{}, nil
	default: // Linear
		for d := 1; d <= maxDelsInt; d++ {
			if ok, w, nodes := try(d); ok {
				return w, nodes, nil
			}
		}
		return 0, intset.Set{}, nil
	}
}

// visit is the recursive branch-and-bound core: decide whether the
// current config already satisfies the I/O bounds, and if not, compute
// IOAnalysis-based pruning bounds and branch on a chosen frontier node.
func (st *search) visit(dels float64, single bool, maxWeight float64, nIn, nOut int) {
	if dels < 0 {
		return
	}
	if single && st.found {
		return
	}

	io := dfg.NewIOSubgraph(st.g)
	io.Set(st.config)

	if io.Inputs().Len() <= nIn && io.Outputs().Len() <= nOut {
		iweight := math.Floor(io.Weight())
		expanded := st.expand(st.config)
		if single {
			if !st.found || iweight > st.bestWeight {
				st.bestWeight = iweight
				st.bestNodes = expanded
			}
			st.found = true
		} else if iweight == maxWeight {
			st.results = append(st.results, Result{Nodes: expanded, Weight: iweight})
		}
		return
	}

	a := ioanalysis.Analyze(st.g, st.config, st.nodesLeft)
	deltaIn := io.Inputs().Len() - nIn
	deltaOut := io.Outputs().Len() - nOut

	if a.NumPermIn > nIn && st.flags&FlagPruneNumPermIn != 0 {
		return
	}
	if a.NumPermOut > nOut && st.flags&FlagPruneNumPermOut != 0 {
		return
	}

	requiredIn := 0.0
	if a.NumPermIn <= nIn {
		requiredIn = math.Ceil(ioanalysis.SumSmallest(&a.Inputs, deltaIn))
	}
	requiredOut := 0.0
	if a.NumPermOut <= nOut {
		requiredOut = float64(deltaOut)
	}
	k := int(requiredIn) + int(requiredOut) - minInt(a.NumSharedNonPermOut, int(requiredIn), int(requiredOut))
	rnodesWeight := ioanalysis.SumSmallest(&a.RNodes, k)
	if st.flags&FlagPruneRemovableWeight != 0 && rnodesWeight > dels {
		return
	}

	id, ok := st.chooseRecursionNode(a, nIn, nOut)
	if !ok {
		return
	}

	st.nodesLeft.Remove(id)
	st.config.Remove(id)
	st.visit(dels-st.g.Weight(id), single, maxWeight, nIn, nOut)
	st.config.Add(id)
	if !(single && st.found) {
		st.visit(dels, single, maxWeight, nIn, nOut)
	}
	st.nodesLeft.Add(id)
}

// chooseRecursionNode picks the frontier node (DFG-source or DFG-sink
// relative to the current config) whose removal from nodesLeft would
// maximally increase the permanent input/output counts, the tighter
// axis (input or output) taking priority when its remaining slack is
// smaller.
func (st *search) chooseRecursionNode(a ioanalysis.Analysis, nIn, nOut int) (int, bool) {
	g := st.g
	var candidates []int
	for _, u := range st.nodesLeft.Elements() {
		if !g.Pred(u).Intersects(st.config) || !g.Succ(u).Intersects(st.config) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	swap := (nOut - a.NumPermOut) < (nIn - a.NumPermIn)
	best, bestSet := -1, false
	var bestD1, bestD2 int
	for _, u := range candidates {
		nl2 := st.nodesLeft.Clone()
		nl2.Remove(u)
		a2 := ioanalysis.Analyze(g, st.config, nl2)
		dIn := a2.NumPermIn - a.NumPermIn
		dOut := a2.NumPermOut - a.NumPermOut
		d1, d2 := dIn, dOut
		if swap {
			d1, d2 = dOut, dIn
		}
		if !bestSet || d1 > bestD1 || (d1 == bestD1 && d2 > bestD2) {
			best, bestSet, bestD1, bestD2 = u, true, d1, d2
		}
	}
	return best, bestSet
}

// expand adds back, for every S-cluster/S-node whose absorbing dst node
// is still present in config, the internal member nodes that were
// temporarily contracted away for the search.
func (st *search) expand(config intset.Set) intset.Set {
	out := config.Clone()
	for _, c := range st.sclusters {
		if config.Contains(c.Dst) {
			for _, u := range c.Nodes.Elements() {
				out.Add(u)
			}
		}
	}
	for _, sn := range st.snodes {
		if config.Contains(sn.Dst) {
			out.Add(sn.Node)
		}
	}
	return out
}

// isConnected reports whether nodes forms a single weakly-connected
// component in g (treating edges as undirected for this check).
func isConnected(g *dfg.Graph, nodes intset.Set) bool {
	elems := nodes.Elements()
	if len(elems) <= 1 {
		return true
	}
	visited := map[int]bool{elems[0]: true}
	stack := []int{elems[0]}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range g.OutEdges(u).Items() {
			if nodes.Contains(v) && !visited[v] {
				visited[v] = true
				stack = append(stack, v)
			}
		}
		for _, v := range g.InEdges(u).Items() {
			if nodes.Contains(v) && !visited[v] {
				visited[v] = true
				stack = append(stack, v)
			}
		}
	}
	return len(visited) == len(elems)
}

// nodeIntroducesNewInput reports whether dropping S-node sn's contracted
// edge would expose a predecessor not already counted among config's
// inputs, i.e. whether un-contracting it costs an extra input slot.
func nodeIntroducesNewInput(g *dfg.Graph, sn *cluster.SNode, config intset.Set) bool {
	return !config.Contains(sn.Src)
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
