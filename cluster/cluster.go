// Package cluster computes and applies structural contractions over a
// data-flow graph: serial clusters (S-clusters), maximal linear
// (1-in/1-out) chains of more than one node, and serial nodes (S-nodes),
// the degenerate single-node case relative to a candidate subgraph.
// Linking a cluster temporarily removes the edges within it and those
// joining it to its source and destination, adds a source->destination
// edge, and folds its weight into the destination; unlinking restores
// the graph exactly. Every search scope that links clusters must unlink
// them before returning, including on early exit.
package cluster

import (
	"sort"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vs"
)

// SCluster is a linear induced subgraph with |Nodes| > 1, a single
// external predecessor Src feeding one member, and a single external
// successor Dst consuming from one member.
type SCluster struct {
	Nodes   intset.Set
	Edges   [][2]int
	Src     int
	Dst     int
	Weight  float64         // sum of member weights, as observed at construction time
	weights map[int]float64 // per-node weights, needed to restore exactly on Unlink
}

// SNode is the degenerate single-node analogue of an SCluster, computed
// relative to a specific candidate node set rather than the whole DFG.
type SNode struct {
	Node   int
	Src    int
	Dst    int
	Weight float64
}

// EnumerateSClusters runs VS enumeration with maxIn = maxOut = 1, keeps
// only subgraphs with more than one node, discards any that is a subset
// of another surviving subgraph, and builds an SCluster record for each
// maximal survivor.
//
// The correctness of Src/Dst below depends on the VS search having found
// each member with the maxIn=maxOut=1 bound already satisfied: the
// enumeration guarantees a single external predecessor and a single
// member with an edge leaving the subgraph. Src is that predecessor and
// Dst the external node that member feeds; if the member feeds more than
// one external node, Dst is the last one seen. This is not checked at
// run time; the companion test checks Src/Dst on a chain.
func EnumerateSClusters(g *dfg.Graph) []*SCluster {
	var raw []intset.Set
	vs.Enumerate(g, 1, 1, func(io dfg.IOSubgraph) {
		if io.Nodes.Size() > 1 {
			raw = append(raw, io.Nodes.Clone())
		}
	})

	maximal := keepMaximalBySubset(raw)

	clusters := make([]*SCluster, 0, len(maximal))
	for _, nodes := range maximal {
		clusters = append(clusters, buildSCluster(g, nodes))
	}
	return clusters
}

func keepMaximalBySubset(sets []intset.Set) []intset.Set {
	var out []intset.Set
	for i, s := range sets {
		subsumed := false
		for j, t := range sets {
			if i == j {
				continue
			}
			if s.Equal(t) {
				if j < i {
					subsumed = true
				}
				continue
			}
			if s.IsSubsetOf(t) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, s)
		}
	}
	return out
}

func buildSCluster(g *dfg.Graph, nodes intset.Set) *SCluster {
	c := &SCluster{Nodes: nodes, Src: intset.NoElement, Dst: intset.NoElement, weights: map[int]float64{}}
	for _, u := range nodes.Elements() {
		c.Weight += g.Weight(u)
		c.weights[u] = g.Weight(u)
		for _, p := range g.InEdges(u).Items() {
			if !nodes.Contains(p) {
				c.Src = p
				c.Edges = append(c.Edges, [2]int{p, u})
			}
		}
		for _, v := range g.OutEdges(u).Items() {
			if !nodes.Contains(v) {
				c.Dst = v
			}
			c.Edges = append(c.Edges, [2]int{u, v})
		}
	}
	return c
}

// EnumerateSNodes finds every serial node within subgraph: a node with
// exactly one in-edge and one out-edge in the whole DFG, whose sole
// predecessor lies outside subgraph and whose sole successor lies
// inside it, and that is not already the Dst of an existing SCluster
// (an existing cluster already accounts for that absorption).
func EnumerateSNodes(g *dfg.Graph, subgraph intset.Set, existing []*SCluster) []*SNode {
	dsts := intset.New(g.NumNodes())
	for _, c := range existing {
		dsts.Add(c.Dst)
	}

	var out []*SNode
	for _, i := range subgraph.Elements() {
		if dsts.Contains(i) {
			continue
		}
		if g.InEdges(i).Len() != 1 || g.OutEdges(i).Len() != 1 {
			continue
		}
		pred := g.InEdges(i).At(0)
		succ := g.OutEdges(i).At(0)
		if subgraph.Contains(pred) || !subgraph.Contains(succ) {
			continue
		}
		out = append(out, &SNode{Node: i, Src: pred, Dst: succ, Weight: g.Weight(i)})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Node < out[b].Node })
	return out
}

// Link contracts c into the DFG: every edge in c.Edges (those within the
// cluster and those joining it to the outside) is removed, a
// synthetic Src->Dst edge is added (unless one already exists), every
// internal node is marked in clustered, and the internal weight is
// folded into Dst. g is re-indexed before returning since the edge set
// changed. Unlink must be called, in reverse cluster order, before the
// search scope that called Link returns.
func Link(g *dfg.Graph, c *SCluster, clustered intset.Set) {
	for _, e := range c.Edges {
		g.RemoveEdge(e[0], e[1])
	}
	g.AddEdge(c.Src, c.Dst)
	for _, u := range c.Nodes.Elements() {
		clustered.Add(u)
		g.AddWeight(c.Dst, g.Weight(u))
		g.SetWeight(u, 0)
	}
	g.Index()
}

// Unlink is the exact inverse of Link.
func Unlink(g *dfg.Graph, c *SCluster, clustered intset.Set) {
	g.RemoveEdge(c.Src, c.Dst)
	for _, e := range c.Edges {
		g.AddEdge(e[0], e[1])
	}
	sum := 0.0
	for _, u := range c.Nodes.Elements() {
		clustered.Remove(u)
		w := c.weights[u]
		g.SetWeight(u, w)
		sum += w
	}
	g.AddWeight(c.Dst, -sum)
	g.Index()
}

// LinkScope links every cluster in order and returns an unlink function
// that undoes them in reverse order. Callers should always invoke the
// returned function before leaving the search scope, e.g. via defer.
func LinkScope(g *dfg.Graph, clusters []*SCluster, clustered intset.Set) func() {
	for _, c := range clusters {
		Link(g, c, clustered)
	}
	return func() {
		for i := len(clusters) - 1; i >= 0; i-- {
			Unlink(g, clusters[i], clustered)
		}
	}
}

// LinkNodeScope is LinkScope's analogue for S-nodes.
func LinkNodeScope(g *dfg.Graph, nodes []*SNode, clustered intset.Set) func() {
	for _, n := range nodes {
		LinkNode(g, n, clustered)
	}
	return func() {
		for i := len(nodes) - 1; i >= 0; i-- {
			UnlinkNode(g, nodes[i], clustered)
		}
	}
}

// LinkNode contracts n into the DFG the same way Link does for an
// SCluster: removes src->n and n->dst, adds src->dst, marks n clustered,
// folds n's weight into dst.
func LinkNode(g *dfg.Graph, n *SNode, clustered intset.Set) {
	g.RemoveEdge(n.Src, n.Node)
	g.RemoveEdge(n.Node, n.Dst)
	g.AddEdge(n.Src, n.Dst)
	clustered.Add(n.Node)
	g.AddWeight(n.Dst, g.Weight(n.Node))
	g.SetWeight(n.Node, 0)
	g.Index()
}

// UnlinkNode is the exact inverse of LinkNode.
func UnlinkNode(g *dfg.Graph, n *SNode, clustered intset.Set) {
	g.RemoveEdge(n.Src, n.Dst)
	g.AddEdge(n.Src, n.Node)
	g.AddEdge(n.Node, n.Dst)
	clustered.Remove(n.Node)
	g.AddWeight(n.Dst, -n.Weight)
	g.SetWeight(n.Node, n.Weight)
	g.Index()
}
