// Package vcluster computes the V-cluster partition of a DFG's
// non-forbidden nodes and the P-compatibility graph over those clusters,
// the input MVSFinder feeds into MIS to obtain MVS candidates.
package vcluster

import (
	"sort"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/mis"
)

// Cluster is one V-cluster: an equivalence class of DFG nodes that share
// an identical permissible-predecessor set P.
type Cluster struct {
	Nodes []int
	P     intset.Set
}

// PermissiblePredecessors computes P(u): every non-forbidden node v such
// that no forbidden node lies between u and v in either direction. The
// "betweenness" of u and v is exactly the node set closure({u,v}) would
// absorb to stay convex — succ(u) ∩ pred(v) downstream of u and upstream
// of v, and symmetrically pred(u) ∩ succ(v) — so v disqualifies itself
// from P(u) the same way it would disqualify {u,v} from ever sharing a
// convex, forbidden-free subgraph.
func PermissiblePredecessors(g *dfg.Graph, forbidden intset.Set, u int) intset.Set {
	n := g.NumNodes()
	out := intset.New(n)
	predU := g.Pred(u)
	succU := g.Succ(u)
	for v := 0; v < n; v++ {
		if forbidden.Contains(v) {
			continue
		}
		if forbidden.IntersectsAnd(succU, g.Pred(v)) {
			continue
		}
		if forbidden.IntersectsAnd(predU, g.Succ(v)) {
			continue
		}
		out.Add(v)
	}
	return out
}

// Partition computes the V-cluster partition of g's non-forbidden nodes,
// ordered by each cluster's smallest member node ID.
func Partition(g *dfg.Graph) []*Cluster {
	forbidden := g.Forbidden()
	n := g.NumNodes()

	var candidates []int
	for u := 0; u < n; u++ {
		if !forbidden.Contains(u) {
			candidates = append(candidates, u)
		}
	}

	ps := make(map[int]intset.Set, len(candidates))
	for _, u := range candidates {
		ps[u] = PermissiblePredecessors(g, forbidden, u)
	}

	assigned := make(map[int]bool, len(candidates))
	var clusters []*Cluster
	for _, u := range candidates {
		if assigned[u] {
			continue
		}
		c := &Cluster{Nodes: []int{u}, P: ps[u]}
		assigned[u] = true
		for _, v := range candidates {
			if v <= u || assigned[v] {
				continue
			}
			if ps[v].Equal(ps[u]) {
				c.Nodes = append(c.Nodes, v)
				assigned[v] = true
			}
		}
		clusters = append(clusters, c)
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Nodes[0] < clusters[j].Nodes[0] })
	return clusters
}

// Graph is the undirected cluster graph on V-clusters: edge (i,j) iff
// some node of cluster j appears in cluster i's P set (checked
// symmetrically, since the relation need not be syntactically symmetric
// even though membership in the same V-cluster is).
type Graph struct {
	Clusters []*Cluster
	Graph    *mis.Graph
}

// Build constructs the cluster graph from a V-cluster partition.
func Build(clusters []*Cluster) *Graph {
	n := len(clusters)
	g := mis.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if compatible(clusters[i], clusters[j]) || compatible(clusters[j], clusters[i]) {
				g.AddEdge(i, j)
			}
		}
	}
	return &Graph{Clusters: clusters, Graph: g}
}

func compatible(a, b *Cluster) bool {
	for _, v := range b.Nodes {
		if a.P.Contains(v) {
			return true
		}
	}
	return false
}

// CompatibilityMIS returns the graph MIS must run over to enumerate
// maximal pairwise-P-compatible cluster subsets: the complement of the
// raw cluster graph, so that independent sets there correspond to
// cliques (mutually compatible cluster groups) in the original.
func (cg *Graph) CompatibilityMIS() *mis.Graph {
	return cg.Graph.Invert()
}

// ExpandNodes returns the union of DFG node IDs belonging to every
// cluster index named in s.
func (cg *Graph) ExpandNodes(s intset.Set, n int) intset.Set {
	out := intset.New(n)
	for _, idx := range s.Elements() {
		for _, u := range cg.Clusters[idx].Nodes {
			out.Add(u)
		}
	}
	return out
}
