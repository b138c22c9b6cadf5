// Package mis implements an undirected simple graph and the enumeration of
// all of its maximal independent sets (MIS), by two interchangeable
// algorithms: plain include/exclude branching in node-ID order with a
// maximality check at each leaf, and Bron-Kerbosch with pivoting run over
// the complement adjacency. The two must agree on the number and
// membership of the sets they find; tests cross-check them against each
// other and check that Invert is an involution.
package mis

import (
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vset"
)

// Graph is an undirected simple graph on a fixed node set [0, n).
type Graph struct {
	n   int
	adj []vset.Set[int]
}

// New returns an edgeless Graph on n nodes.
func New(n int) *Graph {
	return &Graph{n: n, adj: make([]vset.Set[int], n)}
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return g.n }

// AddEdge adds the undirected edge {u, v}.
func (g *Graph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u].Add(v)
	g.adj[v].Add(u)
}

// RemoveEdge removes the undirected edge {u, v}, if present.
func (g *Graph) RemoveEdge(u, v int) {
	g.adj[u].Remove(v)
	g.adj[v].Remove(u)
}

// HasEdge reports whether {u, v} is an edge.
func (g *Graph) HasEdge(u, v int) bool {
	if u == v {
		return false
	}
	return g.adj[u].Contains(v)
}

// Degree returns the degree of node u.
func (g *Graph) Degree(u int) int { return g.adj[u].Len() }

// Neighbors returns the neighbor set of u.
func (g *Graph) Neighbors(u int) *vset.Set[int] { return &g.adj[u] }

// Invert returns the complement graph: same node set, edge {u,v} present
// iff it was absent in g (u != v).
func (g *Graph) Invert() *Graph {
	out := New(g.n)
	for u := 0; u < g.n; u++ {
		for v := u + 1; v < g.n; v++ {
			if !g.HasEdge(u, v) {
				out.AddEdge(u, v)
			}
		}
	}
	return out
}

// neighborSet materializes the neighbor set of u as an intset.Set sized n.
func (g *Graph) neighborSet(u int) intset.Set {
	s := intset.New(g.n)
	for _, v := range g.adj[u].Items() {
		s.Add(v)
	}
	return s
}

// nonNeighborSet returns every node other than u that is NOT adjacent to
// u: the adjacency relation of the complement graph, computed on demand
// rather than by materializing Invert (which would cost O(n^2) up front
// for a single query).
func (g *Graph) nonNeighborSet(u int) intset.Set {
	s := intset.New(g.n)
	for v := 0; v < g.n; v++ {
		if v != u && !g.HasEdge(u, v) {
			s.Add(v)
		}
	}
	return s
}
