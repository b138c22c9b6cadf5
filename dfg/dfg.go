// Package dfg implements the weighted, acyclic data-flow graph that the
// rest of this module searches: per-node adjacency, weight, a forbidden
// flag, and the precomputed predecessor/successor transitive closures that
// every downstream set operation (VS enumeration, MIS, MVS refinement)
// relies on.
//
// A Graph is immutable once indexed, except for the scoped S-cluster
// link/unlink mutation performed by the cluster package — every such
// mutation is paired and restores the original edge set and weights before
// returning control to the caller.
package dfg

import (
	"fmt"

	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/vset"
)

// node holds the per-vertex state of a Graph.
type node struct {
	name      string
	inEdges   vset.Set[int]
	outEdges  vset.Set[int]
	weight    float64
	forbidden bool
	pred      intset.Set
	succ      intset.Set
}

// Graph is a weighted directed acyclic graph on a fixed set of N nodes,
// numbered [0, N).
type Graph struct {
	name      string
	frequency int
	nodes     []node
}

// New returns a Graph with numNodes isolated, unweighted (weight 1.0),
// non-forbidden nodes.
func New(name string, numNodes, frequency int) *Graph {
	g := &Graph{name: name, frequency: frequency, nodes: make([]node, numNodes)}
	for i := range g.nodes {
		g.nodes[i] = node{weight: 1, pred: intset.New(numNodes), succ: intset.New(numNodes)}
	}
	return g
}

// NewFromEdges builds a Graph sized to fit every endpoint in edges, adds
// every edge, and indexes it. Intended for small fixtures in tests.
func NewFromEdges(edges [][2]int) *Graph {
	numNodes := 0
	for _, e := range edges {
		if e[0]+1 > numNodes {
			numNodes = e[0] + 1
		}
		if e[1]+1 > numNodes {
			numNodes = e[1] + 1
		}
	}
	g := New("", numNodes, 0)
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	g.Index()
	return g
}

// Name returns the graph's name, as recorded in the "p" header line.
func (g *Graph) Name() string { return g.name }

// Frequency returns the graph's recorded execution frequency.
func (g *Graph) Frequency() int { return g.frequency }

// NumNodes returns the number of nodes in g.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// AddEdge adds a directed edge u -> v.
func (g *Graph) AddEdge(u, v int) {
	g.nodes[u].outEdges.Add(v)
	g.nodes[v].inEdges.Add(u)
}

// RemoveEdge removes the directed edge u -> v, if present.
func (g *Graph) RemoveEdge(u, v int) {
	g.nodes[u].outEdges.Remove(v)
	g.nodes[v].inEdges.Remove(u)
}

// SetForbidden marks node u as forbidden.
func (g *Graph) SetForbidden(u int) { g.nodes[u].forbidden = true }

// NodeName returns the display name of node u, defaulting to "" until set.
func (g *Graph) NodeName(u int) string { return g.nodes[u].name }

// SetNodeName sets the display name of node u.
func (g *Graph) SetNodeName(u int, name string) { g.nodes[u].name = name }

// Weight returns the weight of node u.
func (g *Graph) Weight(u int) float64 { return g.nodes[u].weight }

// SetWeight sets the weight of node u.
func (g *Graph) SetWeight(u int, w float64) { g.nodes[u].weight = w }

// AddWeight adds delta to the weight of node u.
func (g *Graph) AddWeight(u int, delta float64) { g.nodes[u].weight += delta }

// InEdges returns the in-edges of node u (predecessors one hop away).
func (g *Graph) InEdges(u int) *vset.Set[int] { return &g.nodes[u].inEdges }

// OutEdges returns the out-edges of node u (successors one hop away).
func (g *Graph) OutEdges(u int) *vset.Set[int] { return &g.nodes[u].outEdges }

// IsForbidden reports whether node u carries the forbidden flag. It does
// not account for degree-zero forbidding; use Forbidden() for that.
func (g *Graph) IsForbidden(u int) bool { return g.nodes[u].forbidden }

// Pred returns the transitive predecessor set of u, as computed by the
// last call to Index.
func (g *Graph) Pred(u int) intset.Set { return g.nodes[u].pred }

// Succ returns the transitive successor set of u, as computed by the last
// call to Index.
func (g *Graph) Succ(u int) intset.Set { return g.nodes[u].succ }

// Forbidden returns the set of nodes that may never appear in an emitted
// subgraph: nodes explicitly flagged forbidden, plus any node with no
// in-edges or no out-edges (a DFG source/sink cannot be part of a
// convex, bounded-I/O custom instruction by construction).
func (g *Graph) Forbidden() intset.Set {
	s := intset.New(len(g.nodes))
	for i, n := range g.nodes {
		if n.forbidden || n.inEdges.Len() == 0 || n.outEdges.Len() == 0 {
			s.Add(i)
		}
	}
	return s
}

// Index recomputes the topological order and the pred/succ transitive
// closures of every node from the current edge set. It must be called
// after edges are added or removed before pred/succ-dependent queries
// (Subgraph.Pred/Succ/Closure, VS/MIS/MVS search) are used again.
//
// The topological order is computed by an iterative post-order DFS (see
// DFSVisit) so that deep DFGs never overflow the call stack, per the module's
// "no recursion reliance" requirement.
func (g *Graph) Index() {
	n := len(g.nodes)
	for i := range g.nodes {
		g.nodes[i].pred.Clear()
		g.nodes[i].succ.Clear()
	}

	// topo holds nodes in reverse post-order (a valid topological order):
	// topo[0] has no predecessors among what follows it.
	topo := make([]int, 0, n)
	DFSVisit(g, func(u int) { topo = append(topo, u) })
	for i, j := 0, len(topo)-1; i < j; i, j = i+1, j-1 {
		topo[i], topo[j] = topo[j], topo[i]
	}

	// Forward sweep in topological order: pred(v) gains pred(u) ∪ {u} for
	// every edge u->v.
	for _, u := range topo {
		for _, v := range g.nodes[u].outEdges.Items() {
			g.nodes[v].pred.AddSet(g.nodes[u].pred)
			g.nodes[v].pred.Add(u)
		}
	}

	// Backward sweep: succ(u) gains succ(v) ∪ {v} for every edge u->v.
	for i := len(topo) - 1; i >= 0; i-- {
		u := topo[i]
		for _, v := range g.nodes[u].outEdges.Items() {
			g.nodes[u].succ.AddSet(g.nodes[v].succ)
			g.nodes[u].succ.Add(v)
		}
	}
}

// DFSVisit performs an iterative post-order depth-first traversal of g
// following out-edges, starting a new DFS from every node not yet visited
// in ascending ID order, and calls visit(u) once per node in post-order
// (children before parents). This is the DFG analogue of the original
// project's DFSVisitor: Index uses the reversal of this order as a
// topological order.
func DFSVisit(g *Graph, visit func(u int)) {
	n := len(g.nodes)
	visited := make([]bool, n)

	type frame struct {
		node int
		next int // index into outEdges items to resume from
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		stack := []frame{{node: start, next: 0}}
		visited[start] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			items := g.nodes[top.node].outEdges.Items()
			advanced := false
			for top.next < len(items) {
				v := items[top.next]
				top.next++
				if !visited[v] {
					visited[v] = true
					stack = append(stack, frame{node: v, next: 0})
					advanced = true
					break
				}
			}
			if advanced {
				continue
			}
			visit(top.node)
			stack = stack[:len(stack)-1]
		}
	}
}

// String returns a short human-readable summary, useful in error messages.
func (g *Graph) String() string {
	return fmt.Sprintf("dfg.Graph{name=%q, nodes=%d}", g.name, len(g.nodes))
}
