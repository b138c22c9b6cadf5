// Package mvsfind is the top-level driver: given an indexed DFG, it
// builds the V-cluster partition and cluster-compatibility graph, runs
// MIS over it to collect maximum valid subgraph candidates (MVS-c), and
// refines each candidate via a weight-bounded branch-and-bound into the
// weight-optimal, I/O-bounded subgraphs (MVS) the rest of the toolchain
// reports.
package mvsfind

import (
	"sort"

	"github.com/exg/mvs/cluster"
	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/mis"
	"github.com/exg/mvs/vcluster"
)

// Candidate is an MVS-c: an IOSubgraph obtained from one maximal
// independent set of the cluster-compatibility graph, plus the two
// scalars the refinement search fills in.
type Candidate struct {
	dfg.IOSubgraph
	Disconnected bool
	IOWeight     float64
	bestNodes    intset.Set
}

// BestNodes returns the node set of the best I/O-bounded refinement
// found for this candidate, once Enumerate has run.
func (c *Candidate) BestNodes() intset.Set { return c.bestNodes }

// Finder owns the DFG, its precomputed S-clusters, and the sorted MVS-c
// candidate list built once at construction time.
type Finder struct {
	g          *dfg.Graph
	sclusters  []*cluster.SCluster
	candidates []*Candidate
}

// New builds a Finder over g. useBK selects Bron-Kerbosch instead of the
// exhaustive branch-and-bound algorithm for the candidate-generating MIS
// search; both produce the same candidate set, differing only in the
// order and cost of the search.
func New(g *dfg.Graph, useBK bool) *Finder {
	f := &Finder{g: g}
	f.sclusters = cluster.EnumerateSClusters(g)

	vclusters := vcluster.Partition(g)
	cg := vcluster.Build(vclusters)
	misGraph := cg.CompatibilityMIS()

	algo := mis.Exhaustive
	if useBK {
		algo = mis.BronKerbosch
	}

	running := dfg.NewIOSubgraph(g)

	mis.Enumerate(misGraph, algo, func(intset.Set) {
		nodes := running.Nodes.Clone()
		io := dfg.NewIOSubgraph(g)
		io.Set(nodes)
		f.candidates = append(f.candidates, &Candidate{IOSubgraph: *io})
	}, func(_ intset.Set, id int, added bool) {
		for _, u := range vclusters[id].Nodes {
			if added {
				if running.Nodes.Contains(u) {
					continue
				}
				running.Add(u)
			} else {
				running.Remove(u)
			}
		}
	})

	sort.SliceStable(f.candidates, func(i, j int) bool {
		return f.candidates[i].Weight() > f.candidates[j].Weight()
	})
	return f
}

// Candidates returns the MVS-c candidate list, sorted by weight
// descending.
func (f *Finder) Candidates() []*Candidate { return f.candidates }

// SClusters returns the once-computed serial clusters of the DFG.
func (f *Finder) SClusters() []*cluster.SCluster { return f.sclusters }
