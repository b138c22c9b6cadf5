// Package report assembles the JSON documents the vs, mvs, and
// config_info CLI tools write to standard output, using encoding/json's
// four-space MarshalIndent to match the original project's json.dump(4)
// formatting. This is the one ambient concern carried on the standard
// library rather than a third-party dependency: no example repo in the
// corpus reaches for a JSON library beyond encoding/json, so there is no
// ecosystem idiom here to imitate.
package report

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
)

// Subgraph is one emitted subgraph entry in a vs/mvs report.
type Subgraph struct {
	Nodes        []int   `json:"nodes"`
	Weight       float64 `json:"weight"`
	NumInputs    int     `json:"num_inputs"`
	NumOutputs   int     `json:"num_outputs"`
	Disconnected bool    `json:"disconnected,omitempty"`
}

// NewSubgraph builds a Subgraph entry from a finished node set.
func NewSubgraph(g *dfg.Graph, nodes intset.Set, disconnected bool) Subgraph {
	io := dfg.NewIOSubgraph(g)
	io.Set(nodes)
	return Subgraph{
		Nodes:        nodes.Elements(),
		Weight:       io.Weight(),
		NumInputs:    io.Inputs().Len(),
		NumOutputs:   io.Outputs().Len(),
		Disconnected: disconnected,
	}
}

// Document is the vs/mvs stdout report: the subgraph family found plus
// the identifying and timing metadata every tool attaches to its result.
type Document struct {
	Name         string     `json:"name"`
	NumNodes     int        `json:"num_nodes"`
	MaxWeight    float64    `json:"max_weight"`
	NumSubgraphs int        `json:"num_subgraphs"`
	Subgraphs    []Subgraph `json:"subgraphs"`
	TimeSeconds  float64    `json:"time"`
}

// NewDocument builds a Document from the graph, its name/size, the
// already-sorted (weight descending) subgraph list, and the elapsed
// wall-clock time of the search.
func NewDocument(g *dfg.Graph, subgraphs []Subgraph, elapsed time.Duration) *Document {
	max := 0.0
	if len(subgraphs) > 0 {
		max = subgraphs[0].Weight
	}
	return &Document{
		Name:         g.Name(),
		NumNodes:     g.NumNodes(),
		MaxWeight:    max,
		NumSubgraphs: len(subgraphs),
		Subgraphs:    subgraphs,
		TimeSeconds:  elapsed.Seconds(),
	}
}

// ConfigInfoDocument is config_info's stdout report on a user-supplied
// node set.
type ConfigInfoDocument struct {
	Nodes   []int `json:"nodes"`
	Inputs  []int `json:"inputs"`
	Outputs []int `json:"outputs"`
	Convex  bool  `json:"convex"`
	Valid   bool  `json:"valid"`
}

// NewConfigInfoDocument reports on nodes: its inputs (outside nodes with
// an edge into it) and outputs (member nodes with an edge leaving it),
// both sorted ascending, whether it is convex, and whether it is convex
// and contains no forbidden node (the two conditions "valid" asserts,
// matching the DFG.valid predicate of the config_info tool).
func NewConfigInfoDocument(g *dfg.Graph, nodes intset.Set) *ConfigInfoDocument {
	sg := dfg.NewSubgraph(g, nodes)
	io := dfg.NewIOSubgraph(g)
	io.Set(nodes)
	inputs := append([]int{}, io.Inputs().Items()...)
	outputs := append([]int{}, io.Outputs().Items()...)
	sort.Ints(inputs)
	sort.Ints(outputs)
	return &ConfigInfoDocument{
		Nodes:   nodes.Elements(),
		Inputs:  inputs,
		Outputs: outputs,
		Convex:  sg.IsConvex(),
		Valid:   sg.IsConvex() && !g.Forbidden().Intersects(nodes),
	}
}

// MISDocument is the mis tool's stdout report: a straight count, since
// the tool enumerates rather than optimizes.
type MISDocument struct {
	NumNodes int     `json:"num_nodes"`
	NumEdges int     `json:"num_edges"`
	Count    int64   `json:"count"`
	Calls    int64   `json:"calls"`
	Inverted bool    `json:"inverted"`
	Time     float64 `json:"time"`
}

// marshalable is satisfied by every document type above.
type marshalable interface {
	*Document | *ConfigInfoDocument | *MISDocument
}

// Write marshals doc with four-space indentation and writes it to w
// followed by a trailing newline.
func Write[T marshalable](w io.Writer, doc T) error {
	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
