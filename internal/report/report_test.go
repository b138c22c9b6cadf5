package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/internal/report"
)

func chainGraph() *dfg.Graph {
	g := dfg.New("chain", 5, 7)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.Index()
	return g
}

func nodeSet(n int, ids ...int) intset.Set {
	s := intset.New(n)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func TestDocumentReflectsSubgraphsAndMaxWeight(t *testing.T) {
	g := chainGraph()
	sub := report.NewSubgraph(g, nodeSet(5, 1, 2), false)
	doc := report.NewDocument(g, []report.Subgraph{sub}, 250*time.Millisecond)

	assert.Equal(t, "chain", doc.Name)
	assert.Equal(t, 5, doc.NumNodes)
	assert.Equal(t, 1, doc.NumSubgraphs)
	assert.Equal(t, sub.Weight, doc.MaxWeight)
	assert.Equal(t, 0.25, doc.TimeSeconds)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, doc))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "chain", decoded["name"])
}

func TestConfigInfoDocumentReportsConvexityAndValidity(t *testing.T) {
	g := chainGraph()
	doc := report.NewConfigInfoDocument(g, nodeSet(5, 1, 2))
	assert.True(t, doc.Convex)
	assert.True(t, doc.Valid)
	assert.Equal(t, []int{0}, doc.Inputs)
	assert.Equal(t, []int{2}, doc.Outputs)
}

func TestConfigInfoDocumentFlagsNonConvexSet(t *testing.T) {
	g := chainGraph()
	doc := report.NewConfigInfoDocument(g, nodeSet(5, 1, 3))
	assert.False(t, doc.Convex)
	assert.False(t, doc.Valid)
}
