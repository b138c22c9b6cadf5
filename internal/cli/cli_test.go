package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/internal/cli"
)

func TestParseNodeIDsConvertsToZeroBased(t *testing.T) {
	ids, err := cli.ParseNodeIDs("1 3 5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, ids)
}

func TestParseNodeIDsRejectsGarbage(t *testing.T) {
	_, err := cli.ParseNodeIDs("1 x 3")
	assert.Error(t, err)
}

func TestParseNodeIDsRejectsEmpty(t *testing.T) {
	_, err := cli.ParseNodeIDs("   ")
	assert.Error(t, err)
}

func TestReadDFGRejectsAllForbidden(t *testing.T) {
	input := "p dfg 2 0 0 0\nn 1 1 1\nn 2 1 1\n"
	_, err := cli.ReadDFG(strings.NewReader(input), false)
	assert.ErrorIs(t, err, cli.ErrAllForbidden)
}

func TestReadDFGAcceptsUsableGraph(t *testing.T) {
	input := "p dfg 3 0 0 0\ne 1 2\ne 2 3\n"
	g, err := cli.ReadDFG(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
}
