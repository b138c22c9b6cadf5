// Package cli holds the stdin-parsing, node-ID-parsing, and exit-code
// conventions shared by every cmd/* main, so each tool differs only in
// which core package it drives.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/mis"
)

// Exit codes per the external-interface error-handling design: usage,
// parse, and "every node forbidden" all exit 1; only a complete,
// non-trivial run exits 0.
const (
	ExitOK    = 0
	ExitError = 1
)

// ErrAllForbidden is returned by ReadDFG, and so by the vs, mvs and
// config_info tools, when a successfully parsed DFG has no usable node at
// all: this is a trivial, not a usage or parse, failure, but it carries
// the same exit code.
var ErrAllForbidden = errors.New("cli: every node is forbidden")

// ReadDFG parses a DFG from r in the vs/mvs/config_info wire format.
// setWeights controls whether "n" line weights are kept or discarded in
// favor of the 1.0 default, matching the -w flag.
func ReadDFG(r io.Reader, setWeights bool) (*dfg.Graph, error) {
	g, err := dfg.Parse(r, setWeights)
	if err != nil {
		return nil, err
	}
	if g.Forbidden().Size() == g.NumNodes() {
		return nil, ErrAllForbidden
	}
	return g, nil
}

// ReadMISGraph parses an undirected Graph from r in the mis tool's wire
// format.
func ReadMISGraph(r io.Reader) (*mis.Graph, error) {
	return mis.Parse(r)
}

// ParseNodeIDs parses config_info's "<space-separated 1-based node ids>"
// argument into 0-based IDs.
func ParseNodeIDs(arg string) ([]int, error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return nil, fmt.Errorf("cli: no node ids given")
	}
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("cli: invalid node id %q: %w", f, err)
		}
		ids = append(ids, id-1)
	}
	return ids, nil
}
