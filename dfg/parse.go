package dfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidLine is returned by Parse for any line that does not match one
// of the recognized kinds, or that is missing fields.
var ErrInvalidLine = errors.New("dfg: invalid line")

// ErrMissingHeader is returned when the input does not begin with a "p"
// header line.
var ErrMissingHeader = errors.New("dfg: missing header line")

// Parse reads a DFG in the line-oriented format:
//
//	p <type> <num_nodes> <in> <out> <frequency>   (header, required first)
//	n <id> <weight> <forbidden>                   (node record, 1-based id)
//	e <u> <v>                                     (directed edge, 1-based)
//
// Node and edge IDs are 1-based in the input and stored 0-based. If
// setWeights is false, "n" weight fields are parsed for validation but
// discarded and every node keeps the default weight of 1.0.
func Parse(r io.Reader, setWeights bool) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var g *Graph
	frequency := 0
	typeName := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if g != nil {
				return nil, fmt.Errorf("%w: duplicate header", ErrInvalidLine)
			}
			if len(fields) != 6 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			typeName = fields[1]
			numNodes, err := strconv.Atoi(fields[2])
			if err != nil || numNodes < 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			if _, err := strconv.Atoi(fields[3]); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			if _, err := strconv.Atoi(fields[4]); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			frequency, err = strconv.Atoi(fields[5])
			if err != nil || frequency < 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			g = New(typeName, numNodes, frequency)

		case "n":
			if g == nil {
				return nil, ErrMissingHeader
			}
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			weight, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			forbidden, err := strconv.Atoi(fields[3])
			if err != nil || (forbidden != 0 && forbidden != 1) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			u := id - 1
			if u < 0 || u >= g.NumNodes() {
				return nil, fmt.Errorf("%w: node id out of range %q", ErrInvalidLine, line)
			}
			if setWeights {
				g.SetWeight(u, weight)
			}
			if forbidden == 1 {
				g.SetForbidden(u)
			}

		case "e":
			if g == nil {
				return nil, ErrMissingHeader
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			uID, err1 := strconv.Atoi(fields[1])
			vID, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
			}
			u, v := uID-1, vID-1
			if u < 0 || u >= g.NumNodes() || v < 0 || v >= g.NumNodes() {
				return nil, fmt.Errorf("%w: edge endpoint out of range %q", ErrInvalidLine, line)
			}
			g.AddEdge(u, v)

		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrMissingHeader
	}
	g.Index()
	return g, nil
}
