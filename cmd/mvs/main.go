// Command mvs finds the weight-optimal, I/O-bounded maximum valid
// subgraphs (MVS) of a data-flow graph read from standard input.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/exg/mvs/internal/cli"
	"github.com/exg/mvs/internal/report"
	"github.com/exg/mvs/internal/telemetry"
	"github.com/exg/mvs/mvsfind"
)

var (
	iterName   string
	disableOpt string
	realWeight bool
)

func main() {
	root := &cobra.Command{
		Use:   "mvs MAX_IN MAX_OUT",
		Short: "find the weight-optimal, I/O-bounded maximum valid subgraphs of a DFG",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}
	root.Flags().StringVarP(&iterName, "iter", "i", "linear", "dels-budget search order: linear, linear-rev, binary-search")
	root.Flags().StringVarP(&disableOpt, "off", "o", "", "comma-separated list of optimization flag numbers (1-5) to disable")
	root.Flags().BoolVarP(&realWeight, "weights", "w", false, "use the DFG's real node weights instead of the 1.0 default")

	if err := root.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	maxIn, err1 := strconv.Atoi(args[0])
	maxOut, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || maxIn < 0 || maxOut < 0 {
		return fmt.Errorf("mvs: MAX_IN and MAX_OUT must be non-negative integers")
	}

	itype, err := parseIterType(iterName)
	if err != nil {
		return err
	}
	flags, err := parseFlags(disableOpt)
	if err != nil {
		return err
	}

	log := telemetry.NewStderr().WithFields(telemetry.F("tool", "mvs"))

	g, err := cli.ReadDFG(cmd.InOrStdin(), realWeight)
	if err != nil {
		log.Error("parse failed", telemetry.F("error", err.Error()))
		return err
	}
	log.Info("parsed", telemetry.F("num_nodes", g.NumNodes()))

	start := time.Now()
	finder := mvsfind.New(g, false)
	log.Info("candidates built", telemetry.F("num_mvs-c", len(finder.Candidates())), telemetry.F("num_s-clusters", len(finder.SClusters())))

	results := finder.Enumerate(maxIn, maxOut, itype, flags)
	elapsed := time.Since(start)

	var subgraphs []report.Subgraph
	for _, r := range results {
		subgraphs = append(subgraphs, report.NewSubgraph(g, r.Nodes, false))
		log.Debug("mvs", telemetry.F("weight", r.Weight), telemetry.F("num_nodes", r.Nodes.Size()))
	}

	log.Info("done", telemetry.F("num_mvs", len(subgraphs)), telemetry.F("time", elapsed.Seconds()))

	doc := report.NewDocument(g, subgraphs, elapsed)
	return report.Write(cmd.OutOrStdout(), doc)
}

func parseIterType(name string) (mvsfind.IterType, error) {
	switch name {
	case "linear", "":
		return mvsfind.Linear, nil
	case "linear-rev":
		return mvsfind.LinearRev, nil
	case "binary-search":
		return mvsfind.BinarySearch, nil
	default:
		return 0, fmt.Errorf("mvs: unknown -i value %q (want linear, linear-rev, or binary-search)", name)
	}
}

// parseFlags starts from AllFlags and clears the bit for every number
// named in csv, matching -o's "disables the listed optimizations"
// semantics.
func parseFlags(csv string) (mvsfind.Flags, error) {
	flags := mvsfind.AllFlags
	if csv == "" {
		return flags, nil
	}
	for _, f := range strings.Split(csv, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > 5 {
			return 0, fmt.Errorf("mvs: invalid -o entry %q (want 1-5)", f)
		}
		flags &^= mvsfind.Flags(1 << (n - 1))
	}
	return flags, nil
}
