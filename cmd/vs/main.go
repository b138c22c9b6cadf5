// Command vs enumerates the convex, I/O-bounded subgraphs of a data-flow
// graph read from standard input, reporting either the full family or
// only its weight-optimal members.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/exg/mvs/dfg"
	"github.com/exg/mvs/internal/cli"
	"github.com/exg/mvs/internal/report"
	"github.com/exg/mvs/internal/telemetry"
	"github.com/exg/mvs/vs"
)

var (
	emitAll    bool
	realWeight bool
)

func main() {
	root := &cobra.Command{
		Use:   "vs MAX_IN MAX_OUT",
		Short: "enumerate convex I/O-bounded subgraphs of a DFG",
		Args:  cobra.ExactArgs(2),
		RunE:  run,
	}
	root.Flags().BoolVarP(&emitAll, "emit-all", "e", false, "emit every subgraph, not only the weight-optimal ones")
	root.Flags().BoolVarP(&realWeight, "weights", "w", false, "use the DFG's real node weights instead of the 1.0 default")

	if err := root.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	maxIn, err1 := strconv.Atoi(args[0])
	maxOut, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || maxIn < 0 || maxOut < 0 {
		return fmt.Errorf("vs: MAX_IN and MAX_OUT must be non-negative integers")
	}

	log := telemetry.NewStderr().WithFields(telemetry.F("tool", "vs"))

	g, err := cli.ReadDFG(cmd.InOrStdin(), realWeight)
	if err != nil {
		log.Error("parse failed", telemetry.F("error", err.Error()))
		return err
	}
	log.Info("parsed", telemetry.F("num_nodes", g.NumNodes()))

	start := time.Now()
	var all []dfg.IOSubgraph
	stats := vs.Enumerate(g, maxIn, maxOut, func(io dfg.IOSubgraph) {
		all = append(all, io)
		log.Debug("emit", telemetry.F("weight", io.Weight()), telemetry.F("num_nodes", io.Nodes.Size()))
	})
	elapsed := time.Since(start)

	max := 0.0
	for _, io := range all {
		if io.Weight() > max {
			max = io.Weight()
		}
	}

	var subgraphs []report.Subgraph
	for _, io := range all {
		if !emitAll && io.Weight() != max {
			continue
		}
		subgraphs = append(subgraphs, report.NewSubgraph(g, io.Nodes, false))
	}
	sort.SliceStable(subgraphs, func(i, j int) bool { return subgraphs[i].Weight > subgraphs[j].Weight })

	log.Info("done", telemetry.F("calls", stats.Calls), telemetry.F("count", stats.Count), telemetry.F("time", elapsed.Seconds()))

	doc := report.NewDocument(g, subgraphs, elapsed)
	return report.Write(cmd.OutOrStdout(), doc)
}
