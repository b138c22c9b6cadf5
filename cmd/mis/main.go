// Command mis counts the maximal independent sets of an undirected graph
// read from standard input.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/exg/mvs/internal/cli"
	"github.com/exg/mvs/internal/report"
	"github.com/exg/mvs/internal/telemetry"
	"github.com/exg/mvs/intset"
	"github.com/exg/mvs/mis"
)

var (
	useBK  bool
	invert bool
)

func main() {
	root := &cobra.Command{
		Use:   "mis",
		Short: "count the maximal independent sets of an undirected graph",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	root.Flags().BoolVarP(&useBK, "bron-kerbosch", "b", false, "use Bron-Kerbosch with pivoting instead of plain branch-and-bound")
	root.Flags().BoolVarP(&invert, "invert", "i", false, "invert the graph before enumerating")

	if err := root.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := telemetry.NewStderr().WithFields(telemetry.F("tool", "mis"))

	g, err := cli.ReadMISGraph(cmd.InOrStdin())
	if err != nil {
		log.Error("parse failed", telemetry.F("error", err.Error()))
		return err
	}
	if invert {
		g = g.Invert()
	}
	log.Info("parsed", telemetry.F("num_nodes", g.NumNodes()))

	algo := mis.Exhaustive
	if useBK {
		algo = mis.BronKerbosch
	}

	numEdges := 0
	for u := 0; u < g.NumNodes(); u++ {
		numEdges += g.Degree(u)
	}
	numEdges /= 2

	start := time.Now()
	var count int64
	stats := mis.Enumerate(g, algo, func(s intset.Set) {
		count++
		log.Debug("mis", telemetry.F("size", s.Size()))
	}, nil)
	elapsed := time.Since(start)

	log.Info("done", telemetry.F("count", count), telemetry.F("calls", stats.Calls), telemetry.F("time", elapsed.Seconds()))

	doc := &report.MISDocument{
		NumNodes: g.NumNodes(),
		NumEdges: numEdges,
		Count:    stats.Count,
		Calls:    stats.Calls,
		Inverted: invert,
		Time:     elapsed.Seconds(),
	}
	return report.Write(cmd.OutOrStdout(), doc)
}
