// Command config_info reports on a user-provided node set of a data-flow
// graph read from standard input: its inputs and outputs, whether
// it is convex, and whether it is a valid (convex, forbidden-free)
// custom-instruction candidate.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/exg/mvs/internal/cli"
	"github.com/exg/mvs/internal/report"
	"github.com/exg/mvs/internal/telemetry"
	"github.com/exg/mvs/intset"
)

func main() {
	root := &cobra.Command{
		Use:   "config_info \"<space-separated node ids>\"",
		Short: "report on a user-provided node set of a DFG",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	if err := root.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := telemetry.NewStderr().WithFields(telemetry.F("tool", "config_info"))

	g, err := cli.ReadDFG(cmd.InOrStdin(), false)
	if err != nil {
		log.Error("parse failed", telemetry.F("error", err.Error()))
		return err
	}

	ids, err := cli.ParseNodeIDs(args[0])
	if err != nil {
		log.Error("bad node ids", telemetry.F("error", err.Error()))
		return err
	}

	nodes := intset.New(g.NumNodes())
	for _, id := range ids {
		if id < 0 || id >= g.NumNodes() {
			return fmt.Errorf("config_info: node id %d out of range", id+1)
		}
		nodes.Add(id)
	}

	doc := report.NewConfigInfoDocument(g, nodes)
	log.Info("done", telemetry.F("convex", doc.Convex), telemetry.F("valid", doc.Valid))

	return report.Write(cmd.OutOrStdout(), doc)
}
