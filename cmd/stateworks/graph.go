package main

import (
	"fmt"

	"github.com/aretw0/stateworks/internal/presentation/graph"
	"github.com/aretw0/stateworks/pkg/adapters/yamltable"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <table.yaml>",
		Short: "Export the table as a Mermaid diagram",
		Long:  `Loads a table file and outputs a Mermaid diagram (graph TD) of its states and transitions.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := yamltable.Load(args[0])
			if err != nil {
				return err
			}
			tbl, err := doc.Table()
			if err != nil {
				return err
			}
			a.logger.Debug("rendering graph", "table", args[0], "states", len(tbl.States()))
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tbl, nil))
			return nil
		},
	}
}
