package main

import (
	"fmt"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/pkg/adapters/yamltable"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <table.yaml>",
		Short: "Check a table file for consistency",
		Long: `Loads a table file and reports every configuration error at once: unknown
signals, missing or duplicate states, shadowed transitions and actions without
a binding. The initial cycle is run against a scratch in-memory store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := yamltable.LoadMachine(args[0], nil)
			if err == nil {
				_, err = stateworks.New(cmd.Context(), m.Table, m.Registry,
					stateworks.WithLogger(a.logger),
					stateworks.WithMaxSteps(m.MaxSteps))
			}
			if err != nil {
				out := cmd.ErrOrStderr()
				if errs := domain.ConfigurationErrors(err); len(errs) > 1 {
					fmt.Fprintf(out, "Validation failed with %d errors:\n", len(errs))
					for _, e := range errs {
						fmt.Fprintf(out, "  - %v\n", e)
					}
					return fmt.Errorf("%s is invalid", args[0])
				}
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Table %q is valid! ✅ (%d states, %d events, %d statics, %d actions)\n",
				m.Name, len(m.Table.States()), len(m.Table.Events()), len(m.Table.Statics()), len(m.Table.Actions()))
			return nil
		},
	}
}
