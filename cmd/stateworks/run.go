package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/pkg/adapters/yamltable"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/observability"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		batches []string
		reads   []string
		trace   bool
		store   storeFlags
	)

	cmd := &cobra.Command{
		Use:   "run <table.yaml>",
		Short: "Run a table against batches of events",
		Long: `Builds an engine from a table file and posts one batch per --events flag
(comma separated tags). Without --events, batches are read from stdin, one
per line. Prints the settled state, then the result of every --read action.`,
		Example: `  stateworks run turnstile.yaml --events coin --events push --read coins
  printf 'coin\npush\n' | stateworks run turnstile.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := yamltable.LoadMachine(args[0], cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ds, closeStore, err := store.open(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := []stateworks.Option{
				stateworks.WithName(m.Name),
				stateworks.WithStore(ds),
				stateworks.WithLogger(a.logger),
				stateworks.WithMaxSteps(m.MaxSteps),
			}
			if trace {
				opts = append(opts, stateworks.WithLifecycleHooks(observability.NewTraceWriter(cmd.ErrOrStderr()).Hooks()))
			}

			eng, err := stateworks.New(ctx, m.Table, m.Registry, opts...)
			if err != nil {
				return err
			}

			post := func(line string) error {
				if err := eng.PostEvents(ctx, parseBatch(line)...); err != nil {
					return fmt.Errorf("batch %q: %w", line, err)
				}
				return nil
			}

			if cmd.Flags().Changed("events") {
				for _, b := range batches {
					if err := post(b); err != nil {
						return err
					}
				}
			} else if err := postLines(cmd.InOrStdin(), post); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := eng.Inspect()
			fmt.Fprintf(out, "state: %s\n", snap.State)
			fmt.Fprintf(out, "statics: %s\n", domain.NewStaticSet(snap.Statics...))
			fmt.Fprintf(out, "cycles: %d\n", snap.Cycles)
			for _, action := range reads {
				v, err := eng.Read(ctx, domain.Action(action))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %v\n", action, v)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&batches, "events", nil, "Batch of comma separated events to post (repeatable)")
	cmd.Flags().StringArrayVar(&reads, "read", nil, "Read-style action to dispatch after the run (repeatable)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print a trace of every cycle to stderr")
	store.register(cmd)
	return cmd
}

// parseBatch splits "a, b c" into event tags. An empty line is an empty batch.
func parseBatch(line string) []domain.EventTag {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	tags := make([]domain.EventTag, len(fields))
	for i, f := range fields {
		tags[i] = domain.EventTag(f)
	}
	return tags
}

func postLines(r io.Reader, post func(string) error) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := post(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batches: %w", err)
	}
	return nil
}
