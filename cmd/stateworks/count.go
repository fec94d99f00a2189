package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/stateworks/pkg/observability"
	"github.com/aretw0/stateworks/pkg/wordcount"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCountCmd(a *app) *cobra.Command {
	var (
		trace bool
		greet bool
		key   string
		store storeFlags
	)

	cmd := &cobra.Command{
		Use:   "count [text...]",
		Short: "Count words with the word-counter machine",
		Long: `Feeds one event per character into the word-counter machine and prints
the number of words. Text comes from the arguments, or from stdin when none
are given. On an interactive terminal each line is counted as it is typed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ds, closeStore, err := store.open(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if key == "" {
				key = wordcount.DefaultKey
				if store.kind == "redis" {
					// A fresh register per run unless the caller asks to accumulate.
					key = "wordcount:" + uuid.NewString()
				}
			}

			opts := []wordcount.Option{
				wordcount.WithStore(ds),
				wordcount.WithKey(key),
				wordcount.WithLogger(a.logger),
			}
			if trace {
				opts = append(opts, wordcount.WithLifecycleHooks(observability.NewTraceWriter(cmd.ErrOrStderr()).Hooks()))
			}
			if greet {
				opts = append(opts, wordcount.WithGreeting(cmd.ErrOrStderr()))
			}

			counter, err := wordcount.New(ctx, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			in := cmd.InOrStdin()

			switch {
			case len(args) > 0:
				if err := counter.Feed(ctx, strings.Join(args, " ")); err != nil {
					return err
				}
			case isTerminal(in):
				scanner := bufio.NewScanner(in)
				fmt.Fprint(cmd.ErrOrStderr(), "> ")
				for scanner.Scan() {
					if err := counter.Feed(ctx, scanner.Text()+"\n"); err != nil {
						return err
					}
					n, err := counter.Words(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "%d\n> ", n)
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr())
			default:
				text, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				if err := counter.Feed(ctx, string(text)); err != nil {
					return err
				}
			}

			if err := counter.Finish(ctx); err != nil {
				return err
			}
			n, err := counter.Words(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "Print a trace of every cycle to stderr")
	cmd.Flags().BoolVar(&greet, "greet", false, "Enable the global hello action")
	cmd.Flags().StringVar(&key, "key", "", "Data store register holding the count")
	store.register(cmd)
	return cmd
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
