package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stateworks/internal/logging"
	"github.com/spf13/cobra"
)

// app carries the state shared by subcommands.
type app struct {
	logger   *slog.Logger
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "stateworks",
		Short: "Stateworks runs virtual finite state machines",
		Long: `Stateworks runs virtual finite state machines: tables of states whose
transitions and actions are guarded by events and static signals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, a.logJSON)
			return nil
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(
		newCountCmd(a),
		newValidateCmd(a),
		newRunCmd(a),
		newGraphCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
