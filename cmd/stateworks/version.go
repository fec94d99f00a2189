package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stateworks"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of stateworks",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stateworks version %s\n", strings.TrimSpace(stateworks.Version))
		},
	}
}
