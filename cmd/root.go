// Package cmd defines and implements the CLI commands for the
// portal-crawler executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portal-crawler",
		Short: "Harvests youth football competition data from the portal.",
		Long: `portal-crawler reconstructs a structured dataset (competitions, teams,
rosters, match results and match detail) from the competition portal's
paginated listing endpoints and its session-authenticated XML RPC,
writing one JSON artifact per entity kind.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./harvest.yaml)")
	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point. A run that loses single items still
// exits zero; only an unhandled error exits non-zero.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "portal-crawler: %+v\n", err)
		os.Exit(1)
	}
}
