// ABOUTME: Root CLI command wiring subcommands and global flags
// ABOUTME: Owns the verbose/quiet output controls shared by every command
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openings-pipeline",
		Short: "Chess opening explorer data pipeline",
		Long: `openings-pipeline migrates the legacy chess-opening data into a
single SQLite store and generates the static JSON snapshots served by
the opening explorer.

Typical flow:
  openings-pipeline migrate              # legacy files -> SQLite store
  openings-pipeline integrate            # merge legacy video caches
  openings-pipeline snapshot generate    # store -> static JSON documents
  openings-pipeline verify               # check sources and store integrity`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewIntegrateCmd())
	cmd.AddCommand(NewSnapshotCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
