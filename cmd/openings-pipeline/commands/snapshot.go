// ABOUTME: CLI commands for the static snapshot directory
// ABOUTME: Generate, update, clean up, and validate per-opening JSON files
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/snapshot"
)

// NewSnapshotCmd creates the snapshot command group
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage the static snapshot directory",
		Long: `Generate and maintain the per-opening JSON documents served statically
by the opening explorer. Snapshots are derived entirely from the store;
the directory can always be regenerated from scratch.`,
	}

	cmd.AddCommand(newSnapshotGenerateCmd())
	cmd.AddCommand(newSnapshotUpdateCmd())
	cmd.AddCommand(newSnapshotCleanupCmd())
	cmd.AddCommand(newSnapshotValidateCmd())

	return cmd
}

func newSnapshotGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate every opening's snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGenerator(cmd, func(gen *snapshot.Generator) error {
				result, err := gen.GenerateAll()
				if err != nil {
					return err
				}
				printSnapshotSummary(cmd, result)
				if !result.Success {
					return fmt.Errorf("%d snapshot(s) failed", result.Failed)
				}
				return nil
			})
		},
	}
}

func newSnapshotUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update FEN [FEN...]",
		Short: "Regenerate snapshots for specific openings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGenerator(cmd, func(gen *snapshot.Generator) error {
				result, err := gen.Update(args)
				if err != nil {
					return err
				}
				printSnapshotSummary(cmd, result)
				if !result.Success {
					return fmt.Errorf("%d snapshot(s) failed", result.Failed)
				}
				return nil
			})
		},
	}
}

func newSnapshotCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete snapshots for openings no longer in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGenerator(cmd, func(gen *snapshot.Generator) error {
				result, err := gen.CleanupOrphans()
				if err != nil {
					return err
				}
				if !quiet {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Deleted %d orphaned snapshot(s)\n", len(result.Deleted))
					for _, name := range result.Deleted {
						fmt.Fprintf(out, "  %s\n", name)
					}
					printErrors(out, result.Errors)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("%d file(s) could not be deleted", len(result.Errors))
				}
				return nil
			})
		},
	}
}

func newSnapshotValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every expected snapshot exists and parses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGenerator(cmd, func(gen *snapshot.Generator) error {
				findings, err := gen.ValidateAll()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(findings) == 0 {
					if !quiet {
						fmt.Fprintln(out, "All snapshots valid")
					}
					return nil
				}
				for _, f := range findings {
					fmt.Fprintf(out, "  %s\n", f)
				}
				return fmt.Errorf("%d snapshot problem(s) found", len(findings))
			})
		},
	}
}

// withGenerator wires config, logger, and store around one snapshot action
func withGenerator(cmd *cobra.Command, fn func(*snapshot.Generator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gw, err := openGateway(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gw.Close() }()

	gen := snapshot.New(cfg, gw, logger)
	gen.SetProgressSink(progressSink(cmd.OutOrStdout()))
	return fn(gen)
}

func printSnapshotSummary(cmd *cobra.Command, result *models.SnapshotResult) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated: %d\n", result.Generated)
	fmt.Fprintf(out, "Failed:    %d\n", result.Failed)
	fmt.Fprintf(out, "Duration:  %s\n", result.Duration)
	printErrors(out, result.Errors)
}
