// ABOUTME: CLI command running the legacy-to-SQLite migration
// ABOUTME: Supports dry runs, backup control, and YAML run reports
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Freddiekinns/chess-opening-explorer/internal/migrate"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

var (
	migrateDryRun    bool
	migrateNoBackup  bool
	migrateBatchSize int
	migrateReport    string
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy catalog and video files into the store",
		Long: `Migrate the ECO catalog files and per-position video files into the
SQLite store. The run is idempotent: records already present are skipped.
A failed step rolls back the steps that completed before it.

Examples:
  openings-pipeline migrate
  openings-pipeline migrate --dry-run
  openings-pipeline migrate --report run.yaml --batch-size 250`,
		RunE: runMigrate,
	}

	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Verify sources and estimate size without writing")
	cmd.Flags().BoolVar(&migrateNoBackup, "no-backup", false, "Skip the pre-run store backup")
	cmd.Flags().IntVar(&migrateBatchSize, "batch-size", 0, "Override the configured batch size")
	cmd.Flags().StringVar(&migrateReport, "report", "", "Write a YAML run report to this path")

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if migrateBatchSize > 0 {
		cfg.BatchSize = migrateBatchSize
	}
	if migrateNoBackup {
		cfg.CreateBackup = false
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	m := migrate.New(cfg, storeFactory(cfg), logger)

	if migrateDryRun {
		estimate, err := m.DryRun()
		if err != nil {
			return fmt.Errorf("dry run: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Openings:          %d\n", estimate.OpeningCount)
		fmt.Fprintf(out, "Video files:       %d (sampled %d)\n", estimate.VideoFileCount, estimate.SampledFiles)
		fmt.Fprintf(out, "Projected records: %d\n", estimate.ProjectedRecords)
		fmt.Fprintf(out, "Source bytes:      %d\n", estimate.SourceBytes)
		fmt.Fprintf(out, "Projected bytes:   %d (ratio %.2f)\n", estimate.ProjectedBytes, estimate.CompressionRatio)
		return nil
	}

	m.SetProgressSink(progressSink(cmd.OutOrStdout()))

	result, err := m.Run()
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}

	if migrateReport != "" {
		if err := migrate.WriteReport(migrateReport, result); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	printMigrationSummary(cmd, result)
	if !result.Success {
		return fmt.Errorf("migration failed after steps %v", result.CompletedSteps)
	}
	return nil
}

func printMigrationSummary(cmd *cobra.Command, result *models.MigrationResult) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Openings:      %d migrated, %d skipped, %d failed\n",
		result.Openings.Migrated, result.Openings.Skipped, result.Openings.Failed)
	fmt.Fprintf(out, "Videos:        %d migrated, %d skipped, %d failed\n",
		result.Videos.Migrated, result.Videos.Skipped, result.Videos.Failed)
	fmt.Fprintf(out, "Relationships: %d migrated, %d skipped, %d failed\n",
		result.Relationships.Migrated, result.Relationships.Skipped, result.Relationships.Failed)
	if result.BackupPath != "" {
		fmt.Fprintf(out, "Backup:        %s\n", result.BackupPath)
	}
	if result.RolledBack {
		fmt.Fprintln(out, "Run failed and was rolled back")
	}
	fmt.Fprintf(out, "Duration:      %s\n", result.Duration)
	printErrors(out, result.Errors)
}
