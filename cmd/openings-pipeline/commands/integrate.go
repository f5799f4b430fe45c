// ABOUTME: CLI command merging the legacy video caches into the store
// ABOUTME: Supports pre-run backups and resuming from a checkpoint file
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Freddiekinns/chess-opening-explorer/internal/integrate"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

var (
	integrateWithRollback bool
	integrateResume       string
)

// NewIntegrateCmd creates the integrate command
func NewIntegrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Merge legacy video caches into the store",
		Long: `Merge the channel-first results and the enrichment cache, insert the
merged videos, and expand ECO-level mappings into per-position
relationships. Enrichment data wins when both sources describe a video.

Examples:
  openings-pipeline integrate
  openings-pipeline integrate --with-rollback
  openings-pipeline integrate --resume checkpoint.json`,
		RunE: runIntegrate,
	}

	cmd.Flags().BoolVar(&integrateWithRollback, "with-rollback", false, "Back up legacy sources before the run")
	cmd.Flags().StringVar(&integrateResume, "resume", "", "Resume from a checkpoint file")

	return cmd
}

func runIntegrate(cmd *cobra.Command, args []string) error {
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

	integrator := integrate.New(cfg, gw, logger)
	integrator.SetProgressSink(progressSink(cmd.OutOrStdout()))

	var result *models.IntegrationResult
	switch {
	case integrateResume != "":
		cp, err := readCheckpoint(integrateResume)
		if err != nil {
			return err
		}
		result, err = integrator.ResumeFromCheckpoint(cp)
		if err != nil {
			return fmt.Errorf("resuming integration: %w", err)
		}
	case integrateWithRollback:
		result, err = integrator.RunWithRollback()
		if err != nil {
			return fmt.Errorf("integration: %w", err)
		}
	default:
		result, err = integrator.Run()
		if err != nil {
			return fmt.Errorf("integration: %w", err)
		}
	}

	printIntegrationSummary(cmd, result)
	if !result.Success {
		return fmt.Errorf("integration run %s failed", result.RunID)
	}
	return nil
}

func readCheckpoint(path string) (*models.Checkpoint, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	var cp models.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parsing checkpoint: %w", err)
	}
	return &cp, nil
}

func printIntegrationSummary(cmd *cobra.Command, result *models.IntegrationResult) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:           %s\n", result.RunID)
	fmt.Fprintf(out, "Videos:        %d inserted, %d skipped, %d failed\n",
		result.Videos.Migrated, result.Videos.Skipped, result.Videos.Failed)
	fmt.Fprintf(out, "Relationships: %d created, %d skipped, %d failed\n",
		result.Relationships.Migrated, result.Relationships.Skipped, result.Relationships.Failed)
	if result.BackupDir != "" {
		fmt.Fprintf(out, "Backup:        %s\n", result.BackupDir)
	}
	if result.RolledBack {
		fmt.Fprintln(out, "Run failed; restore the legacy backup to retry")
	}
	fmt.Fprintf(out, "Duration:      %s\n", result.Duration)
	printErrors(out, result.Errors)
}
