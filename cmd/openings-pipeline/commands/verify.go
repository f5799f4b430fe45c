// ABOUTME: CLI command checking legacy sources and store integrity
// ABOUTME: Read-only; exits non-zero when either check finds problems
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Freddiekinns/chess-opening-explorer/internal/migrate"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify legacy source data and store integrity",
		Long: `Check that the legacy source files are present and parse, then run the
store's referential-integrity checks. Neither check writes anything.`,
		RunE: runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	problems := 0

	m := migrate.New(cfg, storeFactory(cfg), logger)
	if err := m.VerifySourceData(); err != nil {
		problems++
		fmt.Fprintf(out, "Source data: %v\n", err)
	} else if !quiet {
		fmt.Fprintln(out, "Source data: ok")
	}

	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		if !quiet {
			fmt.Fprintln(out, "Store:       not created yet")
		}
	} else {
		gw, err := openGateway(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = gw.Close() }()

		counts, err := gw.Counts()
		if err != nil {
			return fmt.Errorf("counting rows: %w", err)
		}
		if !quiet {
			fmt.Fprintf(out, "Store:       %d openings, %d videos, %d relationships\n",
				counts.Openings, counts.Videos, counts.Relationships)
		}

		findings, err := gw.ValidateIntegrity()
		if err != nil {
			return fmt.Errorf("integrity check: %w", err)
		}
		for _, f := range findings {
			problems++
			fmt.Fprintf(out, "Integrity:   %s\n", f)
		}
		if len(findings) == 0 && !quiet {
			fmt.Fprintln(out, "Integrity:   ok")
		}
	}

	if problems > 0 {
		return fmt.Errorf("verification found %d problem(s)", problems)
	}
	return nil
}
