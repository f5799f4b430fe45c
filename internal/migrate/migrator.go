// ABOUTME: Migrator drives the full legacy-to-store migration as ordered steps
// ABOUTME: Each step pairs with a rollback action; failures unwind in reverse order
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
	"github.com/Freddiekinns/chess-opening-explorer/internal/util"
)

// Migrator loads the opening catalogs and legacy video corpus into the store.
type Migrator struct {
	cfg      *config.Config
	factory  storage.Factory
	logger   *zap.Logger
	progress models.ProgressSink
	retry    util.RetryPolicy
}

// New creates a Migrator. The gateway factory defers opening the store so
// the pre-run backup can copy the file before any connection exists.
func New(cfg *config.Config, factory storage.Factory, logger *zap.Logger) *Migrator {
	return &Migrator{
		cfg:      cfg,
		factory:  factory,
		logger:   logger,
		progress: models.NopProgress,
		retry: util.RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Multiplier:  cfg.RetryMultiplier,
		},
	}
}

// SetProgressSink replaces the progress sink (default discards events).
func (m *Migrator) SetProgressSink(sink models.ProgressSink) {
	if sink != nil {
		m.progress = sink
	}
}

// step pairs one migration stage with the action that undoes it.
type step struct {
	name     string
	run      func(gw storage.Gateway, result *models.MigrationResult) error
	rollback func(gw storage.Gateway) error
}

func (m *Migrator) steps() []step {
	return []step{
		{
			name: "initialize_schema",
			run: func(gw storage.Gateway, _ *models.MigrationResult) error {
				return gw.InitSchema()
			},
			// Schema creation is idempotent; dropping it on rollback would
			// destroy data that predated this run.
			rollback: func(storage.Gateway) error { return nil },
		},
		{
			name: "migrate_openings",
			run: func(gw storage.Gateway, result *models.MigrationResult) error {
				stats, errs, err := m.MigrateOpeningCatalog(gw)
				result.Openings = stats
				result.Errors = append(result.Errors, errs...)
				return err
			},
			rollback: func(gw storage.Gateway) error { return gw.ClearOpenings() },
		},
		{
			name: "migrate_videos",
			run: func(gw storage.Gateway, result *models.MigrationResult) error {
				videoStats, relStats, errs, err := m.MigrateVideoData(gw)
				result.Videos = videoStats
				result.Relationships = relStats
				result.Errors = append(result.Errors, errs...)
				return err
			},
			rollback: func(gw storage.Gateway) error {
				if err := gw.ClearRelationships(); err != nil {
					return err
				}
				return gw.ClearVideos()
			},
		},
		{
			name: "validate_integrity",
			run: func(gw storage.Gateway, _ *models.MigrationResult) error {
				findings, err := gw.ValidateIntegrity()
				if err != nil {
					return err
				}
				if len(findings) > 0 {
					return fmt.Errorf("integrity validation found %d problems: %v", len(findings), findings)
				}
				return nil
			},
			rollback: func(storage.Gateway) error { return nil },
		},
	}
}

// Run executes the full migration. Expected failures are reported on the
// result; the returned error is reserved for unrecoverable setup problems.
func (m *Migrator) Run() (*models.MigrationResult, error) {
	start := time.Now()
	result := &models.MigrationResult{}

	_, statErr := os.Stat(m.cfg.DBPath)
	storePreExisted := statErr == nil

	if m.cfg.CreateBackup {
		backupPath, err := m.backupStoreFile()
		if err != nil {
			return nil, fmt.Errorf("pre-run backup failed: %w", err)
		}
		result.BackupPath = backupPath
	}

	gw, err := m.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = gw.Close() }()

	steps := m.steps()
	for i, st := range steps {
		m.logger.Info("running migration step", zap.Int("step", i+1), zap.String("name", st.name))
		if err := st.run(gw, result); err != nil {
			m.logger.Error("migration step failed",
				zap.String("name", st.name), zap.Error(err))
			result.Errors.Add(models.ErrorFatal, st.name, err.Error())
			m.rollbackRun(gw, steps[:i+1], storePreExisted, result)
			result.Duration = time.Since(start)
			return result, nil
		}
		result.CompletedSteps = append(result.CompletedSteps, st.name)
	}

	result.Success = true
	result.Duration = time.Since(start)
	m.logger.Info("migration complete",
		zap.Duration("duration", result.Duration),
		zap.Int("openings", result.Openings.Migrated),
		zap.Int("videos", result.Videos.Migrated),
		zap.Int("relationships", result.Relationships.Migrated))
	return result, nil
}

// rollbackRun restores the pre-run state after a failed step. A pre-run
// backup file is authoritative when one was taken. A store that did not
// exist before the run is cleared table by table. A pre-existing store with
// no backup is left as-is: clearing tables would destroy rows that predate
// the run, and a re-run skips already-migrated rows anyway.
func (m *Migrator) rollbackRun(gw storage.Gateway, completed []step, storePreExisted bool, result *models.MigrationResult) {
	switch {
	case result.BackupPath != "":
		_ = gw.Close()
		if err := m.restoreStoreFile(result.BackupPath); err != nil {
			result.RollbackErrors = append(result.RollbackErrors, err.Error())
			return
		}
		result.RolledBack = true
	case !storePreExisted:
		result.RollbackErrors = m.Rollback(gw, completed)
		result.RolledBack = len(result.RollbackErrors) == 0
	default:
		result.RollbackErrors = append(result.RollbackErrors,
			"no pre-run backup to restore; store left unchanged (re-running skips migrated rows)")
	}
}

// Rollback undoes completed steps in reverse order and returns a message
// per rollback action that itself failed. Only safe when the store held no
// rows before the run; failed runs over a populated store restore the
// pre-run backup file instead.
func (m *Migrator) Rollback(gw storage.Gateway, completed []step) []string {
	var failures []string
	for i := len(completed) - 1; i >= 0; i-- {
		st := completed[i]
		m.logger.Info("rolling back step", zap.String("name", st.name))
		if err := st.rollback(gw); err != nil {
			m.logger.Error("rollback failed", zap.String("name", st.name), zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s: %v", st.name, err))
		}
	}
	return failures
}

// VerifySourceData checks that every expected source exists before a run.
func (m *Migrator) VerifySourceData() error {
	info, err := os.Stat(m.cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog directory %s is not a directory", m.cfg.CatalogDir)
	}

	for _, name := range catalogFiles {
		if _, err := os.Stat(filepath.Join(m.cfg.CatalogDir, name)); err != nil {
			return fmt.Errorf("catalog file %s: %w", name, err)
		}
	}

	videoDir := m.videoDir()
	info, err = os.Stat(videoDir)
	if err != nil {
		return fmt.Errorf("legacy video directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("legacy video directory %s is not a directory", videoDir)
	}
	return nil
}

func (m *Migrator) videoDir() string {
	return filepath.Join(m.cfg.LegacyDir, "videos")
}
