// ABOUTME: Dated backup directories and the backup-only rollback run
// ABOUTME: Rollback marks the run; it does not restore store state (known limitation)
package integrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/extract"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// CreateBackup copies every known legacy source file into a dated backup
// directory. Individually missing files are tolerated; only the inability
// to create the directory itself is an error.
func (i *Integrator) CreateBackup() (string, error) {
	dir := filepath.Join(i.cfg.BackupDir,
		fmt.Sprintf("legacy-%s-%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8]))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	copied := 0
	for _, name := range extract.KnownLegacyFiles() {
		src := filepath.Join(i.cfg.LegacyDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			i.logger.Warn("failed to back up legacy file", zap.String("file", name), zap.Error(err))
			continue
		}
		copied++
	}

	i.logger.Info("legacy sources backed up", zap.String("dir", dir), zap.Int("files", copied))
	return dir, nil
}

// RunWithRollback backs up the legacy sources, runs the integration, and on
// failure marks the run as rolled back. True state restoration is out of
// scope for this pass: the backup directory is the recovery artifact.
func (i *Integrator) RunWithRollback() (*models.IntegrationResult, error) {
	backupDir, err := i.CreateBackup()
	if err != nil {
		return nil, err
	}

	result, err := i.Run()
	if err != nil {
		return nil, err
	}
	result.BackupDir = backupDir

	if !result.Success {
		result.RolledBack = true
		i.logger.Warn("integration failed; run marked rolled back",
			zap.String("backup_dir", backupDir))
	}
	return result, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
