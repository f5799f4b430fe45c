// ABOUTME: Pre-run backup of the store file for the Migrator
// ABOUTME: A store that does not exist yet is a first run, not an error
package migrate

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// backupStoreFile copies the store file to a timestamped sibling before a
// mutating run. Returns the backup path, or "" when there is nothing to copy.
func (m *Migrator) backupStoreFile() (string, error) {
	src := m.cfg.DBPath
	if _, err := os.Stat(src); os.IsNotExist(err) {
		m.logger.Info("no existing store to back up", zap.String("path", src))
		return "", nil
	} else if err != nil {
		return "", err
	}

	dst := fmt.Sprintf("%s.backup-%s", src, time.Now().Format("20060102-150405"))
	if err := copyFile(src, dst); err != nil {
		return "", err
	}

	m.logger.Info("store backed up", zap.String("backup", dst))
	return dst, nil
}

// restoreStoreFile copies a pre-run backup over the store file and removes
// stale WAL sidecars so the next connection reads the restored state. The
// caller must close its store connection first.
func (m *Migrator) restoreStoreFile(backupPath string) error {
	if err := copyFile(backupPath, m.cfg.DBPath); err != nil {
		return fmt.Errorf("restoring store from %s: %w", backupPath, err)
	}
	for _, sidecar := range []string{m.cfg.DBPath + "-wal", m.cfg.DBPath + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	m.logger.Info("store restored from backup", zap.String("backup", backupPath))
	return nil
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
