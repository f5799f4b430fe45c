// ABOUTME: Centralized configuration for the migration and snapshot pipelines
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the pipeline tools
type Config struct {
	// Paths
	DataDir     string
	DBPath      string
	CatalogDir  string
	LegacyDir   string
	SnapshotDir string
	BackupDir   string

	// Migration settings
	BatchSize    int
	CreateBackup bool

	// Retry settings
	MaxRetries      int
	RetryBaseDelay  time.Duration
	RetryMultiplier float64

	// Snapshot settings
	MaxVideosPerOpening int
	MinMatchScore       float64
	SnapshotChunkSize   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("EXPLORER_DATA_DIR", defaultDataDir())

	cfg := &Config{
		DataDir:             dataDir,
		DBPath:              getEnv("EXPLORER_DB_PATH", filepath.Join(dataDir, "openings.db")),
		CatalogDir:          getEnv("EXPLORER_CATALOG_DIR", filepath.Join(dataDir, "catalogs")),
		LegacyDir:           getEnv("EXPLORER_LEGACY_DIR", filepath.Join(dataDir, "legacy")),
		SnapshotDir:         getEnv("EXPLORER_SNAPSHOT_DIR", filepath.Join(dataDir, "snapshots")),
		BackupDir:           getEnv("EXPLORER_BACKUP_DIR", filepath.Join(dataDir, "backups")),
		BatchSize:           getEnvInt("EXPLORER_BATCH_SIZE", 500),
		CreateBackup:        getEnvBool("EXPLORER_CREATE_BACKUP", true),
		MaxRetries:          getEnvInt("EXPLORER_MAX_RETRIES", 3),
		RetryBaseDelay:      getEnvDuration("EXPLORER_RETRY_DELAY", 250*time.Millisecond),
		RetryMultiplier:     getEnvFloat("EXPLORER_RETRY_MULTIPLIER", 2.0),
		MaxVideosPerOpening: getEnvInt("EXPLORER_MAX_VIDEOS", 10),
		MinMatchScore:       getEnvFloat("EXPLORER_MIN_SCORE", 0.7),
		SnapshotChunkSize:   getEnvInt("EXPLORER_SNAPSHOT_CHUNK", 100),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("EXPLORER_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("EXPLORER_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RetryMultiplier < 1 {
		return fmt.Errorf("EXPLORER_RETRY_MULTIPLIER must be >= 1, got %f", c.RetryMultiplier)
	}
	if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
		return fmt.Errorf("EXPLORER_MIN_SCORE must be 0-1, got %f", c.MinMatchScore)
	}
	if c.MaxVideosPerOpening <= 0 {
		return fmt.Errorf("EXPLORER_MAX_VIDEOS must be positive, got %d", c.MaxVideosPerOpening)
	}
	if c.SnapshotChunkSize <= 0 {
		return fmt.Errorf("EXPLORER_SNAPSHOT_CHUNK must be positive, got %d", c.SnapshotChunkSize)
	}
	return nil
}

// defaultDataDir follows the XDG spec, with an env override for testing
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "chess-opening-explorer")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
