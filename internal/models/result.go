// ABOUTME: Result types returned by pipeline entry points
// ABOUTME: Expected partial failure is reported through counts, not panics
package models

import "time"

// StageStats counts the outcome of one pipeline stage. Skipped counts
// duplicate-key inserts, which are expected on re-runs, not faults.
type StageStats struct {
	Processed int `json:"processed" yaml:"processed"`
	Migrated  int `json:"migrated" yaml:"migrated"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`
}

// TableCounts reports current store row counts.
type TableCounts struct {
	Openings      int `json:"openings" yaml:"openings"`
	Videos        int `json:"videos" yaml:"videos"`
	Relationships int `json:"relationships" yaml:"relationships"`
}

// MigrationResult is the audit record of a full migration run.
type MigrationResult struct {
	Success        bool          `json:"success" yaml:"success"`
	Openings       StageStats    `json:"openings" yaml:"openings"`
	Videos         StageStats    `json:"videos" yaml:"videos"`
	Relationships  StageStats    `json:"relationships" yaml:"relationships"`
	CompletedSteps []string      `json:"completed_steps" yaml:"completed_steps"`
	RolledBack     bool          `json:"rolled_back" yaml:"rolled_back"`
	RollbackErrors []string      `json:"rollback_errors,omitempty" yaml:"rollback_errors,omitempty"`
	BackupPath     string        `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	Errors         ErrorList     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// IntegrationResult is the audit record of a legacy-merge run.
type IntegrationResult struct {
	Success       bool          `json:"success" yaml:"success"`
	RunID         string        `json:"run_id" yaml:"run_id"`
	Videos        StageStats    `json:"videos" yaml:"videos"`
	Relationships StageStats    `json:"relationships" yaml:"relationships"`
	BackupDir     string        `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty"`
	RolledBack    bool          `json:"rolled_back" yaml:"rolled_back"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	Errors        ErrorList     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// SnapshotResult is the audit record of a snapshot generation pass.
type SnapshotResult struct {
	Success   bool          `json:"success"`
	Generated int           `json:"generated"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Errors    ErrorList     `json:"errors,omitempty"`
}

// CleanupResult reports orphaned snapshot deletions separately from per-file errors.
type CleanupResult struct {
	Deleted []string  `json:"deleted"`
	Errors  ErrorList `json:"errors,omitempty"`
}

// EstimateResult is the read-only projection produced by a dry run.
type EstimateResult struct {
	OpeningCount     int     `json:"opening_count"`
	VideoFileCount   int     `json:"video_file_count"`
	SampledFiles     int     `json:"sampled_files"`
	ProjectedRecords int     `json:"projected_records"`
	SourceBytes      int64   `json:"source_bytes"`
	ProjectedBytes   int64   `json:"projected_bytes"`
	CompressionRatio float64 `json:"compression_ratio"`
}
