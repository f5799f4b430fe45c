// ABOUTME: Snapshot Generator writes one static JSON document per opening
// ABOUTME: Read-only against the store; owns the snapshot output directory
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/chess"
	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
	"github.com/Freddiekinns/chess-opening-explorer/internal/util"
)

// Generator produces and maintains the static snapshot directory.
type Generator struct {
	cfg      *config.Config
	gw       storage.Gateway
	logger   *zap.Logger
	progress models.ProgressSink
	retry    util.RetryPolicy
	clock    func() time.Time
}

// New creates a Generator reading from gw and writing to cfg.SnapshotDir.
func New(cfg *config.Config, gw storage.Gateway, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:      cfg,
		gw:       gw,
		logger:   logger,
		progress: models.NopProgress,
		clock:    time.Now,
		retry: util.RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Multiplier:  cfg.RetryMultiplier,
		},
	}
}

// SetProgressSink replaces the progress sink (default discards events).
func (g *Generator) SetProgressSink(sink models.ProgressSink) {
	if sink != nil {
		g.progress = sink
	}
}

// SetClock overrides the time source (for cache-version tests).
func (g *Generator) SetClock(clock func() time.Time) {
	if clock != nil {
		g.clock = clock
	}
}

// AllOpenings lists every opening in the store.
func (g *Generator) AllOpenings() ([]models.Opening, error) {
	return g.gw.ListOpenings()
}

// VideosForOpening fetches the capped, quality-gated video list for one
// opening: at most MaxVideosPerOpening entries at or above MinMatchScore.
func (g *Generator) VideosForOpening(fen string) ([]models.RankedVideo, error) {
	return g.gw.VideosForOpening(fen, g.cfg.MaxVideosPerOpening, g.cfg.MinMatchScore)
}

// Filename returns the snapshot file name for one opening key.
func (g *Generator) Filename(fen string) string {
	return chess.SnapshotFilename(fen)
}

// WriteFile writes one document to its content-addressed file.
func (g *Generator) WriteFile(fen string, doc *Document) error {
	if err := os.MkdirAll(g.cfg.SnapshotDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	path := filepath.Join(g.cfg.SnapshotDir, g.Filename(fen))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// WriteFileWithRetry retries transient write failures with backoff.
func (g *Generator) WriteFileWithRetry(fen string, doc *Document) error {
	err := g.retry.Do(func() error { return g.WriteFile(fen, doc) })
	if err != nil {
		return util.AnnotateFailure("write_snapshot", fen, err)
	}
	return nil
}

// GenerateAll regenerates every opening's snapshot in fixed-size chunks.
// Per-record errors are collected; a progress event is published after
// every chunk, including chunks in which all records failed.
func (g *Generator) GenerateAll() (*models.SnapshotResult, error) {
	start := g.clock()
	result := &models.SnapshotResult{}

	openings, err := g.AllOpenings()
	if err != nil {
		return nil, fmt.Errorf("failed to list openings: %w", err)
	}

	total := len(openings)
	for offset := 0; offset < total; offset += g.cfg.SnapshotChunkSize {
		end := offset + g.cfg.SnapshotChunkSize
		if end > total {
			end = total
		}
		lastItem := ""

		for idx := offset; idx < end; idx++ {
			opening := openings[idx]
			lastItem = opening.Name
			if err := g.generateOne(&opening); err != nil {
				result.Failed++
				result.Errors.Add(models.ErrorTransient, opening.FEN, err.Error())
				continue
			}
			result.Generated++
		}

		g.progress.Publish(models.ProgressEvent{
			Stage:     "generate_snapshots",
			Processed: end,
			Total:     total,
			Percent:   float64(end) / float64(total) * 100,
			LastItem:  lastItem,
		})
	}

	result.Success = result.Failed == 0
	result.Duration = g.clock().Sub(start)
	g.logger.Info("snapshot generation finished",
		zap.Int("generated", result.Generated),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Update regenerates snapshots for the named openings only.
func (g *Generator) Update(fens []string) (*models.SnapshotResult, error) {
	start := g.clock()
	result := &models.SnapshotResult{}

	for _, fen := range fens {
		opening, err := g.gw.GetOpening(fen)
		if err != nil {
			result.Failed++
			result.Errors.Add(models.ErrorTransient, fen, err.Error())
			continue
		}
		if opening == nil {
			result.Failed++
			result.Errors.Add(models.ErrorValidation, fen, "no such opening")
			continue
		}
		if err := g.generateOne(opening); err != nil {
			result.Failed++
			result.Errors.Add(models.ErrorTransient, fen, err.Error())
			continue
		}
		result.Generated++
	}

	result.Success = result.Failed == 0
	result.Duration = g.clock().Sub(start)
	return result, nil
}

func (g *Generator) generateOne(opening *models.Opening) error {
	videos, err := g.VideosForOpening(opening.FEN)
	if err != nil {
		return fmt.Errorf("failed to query videos: %w", err)
	}
	doc := g.BuildDocument(opening, videos)
	return g.WriteFileWithRetry(opening.FEN, doc)
}

// CleanupOrphans deletes output files that no current opening maps to.
// Deletions and per-file errors are reported separately.
func (g *Generator) CleanupOrphans() (*models.CleanupResult, error) {
	result := &models.CleanupResult{}

	openings, err := g.AllOpenings()
	if err != nil {
		return nil, fmt.Errorf("failed to list openings: %w", err)
	}
	expected := make(map[string]bool, len(openings))
	for _, o := range openings {
		expected[g.Filename(o.FEN)] = true
	}

	entries, err := os.ReadDir(g.cfg.SnapshotDir)
	if os.IsNotExist(err) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || expected[name] {
			continue
		}
		if err := os.Remove(filepath.Join(g.cfg.SnapshotDir, name)); err != nil {
			result.Errors.Add(models.ErrorTransient, name, err.Error())
			continue
		}
		result.Deleted = append(result.Deleted, name)
	}

	g.logger.Info("snapshot cleanup finished",
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// ValidateAll parses every expected snapshot and checks it belongs to its
// opening. Findings cover missing files, corrupt JSON, and id mismatches.
func (g *Generator) ValidateAll() ([]string, error) {
	openings, err := g.AllOpenings()
	if err != nil {
		return nil, fmt.Errorf("failed to list openings: %w", err)
	}

	var findings []string
	for _, o := range openings {
		path := filepath.Join(g.cfg.SnapshotDir, g.Filename(o.FEN))
		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			findings = append(findings, fmt.Sprintf("%s: missing snapshot (%v)", o.FEN, err))
			continue
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			findings = append(findings, fmt.Sprintf("%s: corrupt snapshot (%v)", o.FEN, err))
			continue
		}
		if doc.Opening.ID != o.FEN {
			findings = append(findings, fmt.Sprintf("%s: snapshot belongs to %s", o.FEN, doc.Opening.ID))
		}
		if doc.Metadata.TotalVideos != len(doc.Videos) {
			findings = append(findings, fmt.Sprintf("%s: video count mismatch", o.FEN))
		}
	}
	return findings, nil
}
