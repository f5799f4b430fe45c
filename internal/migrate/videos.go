// ABOUTME: Batched migration of legacy per-position video files
// ABOUTME: Fixed-size batches bound peak memory; one bad record never aborts a batch
package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/chess"
	"github.com/Freddiekinns/chess-opening-explorer/internal/extract"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
)

// MigrateVideoData walks the legacy per-position video files in fixed-size
// batches, inserting each valid video and its opening relationship. Records
// are validated and committed independently; only a directory-level failure
// is fatal to the step.
func (m *Migrator) MigrateVideoData(gw storage.Gateway) (models.StageStats, models.StageStats, models.ErrorList, error) {
	var (
		videoStats models.StageStats
		relStats   models.StageStats
		errs       models.ErrorList
	)

	files, err := listVideoFiles(m.videoDir())
	if err != nil {
		return videoStats, relStats, errs, fmt.Errorf("failed to list legacy video files: %w", err)
	}

	total := len(files)
	for offset := 0; offset < total; offset += m.cfg.BatchSize {
		end := offset + m.cfg.BatchSize
		if end > total {
			end = total
		}
		batch := files[offset:end]
		lastItem := ""

		for _, name := range batch {
			lastItem = name
			fen, err := chess.DecodeVideoFilename(name)
			if err != nil {
				errs.Add(models.ErrorStructural, name, err.Error())
				continue
			}
			m.migrateVideoFile(gw, name, fen, &videoStats, &relStats, &errs)
		}

		// Progress is the only externally observable signal; publish it
		// even when every record in the batch failed.
		m.progress.Publish(models.ProgressEvent{
			Stage:     "migrate_videos",
			Processed: end,
			Total:     total,
			Percent:   float64(end) / float64(total) * 100,
			LastItem:  lastItem,
		})
	}

	m.logger.Info("video migration finished",
		zap.Int("files", total),
		zap.Int("videos", videoStats.Migrated),
		zap.Int("skipped", videoStats.Skipped),
		zap.Int("failed", videoStats.Failed))
	return videoStats, relStats, errs, nil
}

// migrateVideoFile loads one per-position file and commits its records.
func (m *Migrator) migrateVideoFile(gw storage.Gateway, name, fen string,
	videoStats, relStats *models.StageStats, errs *models.ErrorList) {

	path := filepath.Join(m.videoDir(), name)
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		errs.Add(models.ErrorStructural, name, err.Error())
		return
	}

	var records []legacyVideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		errs.Add(models.ErrorStructural, name, fmt.Sprintf("unparsable JSON: %v", err))
		return
	}

	for _, rec := range records {
		videoStats.Processed++
		video := rec.Video

		if err := video.Validate(); err != nil {
			videoStats.Failed++
			errs.Add(models.ErrorValidation, video.ID, err.Error())
			continue
		}

		var inserted bool
		err := m.retry.Do(func() error {
			var insErr error
			inserted, insErr = gw.InsertVideo(&video)
			return insErr
		})
		switch {
		case err != nil:
			videoStats.Failed++
			errs.Add(models.ErrorTransient, video.ID, err.Error())
			continue
		case inserted:
			videoStats.Migrated++
		default:
			videoStats.Skipped++
		}

		relStats.Processed++
		rel := &models.Relationship{OpeningFEN: fen, VideoID: video.ID, MatchScore: rec.MatchScore}
		if err := gw.UpsertRelationship(rel); err != nil {
			relStats.Failed++
			errs.Add(models.ErrorTransient, fen+"/"+video.ID, err.Error())
			continue
		}
		relStats.Migrated++
	}
}

// legacyVideoRecord is one entry of a per-position file: the video fields
// plus the match score assigned by the collector.
type legacyVideoRecord struct {
	models.Video
	MatchScore float64 `json:"matchScore"`
}

// UnmarshalJSON reuses the extractor's drift-tolerant decoding so both
// legacy corpora parse identically.
func (r *legacyVideoRecord) UnmarshalJSON(data []byte) error {
	video, score, err := extract.DecodeLegacyVideo(data)
	if err != nil {
		return err
	}
	r.Video = video
	r.MatchScore = score
	return nil
}

func listVideoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}
