// ABOUTME: Integrator merges new legacy exports into an already-migrated store
// ABOUTME: Videos insert with retry; progress is published per batch and stage
package integrate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/extract"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
	"github.com/Freddiekinns/chess-opening-explorer/internal/util"
)

// Stage names recorded in checkpoints.
const (
	StageMerge         = "merge_video_data"
	StageInsertVideos  = "insert_videos"
	StageRelationships = "create_relationships"
)

// Integrator is the incremental-merge entry point. Unlike the Migrator it
// assumes the store schema exists and is already populated with openings.
type Integrator struct {
	cfg       *config.Config
	gw        storage.Gateway
	extractor *extract.Extractor
	logger    *zap.Logger
	progress  models.ProgressSink
	retry     util.RetryPolicy
}

// New creates an Integrator bound to an open store gateway.
func New(cfg *config.Config, gw storage.Gateway, logger *zap.Logger) *Integrator {
	return &Integrator{
		cfg:       cfg,
		gw:        gw,
		extractor: extract.New(cfg.LegacyDir, logger),
		logger:    logger,
		progress:  models.NopProgress,
		retry: util.RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Multiplier:  cfg.RetryMultiplier,
		},
	}
}

// SetProgressSink replaces the progress sink (default discards events).
func (i *Integrator) SetProgressSink(sink models.ProgressSink) {
	if sink != nil {
		i.progress = sink
	}
}

// ExtractChannelFirstResults reads the flat per-classification cache.
func (i *Integrator) ExtractChannelFirstResults() *extract.PrimaryResult {
	return i.extractor.PrimaryCache()
}

// ExtractEnrichmentCache reads the per-video enrichment cache.
func (i *Integrator) ExtractEnrichmentCache() *extract.EnrichmentResult {
	return i.extractor.EnrichmentCache()
}

// MergeVideoData combines both caches de-duplicated by video id.
func (i *Integrator) MergeVideoData() *extract.MergeResult {
	return i.extractor.Merge()
}

// InsertVideos inserts merged videos with per-record retry. Duplicates are
// counted as skipped; a record that exhausts its retries is annotated with
// operation, record id, and timestamp.
func (i *Integrator) InsertVideos(videos []models.Video) (models.StageStats, models.ErrorList) {
	var (
		stats models.StageStats
		errs  models.ErrorList
	)

	total := len(videos)
	for n, video := range videos {
		stats.Processed++

		if err := video.Validate(); err != nil {
			stats.Failed++
			errs.Add(models.ErrorValidation, video.ID, err.Error())
		} else {
			inserted, err := i.insertVideoWithRetry(&video)
			switch {
			case err != nil:
				stats.Failed++
				errs.Add(models.ErrorTransient, video.ID, err.Error())
			case inserted:
				stats.Migrated++
			default:
				stats.Skipped++
			}
		}

		if (n+1)%i.cfg.BatchSize == 0 || n+1 == total {
			i.progress.Publish(models.ProgressEvent{
				Stage:     StageInsertVideos,
				Processed: n + 1,
				Total:     total,
				Percent:   float64(n+1) / float64(total) * 100,
				LastItem:  video.ID,
			})
		}
	}

	return stats, errs
}

// insertVideoWithRetry wraps a single insert with the configured backoff.
func (i *Integrator) insertVideoWithRetry(v *models.Video) (bool, error) {
	var inserted bool
	err := i.retry.Do(func() error {
		var insErr error
		inserted, insErr = i.gw.InsertVideo(v)
		return insErr
	})
	if err != nil {
		return false, util.AnnotateFailure("insert_video", v.ID, err)
	}
	return inserted, nil
}

// CreateRelationships upserts resolved opening-video relationships.
func (i *Integrator) CreateRelationships(rels []models.Relationship) (models.StageStats, models.ErrorList) {
	var (
		stats models.StageStats
		errs  models.ErrorList
	)

	total := len(rels)
	for n, rel := range rels {
		stats.Processed++
		if err := i.gw.UpsertRelationship(&rel); err != nil {
			stats.Failed++
			errs.Add(models.ErrorTransient, rel.OpeningFEN+"/"+rel.VideoID, err.Error())
		} else {
			stats.Migrated++
		}

		if (n+1)%i.cfg.BatchSize == 0 || n+1 == total {
			i.progress.Publish(models.ProgressEvent{
				Stage:     StageRelationships,
				Processed: n + 1,
				Total:     total,
				Percent:   float64(n+1) / float64(total) * 100,
				LastItem:  rel.VideoID,
			})
		}
	}

	return stats, errs
}

// Run executes the complete integration sequence.
func (i *Integrator) Run() (*models.IntegrationResult, error) {
	return i.run(&models.Checkpoint{StartedAt: time.Now()})
}

// ResumeFromCheckpoint re-runs the integration, skipping stages the
// checkpoint records as completed. Extraction is a pure transformation, so
// re-running it to rebuild in-memory inputs is safe.
func (i *Integrator) ResumeFromCheckpoint(cp *models.Checkpoint) (*models.IntegrationResult, error) {
	if cp == nil {
		return nil, fmt.Errorf("nil checkpoint")
	}
	return i.run(cp)
}

func (i *Integrator) run(cp *models.Checkpoint) (*models.IntegrationResult, error) {
	start := time.Now()
	result := &models.IntegrationResult{RunID: uuid.NewString()}
	result.Errors = append(result.Errors, cp.Errors...)

	cp.Stage = StageMerge
	merged := i.MergeVideoData()
	result.Errors = append(result.Errors, merged.Errors...)
	if len(merged.Videos) == 0 && len(merged.Mappings) == 0 && len(merged.Errors) > 0 {
		// Both sources failed structurally: nothing to integrate.
		result.Duration = time.Since(start)
		return result, nil
	}
	cp.MarkCompleted(StageMerge)

	if !cp.Completed(StageInsertVideos) {
		cp.Stage = StageInsertVideos
		stats, errs := i.InsertVideos(merged.Videos)
		result.Videos = stats
		result.Errors = append(result.Errors, errs...)
		cp.Processed += stats.Processed
		cp.MarkCompleted(StageInsertVideos)
	} else {
		i.logger.Info("skipping completed stage", zap.String("stage", StageInsertVideos))
	}

	if !cp.Completed(StageRelationships) {
		cp.Stage = StageRelationships
		videosByID := make(map[string]models.Video, len(merged.Videos))
		for _, v := range merged.Videos {
			videosByID[v.ID] = v
		}
		rels, errs := i.ConvertEcoToFenMappings(merged.Mappings, videosByID)
		result.Errors = append(result.Errors, errs...)

		stats, errs := i.CreateRelationships(rels)
		result.Relationships = stats
		result.Errors = append(result.Errors, errs...)
		cp.Processed += stats.Processed
		cp.MarkCompleted(StageRelationships)
	} else {
		i.logger.Info("skipping completed stage", zap.String("stage", StageRelationships))
	}

	result.Success = true
	result.Duration = time.Since(start)
	i.logger.Info("integration complete",
		zap.String("run_id", result.RunID),
		zap.Int("videos", result.Videos.Migrated),
		zap.Int("relationships", result.Relationships.Migrated),
		zap.Duration("duration", result.Duration))
	return result, nil
}
