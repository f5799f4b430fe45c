// ABOUTME: Legacy Extractor reads the two legacy video caches and merges them
// ABOUTME: File-level failures are collected per source, never fatal to a sibling
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

const (
	// PrimaryCacheFile holds the flat per-classification video results.
	PrimaryCacheFile = "channel_first_results.json"
	// EnrichmentCacheFile holds per-video enrichment keyed by video id,
	// mixed with bookkeeping keys such as "lastUpdated" and "version".
	EnrichmentCacheFile = "video_enrichment_cache.json"
)

// KnownLegacyFiles lists every legacy source the pipelines read, used by
// the integrator when it assembles a pre-run backup.
func KnownLegacyFiles() []string {
	return []string{PrimaryCacheFile, EnrichmentCacheFile}
}

// Extractor reads legacy JSON exports from one directory.
type Extractor struct {
	legacyDir string
	logger    *zap.Logger
}

// New creates an Extractor rooted at legacyDir.
func New(legacyDir string, logger *zap.Logger) *Extractor {
	return &Extractor{legacyDir: legacyDir, logger: logger}
}

// PrimaryResult is the output of the per-classification cache.
type PrimaryResult struct {
	Videos   []models.Video
	Mappings []models.EcoMapping
	Errors   models.ErrorList
}

// EnrichmentResult is the output of the per-video enrichment cache.
type EnrichmentResult struct {
	Videos []models.Video
	Errors models.ErrorList
}

// MergeResult combines both caches, de-duplicated by video id.
type MergeResult struct {
	Videos   []models.Video
	Mappings []models.EcoMapping
	Errors   models.ErrorList
}

// PrimaryCache extracts the flat per-classification result cache. A missing
// or unparsable file yields an empty result with a structural error entry.
func (e *Extractor) PrimaryCache() *PrimaryResult {
	result := &PrimaryResult{}

	path := filepath.Join(e.legacyDir, PrimaryCacheFile)
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		result.Errors.Add(models.ErrorStructural, PrimaryCacheFile, err.Error())
		return result
	}

	var byEco map[string][]rawVideo
	if err := json.Unmarshal(data, &byEco); err != nil {
		result.Errors.Add(models.ErrorStructural, PrimaryCacheFile, fmt.Sprintf("unparsable JSON: %v", err))
		return result
	}

	ecos := make([]string, 0, len(byEco))
	for eco := range byEco {
		ecos = append(ecos, eco)
	}
	sort.Strings(ecos)

	for _, eco := range ecos {
		for _, raw := range byEco[eco] {
			v := raw.toVideo()
			if v.ID == "" {
				result.Errors.Add(models.ErrorValidation, eco, "entry has no video identifier")
				continue
			}
			result.Videos = append(result.Videos, v)
			result.Mappings = append(result.Mappings, models.EcoMapping{
				Eco:        eco,
				VideoID:    v.ID,
				MatchScore: raw.MatchScore,
			})
		}
	}

	e.logger.Info("extracted primary cache",
		zap.Int("videos", len(result.Videos)),
		zap.Int("mappings", len(result.Mappings)),
		zap.Int("errors", len(result.Errors)))
	return result
}

// EnrichmentCache extracts the per-video enrichment cache. Entries are
// selected strictly by shape: a candidate must be a JSON object carrying a
// non-empty video identifier. Bookkeeping keys are skipped regardless of name.
func (e *Extractor) EnrichmentCache() *EnrichmentResult {
	result := &EnrichmentResult{}

	path := filepath.Join(e.legacyDir, EnrichmentCacheFile)
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		result.Errors.Add(models.ErrorStructural, EnrichmentCacheFile, err.Error())
		return result
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		result.Errors.Add(models.ErrorStructural, EnrichmentCacheFile, fmt.Sprintf("unparsable JSON: %v", err))
		return result
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw, ok := decodeCandidate(entries[key])
		if !ok {
			continue // bookkeeping value, not a record
		}
		v := raw.toVideo()
		if v.ID == "" {
			// The map key is the video id when the entry itself omits it.
			v.ID = key
		}
		result.Videos = append(result.Videos, v)
	}

	e.logger.Info("extracted enrichment cache",
		zap.Int("videos", len(result.Videos)),
		zap.Int("errors", len(result.Errors)))
	return result
}

// Merge combines both caches into one id-keyed set, preferring enrichment
// detail when a video appears in both sources.
func (e *Extractor) Merge() *MergeResult {
	primary := e.PrimaryCache()
	enriched := e.EnrichmentCache()

	byID := make(map[string]models.Video, len(primary.Videos)+len(enriched.Videos))
	for _, v := range primary.Videos {
		byID[v.ID] = v
	}
	for _, v := range enriched.Videos {
		byID[v.ID] = v
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := &MergeResult{Mappings: primary.Mappings}
	for _, id := range ids {
		result.Videos = append(result.Videos, byID[id])
	}
	result.Errors = append(result.Errors, primary.Errors...)
	result.Errors = append(result.Errors, enriched.Errors...)

	return result
}

// DecodeLegacyVideo parses one legacy video object with the same field-drift
// tolerance the cache extractors use, returning the normalized record and
// the collector-assigned match score.
func DecodeLegacyVideo(data []byte) (models.Video, float64, error) {
	var raw rawVideo
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Video{}, 0, err
	}
	return raw.toVideo(), raw.MatchScore, nil
}

// decodeCandidate accepts a value only if it is a JSON object with a video
// identifier, tolerating schema drift in the surrounding bookkeeping keys.
func decodeCandidate(data json.RawMessage) (rawVideo, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return rawVideo{}, false
	}
	var raw rawVideo
	if err := json.Unmarshal(data, &raw); err != nil {
		return rawVideo{}, false
	}
	if raw.id() == "" && raw.Title == "" {
		return rawVideo{}, false
	}
	return raw, true
}

// rawVideo tolerates the field spellings both legacy exporters used.
type rawVideo struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	Duration     flexInt64 `json:"duration"`
	ViewCount    flexInt64 `json:"viewCount"`
	Views        flexInt64 `json:"views"`
	MatchScore   float64   `json:"matchScore"`
	PublishedAt  string    `json:"publishedAt"`
	Thumbnail    string    `json:"thumbnail"`
}

func (r rawVideo) id() string {
	if r.VideoID != "" {
		return r.VideoID
	}
	return r.ID
}

func (r rawVideo) toVideo() models.Video {
	views := int64(r.ViewCount)
	if views == 0 {
		views = int64(r.Views)
	}

	v := models.Video{
		ID:           r.id(),
		Title:        r.Title,
		ChannelID:    r.ChannelID,
		ChannelTitle: r.ChannelTitle,
		Duration:     int64(r.Duration),
		ViewCount:    views,
		ThumbnailURL: r.Thumbnail,
	}
	if r.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.PublishedAt); err == nil {
			v.PublishedAt = ts.UTC()
		}
	}
	return v
}

// flexInt64 accepts both JSON numbers and numeric strings, which the legacy
// exporters emitted inconsistently.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt64(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var parsed int64
	if _, err := fmt.Sscanf(s, "%d", &parsed); err != nil {
		*f = 0
		return nil
	}
	*f = flexInt64(parsed)
	return nil
}
