// ABOUTME: Tests for snapshot document assembly, generation, and maintenance
// ABOUTME: Uses in-memory stores and temp output dirs; no store writes
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/chess"
	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage/sqlite"
)

const sicilianFEN = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SnapshotDir:         filepath.Join(t.TempDir(), "snapshots"),
		BatchSize:           500,
		MaxRetries:          1,
		RetryBaseDelay:      time.Millisecond,
		RetryMultiplier:     2.0,
		MaxVideosPerOpening: 10,
		MinMatchScore:       0.7,
		SnapshotChunkSize:   100,
	}
}

// newSeededStore holds two openings; the starting position has one video
// above the score gate and one below, the Sicilian has none.
func newSeededStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	openings := []models.Opening{
		{FEN: chess.StartingFEN, Name: "Starting Position", Eco: "A00", Aliases: []string{"Initial Setup"}},
		{FEN: sicilianFEN, Name: "Sicilian Defense", Eco: "B20", Aliases: []string{}},
	}
	for i := range openings {
		if _, err := store.InsertOpening(&openings[i]); err != nil {
			t.Fatalf("InsertOpening() error = %v", err)
		}
	}

	videos := []models.Video{
		{ID: "vidGood", Title: "Starting Position Explained", ChannelID: "chan1",
			ChannelTitle: "Chess Channel", Duration: 600, ViewCount: 5000,
			PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "vidWeak", Title: "Unrelated Stream", ChannelID: "chan1",
			ChannelTitle: "Chess Channel", Duration: 7200, ViewCount: 100},
	}
	for i := range videos {
		if _, err := store.InsertVideo(&videos[i]); err != nil {
			t.Fatalf("InsertVideo() error = %v", err)
		}
	}

	rels := []models.Relationship{
		{OpeningFEN: chess.StartingFEN, VideoID: "vidGood", MatchScore: 0.9},
		{OpeningFEN: chess.StartingFEN, VideoID: "vidWeak", MatchScore: 0.5},
	}
	for i := range rels {
		if err := store.UpsertRelationship(&rels[i]); err != nil {
			t.Fatalf("UpsertRelationship() error = %v", err)
		}
	}
	return store
}

func newTestGenerator(t *testing.T) (*Generator, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	gen := New(cfg, newSeededStore(t), zap.NewNop())
	return gen, cfg
}

func readSnapshot(t *testing.T, cfg *config.Config, fen string) *Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(fen)))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return &doc
}

func TestBuildDocument_AssemblesOpeningAndVideos(t *testing.T) {
	gen, _ := newTestGenerator(t)
	gen.SetClock(func() time.Time {
		return time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	})

	opening := &models.Opening{
		FEN: chess.StartingFEN, Name: "Starting Position", Eco: "A00",
		Aliases: []string{"Initial Setup"},
	}
	videos := []models.RankedVideo{{
		Video: models.Video{
			ID: "vidGood", Title: "Starting Position Explained",
			ChannelTitle: "Chess Channel", Duration: 600, ViewCount: 5000,
			PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		MatchScore: 0.9,
	}}

	doc := gen.BuildDocument(opening, videos)

	if doc.Opening.ID != chess.StartingFEN {
		t.Errorf("Opening.ID = %q, want the FEN key", doc.Opening.ID)
	}
	if doc.Opening.Classification != "A00" {
		t.Errorf("Classification = %q, want A00", doc.Opening.Classification)
	}
	if doc.Metadata.TotalVideos != 1 || len(doc.Videos) != 1 {
		t.Fatalf("TotalVideos = %d with %d videos, want 1 and 1", doc.Metadata.TotalVideos, len(doc.Videos))
	}
	v := doc.Videos[0]
	if v.URL != "https://www.youtube.com/watch?v=vidGood" {
		t.Errorf("URL = %q", v.URL)
	}
	if v.Score != 0.9 {
		t.Errorf("Score = %v, want 0.9", v.Score)
	}
	if v.Published != "2024-03-01T12:00:00Z" {
		t.Errorf("Published = %q", v.Published)
	}
	if doc.Metadata.GeneratedAt != "2025-06-15T08:30:00Z" {
		t.Errorf("GeneratedAt = %q", doc.Metadata.GeneratedAt)
	}
	if len(doc.Metadata.CacheVersion) != 12 {
		t.Errorf("CacheVersion = %q, want 12 hex chars", doc.Metadata.CacheVersion)
	}
}

func TestBuildDocument_NilAliasesBecomeEmptySlice(t *testing.T) {
	gen, _ := newTestGenerator(t)

	doc := gen.BuildDocument(&models.Opening{FEN: sicilianFEN, Name: "Sicilian Defense", Eco: "B20"}, nil)

	if doc.Opening.Aliases == nil {
		t.Error("Aliases should serialize as an empty array, not null")
	}
	if len(doc.Videos) != 0 || doc.Metadata.TotalVideos != 0 {
		t.Error("no videos should yield an empty list and zero count")
	}
}

func TestCacheVersion_StableWithinDay(t *testing.T) {
	day := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	laterSameDay := time.Date(2025, 6, 15, 22, 45, 0, 0, time.UTC)

	a := CacheVersion(chess.StartingFEN, []string{"vidB", "vidA"}, day)
	b := CacheVersion(chess.StartingFEN, []string{"vidA", "vidB"}, laterSameDay)
	if a != b {
		t.Errorf("same video set on the same day should hash equal: %q vs %q", a, b)
	}
}

func TestCacheVersion_ChangesWithVideoSetAndDay(t *testing.T) {
	day := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	base := CacheVersion(chess.StartingFEN, []string{"vidA"}, day)
	if got := CacheVersion(chess.StartingFEN, []string{"vidA", "vidB"}, day); got == base {
		t.Error("adding a video should change the cache version")
	}
	if got := CacheVersion(chess.StartingFEN, []string{"vidA"}, day.AddDate(0, 0, 1)); got == base {
		t.Error("crossing a day boundary should change the cache version")
	}
	if got := CacheVersion(sicilianFEN, []string{"vidA"}, day); got == base {
		t.Error("a different opening should hash differently")
	}
}

func TestGenerateAll_WritesQualityGatedSnapshots(t *testing.T) {
	gen, cfg := newTestGenerator(t)

	result, err := gen.GenerateAll()
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if !result.Success || result.Generated != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 2 generated, 0 failed", result)
	}

	doc := readSnapshot(t, cfg, chess.StartingFEN)
	if len(doc.Videos) != 1 {
		t.Fatalf("snapshot has %d videos, want 1 (score gate at %v)", len(doc.Videos), cfg.MinMatchScore)
	}
	if doc.Videos[0].ID != "vidGood" {
		t.Errorf("kept video = %q, want the one above the gate", doc.Videos[0].ID)
	}

	empty := readSnapshot(t, cfg, sicilianFEN)
	if len(empty.Videos) != 0 {
		t.Errorf("Sicilian snapshot has %d videos, want 0", len(empty.Videos))
	}
}

func TestGenerateAll_PublishesProgressPerChunk(t *testing.T) {
	gen, _ := newTestGenerator(t)
	gen.cfg.SnapshotChunkSize = 1

	var events []models.ProgressEvent
	gen.SetProgressSink(models.ProgressFunc(func(e models.ProgressEvent) {
		events = append(events, e)
	}))

	if _, err := gen.GenerateAll(); err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d progress events, want one per chunk = 2", len(events))
	}
	last := events[len(events)-1]
	if last.Processed != 2 || last.Percent != 100 {
		t.Errorf("final event = %+v, want processed 2 at 100%%", last)
	}
}

func TestGenerateAll_AllErrorChunksStillReportProgress(t *testing.T) {
	gen, cfg := newTestGenerator(t)
	gen.cfg.SnapshotChunkSize = 1

	// A regular file where the output directory should be makes every
	// write fail without touching the store.
	if err := os.WriteFile(cfg.SnapshotDir, []byte("blocker"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var events []models.ProgressEvent
	gen.SetProgressSink(models.ProgressFunc(func(e models.ProgressEvent) {
		events = append(events, e)
	}))

	result, err := gen.GenerateAll()
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if result.Success || result.Failed != 2 || result.Generated != 0 {
		t.Fatalf("result = %+v, want 2 failures and no successes", result)
	}
	if len(result.Errors) != 2 {
		t.Errorf("collected %d errors, want 2", len(result.Errors))
	}
	if len(events) != 2 {
		t.Errorf("got %d progress events, want 2 even when every record fails", len(events))
	}
}

func TestGenerateAll_DurationUsesInjectedClock(t *testing.T) {
	gen, _ := newTestGenerator(t)
	gen.SetClock(func() time.Time {
		return time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	})

	result, err := gen.GenerateAll()
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if result.Duration != 0 {
		t.Errorf("Duration = %v, want 0 with a frozen clock", result.Duration)
	}
}

func TestUpdate_RegeneratesNamedOpeningsOnly(t *testing.T) {
	gen, cfg := newTestGenerator(t)

	result, err := gen.Update([]string{sicilianFEN})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !result.Success || result.Generated != 1 {
		t.Fatalf("result = %+v, want exactly 1 generated", result)
	}

	if _, err := os.Stat(filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(sicilianFEN))); err != nil {
		t.Errorf("named opening's snapshot missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(chess.StartingFEN))); !os.IsNotExist(err) {
		t.Error("unnamed opening should not have been regenerated")
	}
}

func TestUpdate_UnknownOpeningIsAValidationFailure(t *testing.T) {
	gen, _ := newTestGenerator(t)

	result, err := gen.Update([]string{"8/8/8/8/8/8/8/8 w - - 0 1"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.Success || result.Failed != 1 {
		t.Fatalf("result = %+v, want 1 failure", result)
	}
	if result.Errors[0].Kind != models.ErrorValidation {
		t.Errorf("error kind = %q, want validation", result.Errors[0].Kind)
	}
}

func TestCleanupOrphans_DeletesOnlyUnexpectedFiles(t *testing.T) {
	gen, cfg := newTestGenerator(t)

	if _, err := gen.GenerateAll(); err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	orphan := filepath.Join(cfg.SnapshotDir, "deleted-opening-deadbeef.json")
	if err := os.WriteFile(orphan, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	keepMe := filepath.Join(cfg.SnapshotDir, "README.txt")
	if err := os.WriteFile(keepMe, []byte("notes"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	result, err := gen.CleanupOrphans()
	if err != nil {
		t.Fatalf("CleanupOrphans() error = %v", err)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != "deleted-opening-deadbeef.json" {
		t.Fatalf("Deleted = %v, want only the orphan", result.Deleted)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Error("orphan file still present")
	}
	if _, err := os.Stat(keepMe); err != nil {
		t.Error("non-json file should be ignored by cleanup")
	}
	if _, err := os.Stat(filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(chess.StartingFEN))); err != nil {
		t.Error("live snapshot should survive cleanup")
	}
}

func TestCleanupOrphans_MissingDirectoryIsNotAnError(t *testing.T) {
	gen, _ := newTestGenerator(t)

	result, err := gen.CleanupOrphans()
	if err != nil {
		t.Fatalf("CleanupOrphans() error = %v", err)
	}
	if len(result.Deleted) != 0 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want nothing to do", result)
	}
}

func TestValidateAll_FlagsMissingCorruptAndMismatched(t *testing.T) {
	gen, cfg := newTestGenerator(t)

	if _, err := gen.GenerateAll(); err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}

	findings, err := gen.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll() error = %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("clean directory produced findings: %v", findings)
	}

	// Corrupt one snapshot and delete the other.
	sicilianPath := filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(sicilianFEN))
	if err := os.WriteFile(sicilianPath, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	startPath := filepath.Join(cfg.SnapshotDir, chess.SnapshotFilename(chess.StartingFEN))
	if err := os.Remove(startPath); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	findings, err = gen.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll() error = %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want one missing and one corrupt", findings)
	}
}
