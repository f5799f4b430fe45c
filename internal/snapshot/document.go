// ABOUTME: Static snapshot document assembly and cache versioning
// ABOUTME: The cache version changes only with content or a day boundary
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// Document is the denormalized per-opening response served statically.
type Document struct {
	Opening  OpeningDoc `json:"opening"`
	Videos   []VideoDoc `json:"videos"`
	Metadata Metadata   `json:"metadata"`
}

// OpeningDoc is the opening's public shape.
type OpeningDoc struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Classification string   `json:"classification"`
	Aliases        []string `json:"aliases"`
}

// VideoDoc is one embedded video entry.
type VideoDoc struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Channel   string  `json:"channel"`
	Duration  int64   `json:"duration"`
	Views     int64   `json:"views"`
	Published string  `json:"published,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	URL       string  `json:"url"`
	Score     float64 `json:"score"`
}

// Metadata carries counts and the cache-invalidation signal.
type Metadata struct {
	TotalVideos  int    `json:"total_videos"`
	GeneratedAt  string `json:"generated_at"`
	CacheVersion string `json:"cache_version"`
}

// BuildDocument assembles the response document for one opening. Videos are
// expected pre-filtered and score-sorted by the store query.
func (g *Generator) BuildDocument(opening *models.Opening, videos []models.RankedVideo) *Document {
	now := g.clock()

	docs := make([]VideoDoc, 0, len(videos))
	ids := make([]string, 0, len(videos))
	for _, rv := range videos {
		published := ""
		if !rv.PublishedAt.IsZero() {
			published = rv.PublishedAt.Format(time.RFC3339)
		}
		docs = append(docs, VideoDoc{
			ID:        rv.ID,
			Title:     rv.Title,
			Channel:   rv.ChannelTitle,
			Duration:  rv.Duration,
			Views:     rv.ViewCount,
			Published: published,
			Thumbnail: rv.ThumbnailURL,
			URL:       rv.URL(),
			Score:     rv.MatchScore,
		})
		ids = append(ids, rv.ID)
	}

	aliases := opening.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	return &Document{
		Opening: OpeningDoc{
			ID:             opening.FEN,
			Name:           opening.Name,
			Classification: opening.Eco,
			Aliases:        aliases,
		},
		Videos: docs,
		Metadata: Metadata{
			TotalVideos:  len(docs),
			GeneratedAt:  now.Format(time.RFC3339),
			CacheVersion: CacheVersion(opening.FEN, ids, now),
		},
	}
}

// CacheVersion hashes the opening id, the sorted set of included video ids,
// and a day-granularity timestamp: downstream caches get a cheap changed
// signal without diffing whole documents.
func CacheVersion(openingID string, videoIDs []string, at time.Time) string {
	sorted := make([]string, len(videoIDs))
	copy(sorted, videoIDs)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(openingID))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(sorted, ",")))
	h.Write([]byte{'|'})
	h.Write([]byte(at.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))[:12]
}
