// ABOUTME: Video persistence operations for the SQLite store
// ABOUTME: Includes the score-filtered ranked query used by snapshot generation
package sqlite

import (
	"database/sql"
	"time"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// InsertVideo inserts one video. A duplicate id returns (false, nil).
func (s *Store) InsertVideo(v *models.Video) (bool, error) {
	var published interface{}
	if !v.PublishedAt.IsZero() {
		published = v.PublishedAt
	}

	res, err := s.conn.Exec(`
		INSERT INTO videos (id, title, channel_id, channel_title, duration, view_count, published_at, thumbnail_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, v.ID, v.Title, v.ChannelID, v.ChannelTitle, v.Duration, v.ViewCount, published, v.ThumbnailURL)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// VideosForOpening returns up to limit videos linked to the opening with a
// match score at or above minScore, highest score first.
func (s *Store) VideosForOpening(fen string, limit int, minScore float64) ([]models.RankedVideo, error) {
	rows, err := s.conn.Query(`
		SELECT v.id, v.title, v.channel_id, v.channel_title, v.duration, v.view_count,
		       v.published_at, v.thumbnail_url, ov.match_score
		FROM videos v
		JOIN opening_videos ov ON ov.video_id = v.id
		WHERE ov.opening_fen = ? AND ov.match_score >= ?
		ORDER BY ov.match_score DESC, v.view_count DESC
		LIMIT ?
	`, fen, minScore, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.RankedVideo
	for rows.Next() {
		var (
			rv        models.RankedVideo
			published sql.NullTime
			thumb     sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.Title, &rv.ChannelID, &rv.ChannelTitle,
			&rv.Duration, &rv.ViewCount, &published, &thumb, &rv.MatchScore); err != nil {
			return nil, err
		}
		if published.Valid {
			rv.PublishedAt = published.Time.UTC()
		} else {
			rv.PublishedAt = time.Time{}
		}
		if thumb.Valid {
			rv.ThumbnailURL = thumb.String
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ClearVideos deletes all videos (cascades to relationships).
func (s *Store) ClearVideos() error {
	_, err := s.conn.Exec(`DELETE FROM videos`)
	return err
}
