// ABOUTME: Integrity validation and row counts for the SQLite store
// ABOUTME: Findings are human-readable strings suitable for run reports
package sqlite

import (
	"fmt"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// Counts returns current row counts for all three tables.
func (s *Store) Counts() (models.TableCounts, error) {
	var c models.TableCounts
	row := s.conn.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM openings),
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM opening_videos)
	`)
	if err := row.Scan(&c.Openings, &c.Videos, &c.Relationships); err != nil {
		return c, fmt.Errorf("failed to count tables: %w", err)
	}
	return c, nil
}

// ValidateIntegrity checks referential and field-level invariants and
// returns a finding per violation. An empty slice means the store is clean.
func (s *Store) ValidateIntegrity() ([]string, error) {
	var findings []string

	checks := []struct {
		query   string
		finding string
	}{
		{
			`SELECT COUNT(*) FROM opening_videos ov
			 LEFT JOIN openings o ON o.fen = ov.opening_fen WHERE o.fen IS NULL`,
			"%d relationships reference a missing opening",
		},
		{
			`SELECT COUNT(*) FROM opening_videos ov
			 LEFT JOIN videos v ON v.id = ov.video_id WHERE v.id IS NULL`,
			"%d relationships reference a missing video",
		},
		{
			`SELECT COUNT(*) FROM openings WHERE name = '' OR fen = ''`,
			"%d openings have an empty name or FEN",
		},
		{
			`SELECT COUNT(*) FROM videos
			 WHERE title = '' OR channel_id = '' OR channel_title = ''`,
			"%d videos are missing required fields",
		},
		{
			`SELECT COUNT(*) FROM videos WHERE duration < 0 OR view_count < 0`,
			"%d videos have negative duration or view count",
		},
	}

	for _, check := range checks {
		var n int
		if err := s.conn.QueryRow(check.query).Scan(&n); err != nil {
			return nil, fmt.Errorf("integrity query failed: %w", err)
		}
		if n > 0 {
			findings = append(findings, fmt.Sprintf(check.finding, n))
		}
	}

	return findings, nil
}
