// ABOUTME: Opening-video relationship persistence for the SQLite store
// ABOUTME: Upsert semantics: the relationship table is rebuilt when either side changes
package sqlite

import "github.com/Freddiekinns/chess-opening-explorer/internal/models"

// UpsertRelationship inserts or refreshes one relationship row.
func (s *Store) UpsertRelationship(r *models.Relationship) error {
	_, err := s.conn.Exec(`
		INSERT INTO opening_videos (opening_fen, video_id, match_score)
		VALUES (?, ?, ?)
		ON CONFLICT(opening_fen, video_id) DO UPDATE SET match_score = excluded.match_score
	`, r.OpeningFEN, r.VideoID, r.MatchScore)
	return err
}

// ClearRelationships deletes all relationship rows.
func (s *Store) ClearRelationships() error {
	_, err := s.conn.Exec(`DELETE FROM opening_videos`)
	return err
}
