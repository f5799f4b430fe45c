// ABOUTME: SQLite schema for the opening explorer store
// ABOUTME: Three logical tables: openings, videos, and their relationships
package sqlite

import "fmt"

// Schema contains all SQL statements for database initialization
const Schema = `
-- Openings table, keyed by normalized FEN position string
CREATE TABLE IF NOT EXISTS openings (
    fen TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    eco TEXT,
    aliases TEXT DEFAULT '[]',
    src TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Videos table, keyed by external video id
CREATE TABLE IF NOT EXISTS videos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    channel_id TEXT NOT NULL,
    channel_title TEXT NOT NULL,
    duration INTEGER DEFAULT 0 CHECK (duration >= 0),
    view_count INTEGER DEFAULT 0 CHECK (view_count >= 0),
    published_at DATETIME,
    thumbnail_url TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Opening-video relationships with an opaque match score
CREATE TABLE IF NOT EXISTS opening_videos (
    opening_fen TEXT NOT NULL REFERENCES openings(fen) ON DELETE CASCADE,
    video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
    match_score REAL DEFAULT 0,
    PRIMARY KEY (opening_fen, video_id)
);

CREATE INDEX IF NOT EXISTS idx_openings_eco ON openings(eco);
CREATE INDEX IF NOT EXISTS idx_opening_videos_video ON opening_videos(video_id);
CREATE INDEX IF NOT EXISTS idx_opening_videos_score ON opening_videos(opening_fen, match_score DESC);
`

// InitSchema creates all tables and indexes if they do not exist.
func (s *Store) InitSchema() error {
	if _, err := s.conn.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema removes all pipeline tables. Used by migration rollback.
func (s *Store) DropSchema() error {
	_, err := s.conn.Exec(`
		DROP TABLE IF EXISTS opening_videos;
		DROP TABLE IF EXISTS videos;
		DROP TABLE IF EXISTS openings;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
