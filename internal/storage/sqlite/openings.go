// ABOUTME: Opening persistence operations for the SQLite store
// ABOUTME: Duplicate FEN inserts are reported, not treated as failures
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// InsertOpening inserts one opening. A duplicate FEN returns (false, nil)
// so migration re-runs count it as skipped rather than failed.
func (s *Store) InsertOpening(o *models.Opening) (bool, error) {
	aliases, err := json.Marshal(o.Aliases)
	if err != nil {
		return false, fmt.Errorf("failed to encode aliases: %w", err)
	}

	res, err := s.conn.Exec(`
		INSERT INTO openings (fen, name, eco, aliases, src)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fen) DO NOTHING
	`, o.FEN, o.Name, o.Eco, string(aliases), o.Src)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetOpening retrieves one opening by its FEN key, or nil if absent.
func (s *Store) GetOpening(fen string) (*models.Opening, error) {
	var (
		o       models.Opening
		aliases string
		src     sql.NullString
	)
	err := s.conn.QueryRow(`
		SELECT fen, name, eco, aliases, src FROM openings WHERE fen = ?
	`, fen).Scan(&o.FEN, &o.Name, &o.Eco, &aliases, &src)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(aliases), &o.Aliases); err != nil {
		return nil, fmt.Errorf("failed to decode aliases for %s: %w", fen, err)
	}
	if src.Valid {
		o.Src = src.String
	}
	return &o, nil
}

// ListOpenings returns all openings ordered by FEN for deterministic output.
func (s *Store) ListOpenings() ([]models.Opening, error) {
	rows, err := s.conn.Query(`SELECT fen, name, eco, aliases, src FROM openings ORDER BY fen`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanOpenings(rows)
}

// OpeningsByClassification returns all openings sharing one ECO code.
func (s *Store) OpeningsByClassification(eco string) ([]models.Opening, error) {
	rows, err := s.conn.Query(`
		SELECT fen, name, eco, aliases, src FROM openings WHERE eco = ? ORDER BY fen
	`, eco)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanOpenings(rows)
}

// ClearOpenings deletes all openings (cascades to relationships).
func (s *Store) ClearOpenings() error {
	_, err := s.conn.Exec(`DELETE FROM openings`)
	return err
}

func scanOpenings(rows *sql.Rows) ([]models.Opening, error) {
	var out []models.Opening
	for rows.Next() {
		var (
			o       models.Opening
			aliases string
			src     sql.NullString
		)
		if err := rows.Scan(&o.FEN, &o.Name, &o.Eco, &aliases, &src); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aliases), &o.Aliases); err != nil {
			return nil, fmt.Errorf("failed to decode aliases for %s: %w", o.FEN, err)
		}
		if src.Valid {
			o.Src = src.String
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
