// ABOUTME: Opening catalog loading and normalization for the Migrator
// ABOUTME: Missing FENs mean the standard starting position, never rejection
package migrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Freddiekinns/chess-opening-explorer/internal/chess"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
	"github.com/Freddiekinns/chess-opening-explorer/internal/storage"
)

// catalogFiles are the five per-classification catalogs, one per ECO volume.
var catalogFiles = []string{"ecoA.json", "ecoB.json", "ecoC.json", "ecoD.json", "ecoE.json"}

// catalogEntry is one raw catalog record. Entries are keyed by FEN in the
// file, but some also (or only) carry the position in a field.
type catalogEntry struct {
	FEN     string           `json:"fen"`
	Name    string           `json:"name"`
	Eco     string           `json:"eco"`
	Moves   string           `json:"moves"`
	Aliases models.AliasList `json:"aliases"`
	Src     string           `json:"src"`
}

// normalize resolves the effective opening record for a catalog entry. An
// absent position string resolves to the standard starting position rather
// than being rejected.
func (c catalogEntry) normalize(key string) models.Opening {
	fen := c.FEN
	if fen == "" {
		fen = key
	}
	if fen == "" {
		fen = chess.StartingFEN
	}

	aliases := []string(c.Aliases)
	if aliases == nil {
		aliases = []string{}
	}

	return models.Opening{
		FEN:     fen,
		Name:    c.Name,
		Eco:     c.Eco,
		Aliases: aliases,
		Src:     c.Src,
	}
}

// MigrateOpeningCatalog loads every catalog file and inserts each normalized
// opening. Returns stage stats, collected per-record errors, and a fatal
// error only if no catalog could be read at all.
func (m *Migrator) MigrateOpeningCatalog(gw storage.Gateway) (models.StageStats, models.ErrorList, error) {
	var (
		stats    models.StageStats
		errs     models.ErrorList
		readable int
	)

	for _, name := range catalogFiles {
		path := filepath.Join(m.cfg.CatalogDir, name)
		entries, err := loadCatalogFile(path)
		if err != nil {
			errs.Add(models.ErrorStructural, name, err.Error())
			continue
		}
		readable++

		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			entry := entries[key]
			opening := entry.normalize(key)
			stats.Processed++

			if opening.Name == "" {
				stats.Failed++
				errs.Add(models.ErrorValidation, opening.FEN, "opening has no name")
				continue
			}

			inserted, err := gw.InsertOpening(&opening)
			switch {
			case err != nil:
				stats.Failed++
				errs.Add(models.ErrorTransient, opening.FEN, err.Error())
			case inserted:
				stats.Migrated++
			default:
				stats.Skipped++
			}
		}

		m.logger.Debug("catalog file migrated", zap.String("file", name), zap.Int("entries", len(entries)))
	}

	if readable == 0 {
		return stats, errs, fmt.Errorf("no catalog file could be read from %s", m.cfg.CatalogDir)
	}
	return stats, errs, nil
}

func loadCatalogFile(path string) (map[string]catalogEntry, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var entries map[string]catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unparsable JSON: %w", err)
	}
	return entries, nil
}
