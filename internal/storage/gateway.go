// ABOUTME: Gateway is the typed interface to the embedded relational store
// ABOUTME: Pipelines receive a Gateway (or factory) so tests can inject an in-memory store
package storage

import "github.com/Freddiekinns/chess-opening-explorer/internal/models"

// Gateway exposes the insert/query primitives and integrity validation the
// pipelines depend on. Insert methods report duplicate keys as
// (false, nil) because re-running migration over migrated data is expected.
type Gateway interface {
	InitSchema() error
	DropSchema() error

	InsertOpening(o *models.Opening) (bool, error)
	InsertVideo(v *models.Video) (bool, error)
	UpsertRelationship(r *models.Relationship) error

	GetOpening(fen string) (*models.Opening, error)
	ListOpenings() ([]models.Opening, error)
	OpeningsByClassification(eco string) ([]models.Opening, error)
	VideosForOpening(fen string, limit int, minScore float64) ([]models.RankedVideo, error)

	Counts() (models.TableCounts, error)
	ValidateIntegrity() ([]string, error)

	ClearOpenings() error
	ClearVideos() error
	ClearRelationships() error

	Path() string
	Close() error
}

// Factory opens a Gateway on demand, letting a pipeline defer the store
// connection until after pre-flight work such as backups.
type Factory func() (Gateway, error)
