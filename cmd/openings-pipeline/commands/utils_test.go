// ABOUTME: Tests for shared command setup helpers
// ABOUTME: Verifies store opening initializes the schema on fresh files

package commands

import (
	"path/filepath"
	"testing"

	"github.com/Freddiekinns/chess-opening-explorer/internal/config"
	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

func TestOpenGateway_InitializesSchemaOnFreshStore(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "openings.db")}

	gw, err := openGateway(cfg)
	if err != nil {
		t.Fatalf("openGateway() error = %v", err)
	}
	defer func() { _ = gw.Close() }()

	// Counts queries all three tables; without the schema it fails with
	// "no such table".
	counts, err := gw.Counts()
	if err != nil {
		t.Fatalf("Counts() on a fresh store error = %v", err)
	}
	if counts != (models.TableCounts{}) {
		t.Errorf("Counts() = %+v, want empty tables", counts)
	}
}

func TestOpenGateway_IdempotentOnExistingStore(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "openings.db")}

	first, err := openGateway(cfg)
	if err != nil {
		t.Fatalf("openGateway() error = %v", err)
	}
	if _, err := first.InsertOpening(&models.Opening{
		FEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Name: "Starting Position", Eco: "A00", Aliases: []string{},
	}); err != nil {
		t.Fatalf("InsertOpening() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := openGateway(cfg)
	if err != nil {
		t.Fatalf("reopen openGateway() error = %v", err)
	}
	defer func() { _ = second.Close() }()

	counts, err := second.Counts()
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts.Openings != 1 {
		t.Errorf("Openings = %d, want existing row preserved", counts.Openings)
	}
}
