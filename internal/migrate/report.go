// ABOUTME: YAML report export for migration audit results
// ABOUTME: Written next to the store so operators can diff successive runs
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Freddiekinns/chess-opening-explorer/internal/models"
)

// reportDocument wraps a result with generation metadata.
type reportDocument struct {
	GeneratedAt string                  `yaml:"generated_at"`
	Tool        string                  `yaml:"tool"`
	Result      *models.MigrationResult `yaml:"result"`
}

// WriteReport writes the run result to a YAML file for auditing.
func WriteReport(path string, result *models.MigrationResult) error {
	doc := reportDocument{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Tool:        "openings-pipeline",
		Result:      result,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return encoder.Close()
}
