// ABOUTME: Checkpoint records integration progress between stages
// ABOUTME: Kept in memory; only persisted when a caller explicitly saves it
package models

import "time"

// Checkpoint marks how far an integration run progressed. Stages listed in
// CompletedStages are skipped when the run is resumed.
type Checkpoint struct {
	Stage           string    `json:"stage"`
	CompletedStages []string  `json:"completed_stages"`
	Processed       int       `json:"processed"`
	Errors          ErrorList `json:"errors,omitempty"`
	StartedAt       time.Time `json:"started_at"`
}

// Completed reports whether the named stage already ran to completion.
func (c *Checkpoint) Completed(stage string) bool {
	for _, s := range c.CompletedStages {
		if s == stage {
			return true
		}
	}
	return false
}

// MarkCompleted records a finished stage.
func (c *Checkpoint) MarkCompleted(stage string) {
	if !c.Completed(stage) {
		c.CompletedStages = append(c.CompletedStages, stage)
	}
}
