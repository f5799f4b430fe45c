// ABOUTME: Progress events emitted once per processed batch
// ABOUTME: Sink interface decouples pipelines from any one callback signature
package models

// ProgressEvent describes the state of a run after one batch, including
// batches in which every record failed.
type ProgressEvent struct {
	Stage     string  `json:"stage"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	LastItem  string  `json:"last_item"`
}

// ProgressSink receives progress events from a pipeline run.
type ProgressSink interface {
	Publish(ProgressEvent)
}

// ProgressFunc adapts a plain function to the ProgressSink interface.
type ProgressFunc func(ProgressEvent)

// Publish calls f.
func (f ProgressFunc) Publish(e ProgressEvent) { f(e) }

// NopProgress discards all events.
var NopProgress ProgressSink = ProgressFunc(func(ProgressEvent) {})
