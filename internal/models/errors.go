// ABOUTME: Structured error entries collected by pipeline runs
// ABOUTME: Per-record failures are recorded, not thrown, so runs report partial failure
package models

import "fmt"

// ErrorKind classifies a collected error entry.
type ErrorKind string

const (
	// ErrorValidation marks a malformed or incomplete record; the record is skipped.
	ErrorValidation ErrorKind = "validation"
	// ErrorTransient marks an I/O failure that exhausted its retries.
	ErrorTransient ErrorKind = "transient"
	// ErrorStructural marks a missing or unparsable source file.
	ErrorStructural ErrorKind = "structural"
	// ErrorFatal marks a failed migration step that triggered rollback.
	ErrorFatal ErrorKind = "fatal"
)

// MaxCollectedErrors bounds the error list carried on a result so a
// pathological corpus cannot balloon the run report.
const MaxCollectedErrors = 100

// ErrorEntry is one collected failure with enough context to act on.
type ErrorEntry struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Context string    `json:"context" yaml:"context"`
	Message string    `json:"message" yaml:"message"`
}

func (e ErrorEntry) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Context, e.Message)
}

// ErrorList is a bounded collection of error entries.
type ErrorList []ErrorEntry

// Add appends an entry unless the bound has been reached.
func (l *ErrorList) Add(kind ErrorKind, context, message string) {
	if len(*l) >= MaxCollectedErrors {
		return
	}
	*l = append(*l, ErrorEntry{Kind: kind, Context: context, Message: message})
}

// Strings renders every entry for direct display or logging.
func (l ErrorList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, e := range l {
		out = append(out, e.String())
	}
	return out
}
