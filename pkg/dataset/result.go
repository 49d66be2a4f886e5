package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidSessions is returned when no input file could contribute a
	// session: the list was empty or every file failed.
	ErrNoValidSessions = errors.New("no valid sessions")

	// ErrMissingColumn is returned when a session table lacks one of the
	// columns the pipeline reads.
	ErrMissingColumn = errors.New("required column missing")
)

// Status classifies what happened to one input file.
type Status int

const (
	// StatusOK means the file contributed rows to the dataset.
	StatusOK Status = iota

	// StatusEmpty means the file parsed but no rows survived the pipeline:
	// everything was turning, or the row filter took the rest. Not an
	// error.
	StatusEmpty

	// StatusSkipped means the file was skipped before reading, e.g. an
	// incremental run found it unchanged.
	StatusSkipped

	// StatusFailed means the file could not be used; Err holds the cause.
	StatusFailed
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// FileResult records the outcome of one input file.
type FileResult struct {
	// Path is the input path as given.
	Path string

	// SessionID is the session tag derived from the file name.
	SessionID string

	// Status indicates what happened to the file.
	Status Status

	// Rows is the number of rows the file contributed.
	Rows int

	// Filtered counts rows the row filter dropped, eval errors included.
	Filtered int

	// Err holds the failure cause (StatusFailed only).
	Err error
}

// BatchResult collects per-file outcomes for one build, in input order.
type BatchResult struct {
	Results []FileResult

	OKCount      int
	EmptyCount   int
	SkippedCount int
	FailedCount  int
}

// NewBatchResult creates a BatchResult with the given capacity.
func NewBatchResult(capacity int) *BatchResult {
	return &BatchResult{
		Results: make([]FileResult, 0, capacity),
	}
}

// Add appends a file result and bumps its status counter.
func (b *BatchResult) Add(r FileResult) {
	b.Results = append(b.Results, r)
	switch r.Status {
	case StatusOK:
		b.OKCount++
	case StatusEmpty:
		b.EmptyCount++
	case StatusSkipped:
		b.SkippedCount++
	case StatusFailed:
		b.FailedCount++
	}
}

// Total returns the number of input files seen.
func (b *BatchResult) Total() int {
	return len(b.Results)
}

// RowTotal returns the number of rows contributed across all files.
func (b *BatchResult) RowTotal() int {
	n := 0
	for _, r := range b.Results {
		n += r.Rows
	}
	return n
}

// AllFailed reports whether every file failed. Skipped and empty files are
// not failures.
func (b *BatchResult) AllFailed() bool {
	return b.Total() > 0 && b.FailedCount == b.Total()
}
