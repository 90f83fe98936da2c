// Package store persists dictionary runs so that successive corpus
// passes can be compared without re-parsing their output files.
package store

import (
	"context"
	"time"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
)

// Run records one dictionary-building pass.
type Run struct {
	// ID is a ULID assigned when the pass starts.
	ID        string
	Direction string
	Articles  int64
	StartedAt time.Time
}

// Store is the interface for persisting and querying dictionary runs.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)

	// SaveEntries stores the finalized dictionary of a run, replacing
	// any entries previously stored under the same run.
	SaveEntries(ctx context.Context, runID string, entries []aggregate.Entry) error

	// GetEntries returns a run's dictionary sorted by source token,
	// targets in rank order.
	GetEntries(ctx context.Context, runID string) ([]aggregate.Entry, error)

	// GetEntry returns one source token's entry.
	GetEntry(ctx context.Context, runID, source string) (aggregate.Entry, bool, error)
}
