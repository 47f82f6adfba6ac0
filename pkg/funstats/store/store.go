package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store keeps the history of pipeline runs. The snapshot file on disk only
// ever holds the latest run; the store is an append-only ledger next to it.
type Store interface {
	Close() error

	RecordRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	// Runs lists runs newest first, without their per-document rows.
	Runs(ctx context.Context, limit int) ([]Run, error)
	// DocumentHistory lists the recorded analyses of one document, newest first.
	DocumentHistory(ctx context.Context, name string, limit int) ([]DocumentRecord, error)
}

// Run is one recorded pipeline execution.
type Run struct {
	ID              string
	GeneratedAt     time.Time
	DocumentCount   int
	TotalWordCount  int
	LongestDocument string
	Documents       []DocumentRecord
	Snapshot        []byte // JSON encoded snapshot
}

// DocumentRecord is the per-document summary stored with a run.
type DocumentRecord struct {
	RunID       string
	Name        string
	Size        int64
	AlphaTokens int
	Degraded    bool
}

// DefaultLimit caps listings when the caller passes a non-positive limit.
const DefaultLimit = 20

// IDs issues lexicographically sortable run IDs.
type IDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDs creates an ID source seeded from crypto/rand.
func NewIDs() *IDs {
	return &IDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a ULID for a run generated at t.
func (g *IDs) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}
