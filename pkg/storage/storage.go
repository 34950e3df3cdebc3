// Package storage persists named snapshots of string-keyed graphs.
//
// A [Snapshot] captures a graph in interchange form together with a name
// and a UUID assigned at creation. Backends implement [Store]:
//
//   - [MemoryStore]: in-process, for tests and a single API server
//   - [FileStore]: one JSON file per snapshot, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// Stores return [ErrNotFound] for unknown IDs so callers can map the
// condition to a 404 or a friendly CLI message.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a named, immutable copy of a graph.
type Snapshot struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Graph     graph.Graph `json:"graph"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSnapshot creates a snapshot of g with a fresh random ID.
func NewSnapshot(name string, g graph.Graph) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		Name:      name,
		Graph:     g,
		CreatedAt: time.Now().UTC(),
	}
}

// Summary describes a snapshot without its graph.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the listing form of s.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:        s.ID,
		Name:      s.Name,
		Nodes:     len(s.Graph.Nodes),
		Edges:     len(s.Graph.Edges),
		CreatedAt: s.CreatedAt,
	}
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores s, replacing any snapshot with the same ID.
	Save(ctx context.Context, s *Snapshot) error

	// Get returns the snapshot with the given ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)

	// List returns summaries of all snapshots, oldest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the snapshot with the given ID, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// Close releases resources held by the store.
	Close() error
}
