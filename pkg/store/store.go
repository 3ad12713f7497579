// Package store persists analyze snapshots.
//
// A snapshot captures one complete analyze run: the query, the lineage
// graph that came back, and the layout computed from it. Two backends are
// provided: [MemoryStore] for tests and single-process servers, and
// [MongoStore] for deployments that need snapshots to survive restarts.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/1mgroot/Tracil-sub000/pkg/errors"
	"github.com/1mgroot/Tracil-sub000/pkg/layout"
	"github.com/1mgroot/Tracil-sub000/pkg/lineage"
)

// Snapshot is one persisted analyze run.
type Snapshot struct {
	ID        string         `json:"id" bson:"_id"`
	Dataset   string         `json:"dataset" bson:"dataset"`
	Variable  string         `json:"variable" bson:"variable"`
	Summary   string         `json:"summary,omitempty" bson:"summary,omitempty"`
	Graph     lineage.Graph  `json:"graph" bson:"graph"`
	Layout    *layout.Layout `json:"layout,omitempty" bson:"layout,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// NewSnapshot stamps a snapshot with a fresh id and creation time.
// The summary is lifted from the graph so listings can show it without
// loading the full document.
func NewSnapshot(dataset, variable string, g lineage.Graph, l *layout.Layout) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		Variable:  variable,
		Summary:   g.Summary,
		Graph:     g,
		Layout:    l,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for snapshot storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot, replacing any existing one with the same id.
	Save(ctx context.Context, s Snapshot) error

	// Get retrieves a snapshot by id.
	// Returns a SNAPSHOT_NOT_FOUND error when the id is unknown.
	Get(ctx context.Context, id string) (Snapshot, error)

	// List returns snapshots newest first. A limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Delete removes a snapshot.
	// Returns a SNAPSHOT_NOT_FOUND error when the id is unknown.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NotFound builds the standard snapshot-not-found error.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s not found", id)
}

// WriteSnapshotFile writes a snapshot as indented JSON. The file uses the
// same document shape the HTTP API returns, so it can be re-read later or
// imported into a store.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotFile reads a snapshot previously written by
// [WriteSnapshotFile].
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
