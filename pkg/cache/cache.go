package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLs per cached class. Upstream graphs go stale when the inference backend
// improves; layouts and artifacts are pure functions of their inputs and
// expire only to bound storage.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLHTTP     = time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts captures everything besides the query itself that changes an
// upstream lineage result.
type GraphKeyOpts struct {
	// Source is the upstream base URL; results from different backends must
	// not collide.
	Source string
}

// LayoutKeyOpts captures the placement inputs beyond the graph hash.
type LayoutKeyOpts struct {
	Strategy string
	Width    float64
}

// ArtifactKeyOpts captures the render inputs beyond the layout hash.
// GraphHash covers graph content the layout does not: the JSON artifact
// embeds the summary and gaps, and the DOT artifact is built from the raw
// edge list.
type ArtifactKeyOpts struct {
	Format     string
	GraphHash  string
	EdgeLabels bool
	Compact    bool
}

// Keyer derives cache keys per cached class. Keys embed every input that
// affects the cached value, so a stale entry can never be served for
// different options.
type Keyer interface {
	// GraphKey keys an upstream lineage graph by query and options.
	GraphKey(dataset, variable string, opts GraphKeyOpts) string
	// LayoutKey keys a routed layout by sanitized-graph hash and options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by layout hash and options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	// HTTPKey keys a raw HTTP response by namespace and request key.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer hashes the query and option structs into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for upstream lineage graph caching.
func (k *DefaultKeyer) GraphKey(dataset, variable string, opts GraphKeyOpts) string {
	return hashKey("graph", dataset, variable, opts)
}

// LayoutKey generates a key for routed layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
