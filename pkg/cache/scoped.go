package cache

// ScopedKeyer wraps a Keyer with a prefix for tenant isolation: a shared
// Redis deployment can keep per-study or per-user namespaces apart.
//
// Example usage:
//
//	// Study-specific keys
//	studyKeyer := NewScopedKeyer(NewDefaultKeyer(), "study:CDISCPILOT01:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose keys all carry the given prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for upstream lineage graph caching.
func (k *ScopedKeyer) GraphKey(dataset, variable string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(dataset, variable, opts)
}

// LayoutKey generates a prefixed key for routed layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}
