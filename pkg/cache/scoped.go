package cache

// ScopedKeyer wraps a Keyer with a prefix for isolation between tenants or
// deployments sharing one cache backend.
//
// Example usage:
//
//	// Keys for one API tenant
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ScriptKey generates a prefixed key for script results.
func (k *ScopedKeyer) ScriptKey(scriptHash, baseGraphHash string) string {
	return k.prefix + k.inner.ScriptKey(scriptHash, baseGraphHash)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
