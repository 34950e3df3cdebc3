package cache

// Keyer derives cache keys.
type Keyer interface {
	// ScriptKey is the key of the graph produced by applying a script
	// (identified by its content hash) to a base graph.
	ScriptKey(scriptHash, baseGraphHash string) string

	// ArtifactKey is the key of a rendered artifact of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Detailed  bool     `json:"detailed"`
	Highlight []string `json:"highlight,omitempty"`
	Scale     float64  `json:"scale,omitempty"` // PNG only
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ScriptKey implements Keyer.
func (DefaultKeyer) ScriptKey(scriptHash, baseGraphHash string) string {
	return hashKey("script", scriptHash, baseGraphHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
