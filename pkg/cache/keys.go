package cache

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey identifies a built tree by source kind and input fingerprint.
	TreeKey(kind, fingerprint string) string

	// ArtifactKey identifies a rendered artifact of the tree whose
	// snapshot hashes to treeHash.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Labels bool   `json:"labels"`
}

// DefaultKeyer produces "tree:<digest>" and "artifact:<digest>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(kind, fingerprint string) string {
	return hashKey("tree", kind, fingerprint)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
