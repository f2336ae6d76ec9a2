package cache

// Keyer derives cache keys. Keys are namespaced by stage so a layout and
// the artifacts rendered from it never collide.
type Keyer interface {
	// LayoutKey identifies the layout of a source under the given tuning.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists everything besides the source that changes a layout.
type LayoutKeyOpts struct {
	Workspace string `json:"workspace,omitempty"`
	// Tuning is hashed through its JSON encoding, typically a layout.Options.
	Tuning any `json:"tuning,omitempty"`
}

// ArtifactKeyOpts lists everything besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Theme     string `json:"theme,omitempty"`
	ThemeHash string `json:"theme_hash,omitempty"` // content hash of a theme file
	Detailed  bool   `json:"detailed,omitempty"`
	IDPrefix  string `json:"id_prefix,omitempty"`
	LayoutKey string `json:"layout_key"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sourceHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sourceHash, opts)
}
