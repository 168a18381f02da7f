package cache

// Keyer derives cache keys from content hashes and the options that
// influence the cached value.
type Keyer interface {
	// LayoutKey identifies the compiled layout of a source.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists what changes a layout besides the source text.
type LayoutKeyOpts struct {
	Engine     string `json:"engine"`
	Direction  string `json:"direction,omitempty"`
	ConfigHash string `json:"config_hash,omitempty"` // Hash of sizing and layout settings
}

// ArtifactKeyOpts lists what changes a rendered artifact besides the layout.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Scale     float64 `json:"scale,omitempty"`
	Quality   int     `json:"quality,omitempty"`
	ThemeHash string  `json:"theme_hash,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys of the form
// "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sourceHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
