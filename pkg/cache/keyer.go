package cache

// Keyer derives cache keys from the inputs that determine a value.
type Keyer interface {
	// LayoutKey identifies a packed layout. Layouts depend only on the
	// source dimensions and packing parameters, never on pixels.
	LayoutKey(opts LayoutKeyOpts) string

	// ArtifactKey identifies an encoded atlas rendered from the source
	// with the given content hash onto the layout with the given hash.
	ArtifactKey(sourceHash, layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input of pyramid.Pack.
type LayoutKeyOpts struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Ratio     float64 `json:"ratio"`
	MinDim    int     `json:"min_dim"`
	Padding   int     `json:"padding"`
	Alignment int     `json:"alignment"`
	Border    int     `json:"border"`
}

// ArtifactKeyOpts holds the render inputs that change the output bytes.
type ArtifactKeyOpts struct {
	Filter      string `json:"filter"`
	Background  string `json:"background"`
	Format      string `json:"format"`
	JPEGQuality int    `json:"jpeg_quality,omitempty"`
	FastPNG     bool   `json:"fast_png,omitempty"`
}

// DefaultKeyer produces "kind:sha256(inputs)" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sourceHash, layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, layoutHash, opts)
}
