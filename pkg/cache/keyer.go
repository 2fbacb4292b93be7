package cache

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey names the filled document of a template and a dataset.
	DocumentKey(templateHash, dataHash string, opts DocumentKeyOpts) string

	// ArtifactKey names a rendering of a filled document.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts are the fill settings that change the pages.
type DocumentKeyOpts struct {
	// Version of the fill engine; bump to invalidate every document.
	Version string `json:"version"`
}

// ArtifactKeyOpts are the render settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	FontSize float64 `json:"font_size,omitempty"`
	Outlines bool    `json:"outlines,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DocumentKey(templateHash, dataHash string, opts DocumentKeyOpts) string {
	return hashKey("document", templateHash, dataHash, opts)
}

func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", documentHash, opts)
}
