package cache

// ScopedKeyer wraps a Keyer with a prefix, giving every user of a shared
// backend its own namespace.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "bandfill:v1:")
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

func (k *ScopedKeyer) DocumentKey(templateHash, dataHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(templateHash, dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}
