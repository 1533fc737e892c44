package cache

// ScopedKeyer prefixes every key of an inner Keyer. The API server scopes
// keys per deployment so several instances can share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tscproj:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TransformKey returns the prefixed transform key.
func (k *ScopedKeyer) TransformKey(docHash string, opts TransformKeyOpts) string {
	return k.prefix + k.inner.TransformKey(docHash, opts)
}

// ReportKey returns the prefixed report key.
func (k *ScopedKeyer) ReportKey(docHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(docHash, opts)
}
