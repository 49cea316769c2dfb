package cache

// ScopedKeyer prefixes every key another Keyer derives. The CLI scopes all
// keys with [KeyVersion]; tests scope theirs to stay apart from real
// entries in a shared backend.
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.KeyVersion)
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k ScopedKeyer) FontKey(source string) string {
	return k.prefix + k.inner.FontKey(source)
}

func (k ScopedKeyer) GlyphsKey(fontHash string, opts GlyphsKeyOpts) string {
	return k.prefix + k.inner.GlyphsKey(fontHash, opts)
}

func (k ScopedKeyer) ArtifactKey(fontHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(fontHash, opts)
}

var _ Keyer = ScopedKeyer{}
