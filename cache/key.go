package cache

// Key identifies a cache entry by (namespace, identifier, optional
// sub-key). Keys are stored as structured tuples, never as concatenated
// strings, so an identifier that happens to contain a separator cannot
// collide with a key in another namespace.
//
// An empty Sub IS the no-sub-key form: a caller that sometimes passes
// "" and sometimes omits the sub-key addresses the same entry.
type Key struct {
	Namespace string
	ID        string
	Sub       string
}

// NewKey derives the key for (namespace, identifier) with no sub-key.
// Pure and deterministic: equal arguments always yield equal keys.
// Sanitizing identifiers (e.g. stripping separators out of emails) is
// the caller's job, not the deriver's.
func NewKey(namespace, identifier string) Key {
	return Key{Namespace: namespace, ID: identifier}
}

// WithSub returns a copy of k narrowed by a sub-key, such as a
// normalized filter expression for a listing query.
func (k Key) WithSub(sub string) Key {
	k.Sub = sub
	return k
}

// String renders the composite namespace_identifier[_subKey] form used
// in stats, logs and the debug endpoint. Display only; lookups always
// go through the tuple.
func (k Key) String() string {
	if k.Sub == "" {
		return k.Namespace + "_" + k.ID
	}
	return k.Namespace + "_" + k.ID + "_" + k.Sub
}
