package schema

// WrapRoot wraps inner inside a single-field Object{field: inner}, used
// when Config.WrapRoot is set (spec §3.3). The wrapper becomes the
// document's literal root, which infer.Infer always excludes from map
// candidacy (§4.5 step 4) — that exclusion is what makes wrap_root
// useful: it shifts what would otherwise be an excluded root one level
// down, into an ordinary, promotable property.
func WrapRoot(inner *Node, field string) *Node {
	wrapper := NewObject()
	wrapper.ObservedCount = 1
	wrapper.Properties.Set(field, inner)
	wrapper.KeyCounts[field] = 1
	wrapper.Required[field] = true
	return wrapper
}
