package infer

import "github.com/vigata/genson/schema"

// unifyMapValues implements §4.5 step 3. Scalars and arrays fold
// through the ordinary associative merge; distinct record (Object,
// non-map) *shapes* are tracked separately and only collapsed into one
// another — via the same pairwise Object⊕Object merge §4.3 defines —
// when record unification is permitted. Without permission, more than
// one distinct shape rejects the candidacy outright, matching the
// "--no-unify must preserve strict behaviour" design note.
func unifyMapValues(values []*schema.Node, cfg Config, forced bool) (value *schema.Node, fromRecordUnification bool, ok bool) {
	allowUnify := forced || (cfg.UnifyMaps && !cfg.NoUnify)

	var shapes []*schema.Node
	acc := schema.Unknown()
	for _, v := range values {
		objs, rest := splitObjects(v)
		for _, o := range objs {
			shapes = append(shapes, addShape(shapes, o)...)
		}
		acc = schema.Merge(acc, rest)
	}
	shapes = dedupeShapes(shapes)

	switch len(shapes) {
	case 0:
		// no object-valued keys at all
	case 1:
		acc = schema.Merge(acc, shapes[0])
	default:
		if !allowUnify {
			return nil, false, false
		}
		merged := shapes[0]
		for _, s := range shapes[1:] {
			merged = schema.Merge(merged, s)
		}
		if merged.Kind == schema.KindObject && !merged.IsMap {
			if _, exists := merged.Properties.Get(schema.DiscriminatorKey); exists {
				// A real field named __key__ would collide with the
				// discriminator the projector/normaliser would insert;
				// reject promotion outright rather than shadow it.
				return nil, false, false
			}
		}
		acc = schema.Merge(acc, merged)
		fromRecordUnification = true
	}

	if acc.Kind == schema.KindUnion {
		// Scalar/array/object alternatives that remain distinct after
		// the fold above are genuinely incompatible kinds.
		return nil, false, false
	}
	return acc, fromRecordUnification, true
}

// splitObjects separates any Object (non-map) alternatives out of v,
// returning them alongside whatever remains (merged back into a single
// node, possibly Unknown or a Union of non-object alternatives).
func splitObjects(v *schema.Node) (objs []*schema.Node, rest *schema.Node) {
	switch {
	case v == nil:
		return nil, schema.Unknown()
	case v.Kind == schema.KindObject && !v.IsMap:
		return []*schema.Node{v}, schema.Unknown()
	case v.Kind == schema.KindUnion:
		var restAlts []*schema.Node
		for _, alt := range v.Alternatives {
			if alt.Kind == schema.KindObject && !alt.IsMap {
				objs = append(objs, alt)
			} else {
				restAlts = append(restAlts, alt)
			}
		}
		return objs, schema.NewUnion(restAlts)
	default:
		return nil, v
	}
}

func addShape(existing []*schema.Node, candidate *schema.Node) []*schema.Node {
	for _, e := range existing {
		if schema.Equal(e, candidate) {
			return nil
		}
	}
	return []*schema.Node{candidate}
}

func dedupeShapes(shapes []*schema.Node) []*schema.Node {
	var out []*schema.Node
	for _, s := range shapes {
		dup := false
		for _, seen := range out {
			if schema.Equal(s, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
