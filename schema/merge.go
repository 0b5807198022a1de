package schema

// Merge combines two schema nodes into one. It is total, associative
// and commutative, and Merge(Unknown, x) == x (spec §4.3). Operands are
// never mutated; the result may be, or share sub-nodes with, an operand.
func Merge(a, b *Node) *Node {
	if a == nil {
		a = Unknown()
	}
	if b == nil {
		b = Unknown()
	}
	if a.Kind == KindUnknown {
		return b
	}
	if b.Kind == KindUnknown {
		return a
	}
	if a.Kind == KindUnion || b.Kind == KindUnion {
		return buildFromPieces(append(flatten(a), flatten(b)...))
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindArray:
			return &Node{
				Kind:         KindArray,
				Items:        Merge(a.Items, b.Items),
				NonEmptySeen: a.NonEmptySeen || b.NonEmptySeen,
			}
		case KindObject:
			return mergeObjects(a, b)
		default:
			// same scalar kind
			return Scalar(a.Kind)
		}
	}
	if isNumericPair(a.Kind, b.Kind) {
		return Scalar(KindNumber)
	}
	return buildFromPieces([]*Node{a, b})
}

// MergeAll left-folds Merge over nodes, starting from Unknown.
func MergeAll(nodes ...*Node) *Node {
	acc := Unknown()
	for _, n := range nodes {
		acc = Merge(acc, n)
	}
	return acc
}

// NewUnion builds a canonical Union (or its collapse to a single
// alternative / Unknown) from a set of already-inferred alternatives,
// re-running the same flatten/merge/dedupe/sort rules Merge uses for
// the anyOf case. Used by the inference pass after rewriting a Union's
// alternatives bottom-up.
func NewUnion(alts []*Node) *Node {
	var pieces []*Node
	for _, a := range alts {
		pieces = append(pieces, flatten(a)...)
	}
	return buildFromPieces(pieces)
}

func isNumericPair(a, b Kind) bool {
	return (a == KindInteger && b == KindNumber) || (a == KindNumber && b == KindInteger)
}

func mergeObjects(a, b *Node) *Node {
	if a.IsMap || b.IsMap {
		if a.IsMap && b.IsMap {
			return &Node{
				Kind:       KindObject,
				IsMap:      true,
				MapValues:  Merge(a.MapValues, b.MapValues),
				MapUnified: a.MapUnified || b.MapUnified,
			}
		}
		// A map wrapper and a plain record cannot be merged field-wise;
		// the two shapes are structurally incompatible evidence.
		return buildFromPieces([]*Node{a, b})
	}
	return mergeObjectRecords(a, b)
}

// mergeObjectRecords implements the Object ⊕ Object case of §4.3.
func mergeObjectRecords(a, b *Node) *Node {
	result := NewObject()
	result.ObservedCount = a.ObservedCount + b.ObservedCount

	for _, k := range a.Properties.Keys() {
		av, _ := a.Properties.Get(k)
		if bv, ok := b.Properties.Get(k); ok {
			result.Properties.Set(k, Merge(av, bv))
		} else {
			result.Properties.Set(k, av)
		}
	}
	for _, k := range b.Properties.Keys() {
		if _, exists := result.Properties.Get(k); exists {
			continue
		}
		bv, _ := b.Properties.Get(k)
		result.Properties.Set(k, bv)
	}

	for _, k := range result.Properties.Keys() {
		result.KeyCounts[k] = a.KeyCounts[k] + b.KeyCounts[k]
	}
	for _, k := range result.Properties.Keys() {
		if result.KeyCounts[k] == result.ObservedCount {
			result.Required[k] = true
		}
	}
	return result
}

// flatten expands a Union into its alternatives (already flat, by
// invariant); any other node becomes a single-element slice.
func flatten(n *Node) []*Node {
	if n.Kind == KindUnion {
		return n.Alternatives
	}
	return []*Node{n}
}

// buildFromPieces accumulates a flat list of candidate alternatives,
// merging structurally-compatible pieces into each other as they are
// added, then deduplicates and canonically sorts the remainder.
func buildFromPieces(pieces []*Node) *Node {
	var acc []*Node
	for _, p := range pieces {
		if p.Kind == KindUnknown {
			continue
		}
		merged := false
		for i, existing := range acc {
			if compatible(existing, p) {
				acc[i] = mergeCompatible(existing, p)
				merged = true
				break
			}
		}
		if !merged {
			acc = append(acc, p)
		}
	}

	acc = dedupe(acc)
	sortAlternatives(acc)

	switch len(acc) {
	case 0:
		return Unknown()
	case 1:
		return acc[0]
	default:
		return &Node{Kind: KindUnion, Alternatives: acc}
	}
}

func compatible(a, b *Node) bool {
	if a.Kind == KindObject && b.Kind == KindObject && a.IsMap != b.IsMap {
		// a map wrapper and a record stay separate alternatives
		return false
	}
	return a.Kind == b.Kind || isNumericPair(a.Kind, b.Kind)
}

func mergeCompatible(a, b *Node) *Node {
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindArray:
			return &Node{Kind: KindArray, Items: Merge(a.Items, b.Items), NonEmptySeen: a.NonEmptySeen || b.NonEmptySeen}
		case KindObject:
			return mergeObjects(a, b)
		default:
			return Scalar(a.Kind)
		}
	}
	return Scalar(KindNumber)
}

// dedupe removes structurally-equal alternatives, keeping the first.
func dedupe(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		dup := false
		for _, seen := range out {
			if Equal(n, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}
