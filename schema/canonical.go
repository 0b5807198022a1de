package schema

import (
	"bytes"
	"sort"
)

// CanonicalKey returns a stable, total-ordering byte key for a node,
// used to sort Union alternatives (spec §4.1); deduplication uses Equal
// rather than this key. It intentionally ignores ObservedCount and
// KeyCounts: those are evidence tallies, not structural identity.
func CanonicalKey(n *Node) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, n)
	return buf.Bytes()
}

func writeCanonical(buf *bytes.Buffer, n *Node) {
	if n == nil {
		buf.WriteString("null;")
		return
	}
	switch n.Kind {
	case KindUnknown, KindNull, KindBoolean, KindInteger, KindNumber, KindString:
		buf.WriteString(n.Kind.String())
		buf.WriteByte(';')
	case KindArray:
		buf.WriteString("array(")
		writeCanonical(buf, n.Items)
		buf.WriteString(");")
	case KindObject:
		if n.IsMap {
			buf.WriteString("map(")
			writeCanonical(buf, n.MapValues)
			buf.WriteString(");")
			return
		}
		buf.WriteString("object{")
		keys := append([]string(nil), n.Properties.Keys()...)
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := n.Properties.Get(k)
			buf.WriteString(k)
			buf.WriteByte(':')
			writeCanonical(buf, v)
			buf.WriteByte(',')
		}
		buf.WriteString("};")
	case KindUnion:
		buf.WriteString("union[")
		for _, alt := range n.Alternatives {
			writeCanonical(buf, alt)
			buf.WriteByte('|')
		}
		buf.WriteString("];")
	}
}

// Equal reports whether a and b are structurally equal, ignoring
// ObservedCount/KeyCounts and ignoring Properties insertion order (but
// the stored Node's own order is left untouched by this comparison).
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUnknown, KindNull, KindBoolean, KindInteger, KindNumber, KindString:
		return true
	case KindArray:
		return Equal(a.Items, b.Items)
	case KindObject:
		if a.IsMap != b.IsMap {
			return false
		}
		if a.IsMap {
			return Equal(a.MapValues, b.MapValues)
		}
		if a.Properties.Len() != b.Properties.Len() {
			return false
		}
		for _, k := range a.Properties.Keys() {
			av, _ := a.Properties.Get(k)
			bv, ok := b.Properties.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindUnion:
		if len(a.Alternatives) != len(b.Alternatives) {
			return false
		}
		for i := range a.Alternatives {
			if !Equal(a.Alternatives[i], b.Alternatives[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// sortAlternatives orders alternatives by kind tag, then by canonical
// key, giving Union a deterministic, run-independent alternative order.
func sortAlternatives(alts []*Node) {
	sort.SliceStable(alts, func(i, j int) bool {
		if alts[i].Kind != alts[j].Kind {
			return alts[i].Kind < alts[j].Kind
		}
		return bytes.Compare(CanonicalKey(alts[i]), CanonicalKey(alts[j])) < 0
	})
}
