package normalize

import (
	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

func normalizeUnion(v *fastjson.Value, n *schema.Node, cfg Config) any {
	if isNull(v) {
		return nil
	}
	var best *schema.Node
	for _, alt := range n.Alternatives {
		if !matchesTopKind(v, alt) {
			continue
		}
		if best == nil || moreSpecific(alt, best) {
			best = alt
		}
	}
	if best == nil {
		return nil
	}
	return Normalize(v, best, cfg)
}

func matchesTopKind(v *fastjson.Value, alt *schema.Node) bool {
	switch alt.Kind {
	case schema.KindNull, schema.KindBoolean, schema.KindInteger, schema.KindNumber, schema.KindString:
		return matchesScalarKind(v, alt.Kind)
	case schema.KindArray:
		return v.Type() == fastjson.TypeArray
	case schema.KindObject:
		return v.Type() == fastjson.TypeObject
	default:
		return false
	}
}

// moreSpecific reports whether a should be preferred over b when both
// match the same value (spec §4.7: "prefer the most specific").
func moreSpecific(a, b *schema.Node) bool {
	return a.Kind == schema.KindInteger && b.Kind == schema.KindNumber
}
