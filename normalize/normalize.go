// Package normalize implements the schema-directed rewrite of a JSON
// document into the canonical form a post-inference schema requires
// (spec §4.7). It never fails on a shape mismatch: it degrades to null.
package normalize

import (
	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

// Config controls normalisation-only behaviour (spec §3.3).
type Config struct {
	CoerceStrings bool
	KeepEmpty     bool
	MapEncoding   string // "mapping" | "entries" | "kv"
}

// Normalize rewrites v into the shape n requires.
func Normalize(v *fastjson.Value, n *schema.Node, cfg Config) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case schema.KindUnknown:
		return nil
	case schema.KindNull, schema.KindBoolean, schema.KindInteger, schema.KindNumber, schema.KindString:
		return normalizeScalar(v, n.Kind, cfg)
	case schema.KindArray:
		return normalizeArray(v, n, cfg)
	case schema.KindObject:
		if n.IsMap {
			return normalizeMap(v, n, cfg)
		}
		return normalizeRecord(v, n, cfg)
	case schema.KindUnion:
		return normalizeUnion(v, n, cfg)
	default:
		return nil
	}
}

func isNull(v *fastjson.Value) bool {
	return v == nil || v.Type() == fastjson.TypeNull
}

func normalizeScalar(v *fastjson.Value, kind schema.Kind, cfg Config) any {
	if isNull(v) {
		return nil
	}
	if matchesScalarKind(v, kind) {
		return scalarValue(v, kind)
	}
	if cfg.CoerceStrings && v.Type() == fastjson.TypeString {
		sb, _ := v.StringBytes()
		if coerced, ok := coerceString(string(sb), kind); ok {
			return coerced
		}
	}
	return nil
}

func normalizeArray(v *fastjson.Value, n *schema.Node, cfg Config) any {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nil
	}
	arr, err := v.Array()
	if err != nil || len(arr) == 0 {
		if cfg.KeepEmpty && err == nil {
			return []any{}
		}
		return nil
	}
	out := make([]any, len(arr))
	for i, e := range arr {
		out[i] = Normalize(e, n.Items, cfg)
	}
	return out
}

func normalizeRecord(v *fastjson.Value, n *schema.Node, cfg Config) any {
	if n.Properties.Len() == 0 {
		if cfg.KeepEmpty {
			return map[string]any{}
		}
		return nil
	}
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil
	}
	obj, err := v.Object()
	if err != nil {
		return nil
	}
	result := make(map[string]any, n.Properties.Len())
	for _, k := range n.Properties.Keys() {
		propSchema, _ := n.Properties.Get(k)
		result[k] = Normalize(obj.Get(k), propSchema, cfg)
	}
	return result
}
