package normalize

import (
	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

type mapEntry struct {
	key string
	val *fastjson.Value
}

// normalizeMap implements the map-wrapper branch of §4.7. The source
// value may be a plain JSON object, a list of single-entry objects, or
// a list of {key, value} objects; the output shape is chosen by
// cfg.MapEncoding independent of the input shape.
func normalizeMap(v *fastjson.Value, n *schema.Node, cfg Config) any {
	entries, ok := extractEntries(v)
	if !ok {
		return nil
	}
	if len(entries) == 0 {
		if cfg.KeepEmpty {
			return emptyMapShape(cfg.MapEncoding)
		}
		return nil
	}

	switch cfg.MapEncoding {
	case "entries":
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = map[string]any{e.key: normalizeMapValue(e, n, cfg)}
		}
		return out
	case "kv":
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = map[string]any{"key": e.key, "value": normalizeMapValue(e, n, cfg)}
		}
		return out
	default: // "mapping"
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			out[e.key] = normalizeMapValue(e, n, cfg)
		}
		return out
	}
}

func normalizeMapValue(e mapEntry, n *schema.Node, cfg Config) any {
	val := Normalize(e.val, n.MapValues, cfg)
	if !n.MapUnified {
		return val
	}
	m, ok := val.(map[string]any)
	if !ok {
		return val
	}
	if _, exists := m[schema.DiscriminatorKey]; !exists {
		m[schema.DiscriminatorKey] = e.key
	}
	return m
}

func extractEntries(v *fastjson.Value) ([]mapEntry, bool) {
	if v == nil {
		return nil, true
	}
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, true
		}
		var entries []mapEntry
		obj.Visit(func(key []byte, val *fastjson.Value) {
			entries = append(entries, mapEntry{string(key), val})
		})
		return entries, true
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return nil, true
		}
		var entries []mapEntry
		for _, item := range arr {
			if item.Type() != fastjson.TypeObject {
				continue
			}
			obj, err := item.Object()
			if err != nil {
				continue
			}
			if keyVal := obj.Get("key"); keyVal != nil && obj.Get("value") != nil {
				kb, _ := keyVal.StringBytes()
				entries = append(entries, mapEntry{string(kb), obj.Get("value")})
				continue
			}
			if obj.Len() == 1 {
				obj.Visit(func(key []byte, val *fastjson.Value) {
					entries = append(entries, mapEntry{string(key), val})
				})
			}
		}
		return entries, true
	case fastjson.TypeNull:
		return nil, true
	default:
		return nil, false
	}
}

func emptyMapShape(encoding string) any {
	switch encoding {
	case "entries", "kv":
		return []any{}
	default:
		return map[string]any{}
	}
}
