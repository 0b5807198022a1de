// Package avro projects a post-inference schema tree into an Avro
// record tree (spec §4.6).
package avro

import "github.com/vigata/genson/schema"

// Namespace is the synthetic Avro namespace used for every synthesized
// record (spec §6).
const Namespace = "genson"

// RootName is the name of the top-level Avro record (spec §6).
const RootName = "document"

// DiscriminatorKey re-exports schema.DiscriminatorKey for callers that
// only otherwise need this package.
const DiscriminatorKey = schema.DiscriminatorKey

// Project translates root into an Avro-shaped tree ready for JSON
// marshalling. Nested records are named from their field path below
// the root record, giving unique, collision-free names (§4.6).
func Project(root *schema.Node) any {
	return project(root, []string{RootName}, true)
}

// project returns either a bare type name/union (for scalars/unions)
// or a nested structure for arrays, records and maps.
func project(n *schema.Node, path []string, nullable bool) any {
	if n == nil || n.Kind == schema.KindUnknown {
		return "null"
	}
	switch n.Kind {
	case schema.KindNull:
		return "null"
	case schema.KindBoolean:
		return "boolean"
	case schema.KindInteger:
		return "long"
	case schema.KindNumber:
		return "double"
	case schema.KindString:
		return "string"
	case schema.KindArray:
		items := project(n.Items, append(path, "item"), false)
		return map[string]any{"type": "array", "items": items}
	case schema.KindObject:
		if n.IsMap {
			return projectMap(n, path)
		}
		return projectRecord(n, path)
	case schema.KindUnion:
		return projectUnion(n, path)
	default:
		return "null"
	}
}

func recordName(path []string) string {
	name := ""
	for i, p := range path {
		if i > 0 {
			name += "_"
		}
		name += sanitize(p)
	}
	return name
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}

func projectRecord(n *schema.Node, path []string) map[string]any {
	fields := make([]any, 0, n.Properties.Len())
	for _, k := range n.Properties.Keys() {
		v, _ := n.Properties.Get(k)
		required := n.Required[k]
		fields = append(fields, projectField(k, v, append(path, k), required))
	}
	return map[string]any{
		"type":      "record",
		"name":      recordName(path),
		"namespace": Namespace,
		"fields":    fields,
	}
}

func projectField(name string, v *schema.Node, path []string, required bool) map[string]any {
	field := map[string]any{"name": name}
	if required {
		field["type"] = project(v, path, false)
		return field
	}
	field["type"] = []any{"null", project(v, path, false)}
	field["default"] = nil
	return field
}

func projectMap(n *schema.Node, path []string) map[string]any {
	values := project(n.MapValues, append(path, "value"), false)
	if n.MapUnified {
		// synthesize a discriminator sibling field on the record value,
		// per §4.7/§6, unless it would collide with a real field.
		if rec, ok := values.(map[string]any); ok && rec["type"] == "record" {
			if fields, ok := rec["fields"].([]any); ok {
				if !hasField(fields, DiscriminatorKey) {
					rec["fields"] = append([]any{map[string]any{
						"name": DiscriminatorKey,
						"type": "string",
					}}, fields...)
				}
			}
		}
	}
	return map[string]any{"type": "map", "values": values}
}

func hasField(fields []any, name string) bool {
	for _, f := range fields {
		if m, ok := f.(map[string]any); ok && m["name"] == name {
			return true
		}
	}
	return false
}

func projectUnion(n *schema.Node, path []string) []any {
	hasNull := false
	var rest []any
	for _, alt := range n.Alternatives {
		if alt.Kind == schema.KindNull {
			hasNull = true
			continue
		}
		rest = append(rest, project(alt, path, false))
	}
	if hasNull {
		return append([]any{"null"}, rest...)
	}
	return rest
}
