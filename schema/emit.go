package schema

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Draft2020_12 is the default $schema URI used when configuration asks
// for AUTO (spec §4.8).
const Draft2020_12 = "https://json-schema.org/draft/2020-12/schema"

// EmitConfig controls JSON-Schema emission.
type EmitConfig struct {
	SchemaURI string // "" suppresses $schema; "AUTO" resolves to Draft2020_12
}

// ResolvedSchemaURI applies the AUTO substitution rule.
func (c EmitConfig) ResolvedSchemaURI() string {
	if c.SchemaURI == "AUTO" {
		return Draft2020_12
	}
	return c.SchemaURI
}

// orderedObject is a JSON object that marshals its keys in the order
// they were Set, rather than the alphabetical order encoding/json (and
// goccy/go-json, which honours json.Marshaler the same way) imposes on
// plain Go maps. This is the only place emission reaches for
// encoding/json directly: it is an internal buffer-writer, not the
// emission entry point, which still goes through goccy/go-json.
type orderedObject struct {
	keys []string
	vals []any
}

func newOrderedObject() *orderedObject { return &orderedObject{} }

func (o *orderedObject) set(k string, v any) *orderedObject {
	o.keys = append(o.keys, k)
	o.vals = append(o.vals, v)
	return o
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Emit projects a post-inference schema node into a JSON-Schema
// document (spec §4.8).
func Emit(root *Node, cfg EmitConfig) *orderedObject {
	body := emitNode(root)
	if uri := cfg.ResolvedSchemaURI(); uri != "" {
		wrapped := newOrderedObject().set("$schema", uri)
		wrapped.keys = append(wrapped.keys, body.keys...)
		wrapped.vals = append(wrapped.vals, body.vals...)
		return wrapped
	}
	return body
}

func emitNode(n *Node) *orderedObject {
	if n == nil {
		return newOrderedObject().set("type", "null")
	}
	switch n.Kind {
	case KindUnknown:
		return newOrderedObject()
	case KindNull:
		return newOrderedObject().set("type", "null")
	case KindBoolean:
		return newOrderedObject().set("type", "boolean")
	case KindInteger:
		return newOrderedObject().set("type", "integer")
	case KindNumber:
		return newOrderedObject().set("type", "number")
	case KindString:
		return newOrderedObject().set("type", "string")
	case KindArray:
		o := newOrderedObject().set("type", "array")
		if n.Items != nil && n.Items.Kind != KindUnknown {
			o.set("items", emitNode(n.Items))
		}
		return o
	case KindObject:
		if n.IsMap {
			return newOrderedObject().
				set("type", "object").
				set("additionalProperties", emitNode(n.MapValues))
		}
		o := newOrderedObject().set("type", "object")
		props := newOrderedObject()
		for _, k := range n.Properties.Keys() {
			v, _ := n.Properties.Get(k)
			props.set(k, emitNode(v))
		}
		o.set("properties", props)
		if required := sortedRequired(n.Required); len(required) > 0 {
			o.set("required", required)
		}
		return o
	case KindUnion:
		alts := make([]any, len(n.Alternatives))
		for i, alt := range n.Alternatives {
			alts[i] = emitNode(alt)
		}
		return newOrderedObject().set("anyOf", alts)
	default:
		return newOrderedObject()
	}
}

func sortedRequired(required map[string]bool) []string {
	out := make([]string, 0, len(required))
	for k, v := range required {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
