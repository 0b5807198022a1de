package schema

import (
	"math"

	"github.com/valyala/fastjson"
)

// Build folds one parsed JSON value into a schema node (spec §4.2). The
// input is a *fastjson.Value tree — the "raw JSON tokenising" primitive
// spec.md §1 treats as a given; Build never re-decodes through
// encoding/json.
func Build(v *fastjson.Value) *Node {
	if v == nil {
		return Scalar(KindNull)
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return Scalar(KindNull)
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return Scalar(KindBoolean)
	case fastjson.TypeString:
		return Scalar(KindString)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return Scalar(NumberKind(f))
	case fastjson.TypeArray:
		return buildArray(v)
	case fastjson.TypeObject:
		return buildObject(v)
	default:
		return Unknown()
	}
}

// NumberKind classifies f as integer or number per §3.1: integral and
// within the signed 64-bit range is integer, otherwise number.
func NumberKind(f float64) Kind {
	if f == math.Trunc(f) && f >= -9223372036854775808 && f < 9223372036854775808 && !math.IsInf(f, 0) {
		return KindInteger
	}
	return KindNumber
}

func buildArray(v *fastjson.Value) *Node {
	items, err := v.Array()
	if err != nil {
		return &Node{Kind: KindArray, Items: Unknown()}
	}
	node := &Node{Kind: KindArray, Items: Unknown(), NonEmptySeen: len(items) > 0}
	for _, elem := range items {
		node.Items = Merge(node.Items, Build(elem))
	}
	return node
}

func buildObject(v *fastjson.Value) *Node {
	node := NewObject()
	obj, err := v.Object()
	if err != nil {
		return node
	}
	node.ObservedCount = 1
	obj.Visit(func(key []byte, val *fastjson.Value) {
		k := string(key)
		node.Properties.Set(k, Build(val))
		node.KeyCounts[k] = 1
		node.Required[k] = true
	})
	return node
}
