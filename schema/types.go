// Package schema implements the core schema value model (spec §3.1),
// the single-document builder (§4.2) and the associative merge (§4.3).
package schema

// Kind tags the variant a Node currently holds.
type Kind int

const (
	// KindUnknown is the identity element for Merge; no evidence seen yet.
	KindUnknown Kind = iota
	KindNull
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	default:
		return "invalid"
	}
}

// Node is a tagged schema value, per spec §3.1. A single struct carries
// every variant's fields; only the fields relevant to Kind are live at
// any one time. Nodes are treated as immutable once published by Merge
// or Infer: operations that change a Node return a new one rather than
// mutating in place.
type Node struct {
	Kind Kind

	// Array
	Items        *Node
	NonEmptySeen bool

	// Object (record) — see also the map-wrapper fields below, which
	// are only populated after infer.Infer has run.
	Properties    *OrderedMap
	Required      map[string]bool
	ObservedCount uint64
	KeyCounts     map[string]uint64

	// Map wrapper, populated by the inference pass (spec §4.5). A Node
	// with Kind == KindObject and IsMap == true represents the
	// synthetic Object{"__map__": {values: V}} wrapper; Properties is
	// nil in that state and MapValues holds V.
	IsMap      bool
	MapValues  *Node
	MapUnified bool // V came from collapsing a record union (§4.5 step 3)

	// Union
	Alternatives []*Node
}

// Unknown returns the identity element for Merge.
func Unknown() *Node {
	return &Node{Kind: KindUnknown}
}

// Scalar returns a leaf scalar node of the given kind. kind must be one
// of KindNull, KindBoolean, KindInteger, KindNumber, KindString.
func Scalar(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewObject returns an empty Object node ready for the builder to fill.
func NewObject() *Node {
	return &Node{
		Kind:       KindObject,
		Properties: NewOrderedMap(),
		Required:   make(map[string]bool),
		KeyCounts:  make(map[string]uint64),
	}
}

// IsScalar reports whether k is one of the scalar kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case KindNull, KindBoolean, KindInteger, KindNumber, KindString:
		return true
	default:
		return false
	}
}
