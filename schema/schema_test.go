package schema

import (
	"testing"

	"github.com/valyala/fastjson"
)

func TestBuildScalars(t *testing.T) {
	cases := []struct {
		input string
		kind  Kind
	}{
		{"null", KindNull},
		{"true", KindBoolean},
		{"false", KindBoolean},
		{`"hi"`, KindString},
		{"42", KindInteger},
		{"3.5", KindNumber},
	}
	for _, c := range cases {
		n := Build(fastjson.MustParse(c.input))
		if n.Kind != c.kind {
			t.Errorf("Build(%s).Kind = %v, want %v", c.input, n.Kind, c.kind)
		}
	}
}

func TestBuildArrayMergesItems(t *testing.T) {
	n := Build(fastjson.MustParse(`[1, "a", 2]`))
	if n.Kind != KindArray {
		t.Fatalf("Kind = %v, want array", n.Kind)
	}
	if n.Items.Kind != KindUnion {
		t.Fatalf("Items.Kind = %v, want union (mixed integer/string)", n.Items.Kind)
	}
	if len(n.Items.Alternatives) != 2 {
		t.Fatalf("len(Items.Alternatives) = %d, want 2", len(n.Items.Alternatives))
	}
}

func TestBuildEmptyArrayItemsIsUnknown(t *testing.T) {
	n := Build(fastjson.MustParse(`[]`))
	if n.Kind != KindArray || n.Items.Kind != KindUnknown {
		t.Fatalf("got Kind=%v Items.Kind=%v, want Array/Unknown", n.Kind, n.Items.Kind)
	}
	if n.NonEmptySeen {
		t.Error("NonEmptySeen = true for empty array")
	}
}

func TestBuildObjectPreservesInsertionOrder(t *testing.T) {
	n := Build(fastjson.MustParse(`{"c":1,"a":2,"b":3}`))
	got := n.Properties.Keys()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestMergeSimpleObjects exercises spec §8.3 scenario 1: two records
// differing by one optional field produce the documented required set.
func TestMergeSimpleObjects(t *testing.T) {
	a := Build(fastjson.MustParse(`{"name":"Alice","age":30}`))
	b := Build(fastjson.MustParse(`{"name":"Bob","age":25,"city":"NYC"}`))
	merged := Merge(a, b)

	if merged.Kind != KindObject {
		t.Fatalf("Kind = %v, want object", merged.Kind)
	}
	wantRequired := map[string]bool{"name": true, "age": true}
	for k, want := range wantRequired {
		if merged.Required[k] != want {
			t.Errorf("Required[%q] = %v, want %v", k, merged.Required[k], want)
		}
	}
	if merged.Required["city"] {
		t.Error("Required[city] = true, want false (only seen in one of two documents)")
	}
	if merged.ObservedCount != 2 {
		t.Errorf("ObservedCount = %d, want 2", merged.ObservedCount)
	}
}

func TestMergeIsCommutativeAndAssociative(t *testing.T) {
	a := Scalar(KindInteger)
	b := Scalar(KindString)
	c := Build(fastjson.MustParse(`{"x":1}`))

	ab := Merge(a, b)
	ba := Merge(b, a)
	if !Equal(ab, ba) {
		t.Error("Merge is not commutative for integer/string")
	}

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	if !Equal(left, right) {
		t.Error("Merge is not associative across scalar/scalar/object")
	}
}

func TestMergeUnknownIsIdentity(t *testing.T) {
	obj := Build(fastjson.MustParse(`{"x":1}`))
	if !Equal(Merge(Unknown(), obj), obj) {
		t.Error("Merge(Unknown, x) != x")
	}
	if !Equal(Merge(obj, Unknown()), obj) {
		t.Error("Merge(x, Unknown) != x")
	}
}

func TestMergeIntegerNumberIsNumber(t *testing.T) {
	merged := Merge(Scalar(KindInteger), Scalar(KindNumber))
	if merged.Kind != KindNumber {
		t.Errorf("Kind = %v, want number", merged.Kind)
	}
}

// TestMergeUnionOfScalarAndArray exercises spec §8.3 scenario 2.
func TestMergeUnionOfScalarAndArray(t *testing.T) {
	docs := []string{`{"strs":"a"}`, `{"strs":["b"]}`, `{"strs":["c","d"]}`}
	acc := Unknown()
	for _, d := range docs {
		acc = Merge(acc, Build(fastjson.MustParse(d)))
	}
	strs, _ := acc.Properties.Get("strs")
	if strs.Kind != KindUnion {
		t.Fatalf("strs.Kind = %v, want union", strs.Kind)
	}
	if len(strs.Alternatives) != 2 {
		t.Fatalf("len(strs.Alternatives) = %d, want 2", len(strs.Alternatives))
	}
	// canonical order sorts by Kind tag: KindString(5) < KindArray(6).
	if strs.Alternatives[0].Kind != KindString || strs.Alternatives[1].Kind != KindArray {
		t.Errorf("alternative order = [%v, %v], want [string, array]",
			strs.Alternatives[0].Kind, strs.Alternatives[1].Kind)
	}
}

func TestUnionNeverNestsOrHasFewerThanTwoAlternatives(t *testing.T) {
	single := NewUnion([]*Node{Scalar(KindInteger)})
	if single.Kind == KindUnion {
		t.Error("single-alternative union did not collapse")
	}

	nested := NewUnion([]*Node{
		NewUnion([]*Node{Scalar(KindInteger), Scalar(KindString)}),
		Scalar(KindBoolean),
	})
	if nested.Kind != KindUnion {
		t.Fatalf("Kind = %v, want union", nested.Kind)
	}
	for _, alt := range nested.Alternatives {
		if alt.Kind == KindUnion {
			t.Error("union contains a nested union")
		}
	}
}

func TestPermutationInvariance(t *testing.T) {
	docs := []string{
		`{"a":1,"b":"x"}`,
		`{"a":2,"c":true}`,
		`{"a":3,"b":"y","c":false}`,
	}
	order1 := []int{0, 1, 2}
	order2 := []int{2, 0, 1}

	build := func(order []int) *Node {
		acc := Unknown()
		for _, i := range order {
			acc = Merge(acc, Build(fastjson.MustParse(docs[i])))
		}
		return acc
	}

	m1 := build(order1)
	m2 := build(order2)
	if !Equal(m1, m2) {
		t.Error("merge result depends on document order")
	}
}

func TestEmitSimpleSchema(t *testing.T) {
	n := NewObject()
	n.Properties.Set("name", Scalar(KindString))
	n.Properties.Set("age", Scalar(KindInteger))
	n.Required["name"] = true
	n.Required["age"] = true

	body := Emit(n, EmitConfig{SchemaURI: "AUTO"})
	raw, err := body.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got := string(raw)
	if got == "" {
		t.Fatal("empty output")
	}
	if got[0] != '{' {
		t.Errorf("output does not start with '{': %s", got)
	}
}
