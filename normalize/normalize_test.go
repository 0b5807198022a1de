package normalize

import (
	"encoding/json"
	"testing"

	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

func recordSchema() *schema.Node {
	n := schema.NewObject()
	n.Properties.Set("id", schema.Scalar(schema.KindInteger))
	n.Properties.Set("active", schema.Scalar(schema.KindBoolean))
	n.Required["id"] = true
	n.Required["active"] = true
	return n
}

// TestCoerceStrings exercises spec §8.3 scenario 6.
func TestCoerceStrings(t *testing.T) {
	v := fastjson.MustParse(`{"id":"42","active":"true"}`)
	n := recordSchema()

	withCoercion := Normalize(v, n, Config{CoerceStrings: true}).(map[string]any)
	if withCoercion["id"] != int64(42) {
		t.Errorf("id = %v (%T), want int64(42)", withCoercion["id"], withCoercion["id"])
	}
	if withCoercion["active"] != true {
		t.Errorf("active = %v, want true", withCoercion["active"])
	}

	withoutCoercion := Normalize(v, n, Config{}).(map[string]any)
	if withoutCoercion["id"] != nil {
		t.Errorf("id = %v, want nil without coercion", withoutCoercion["id"])
	}
	if withoutCoercion["active"] != nil {
		t.Errorf("active = %v, want nil without coercion", withoutCoercion["active"])
	}
}

func TestNormalizeRecordDropsUnknownKeysFillsMissing(t *testing.T) {
	v := fastjson.MustParse(`{"id":1,"extra":"drop me"}`)
	n := recordSchema()
	got := Normalize(v, n, Config{}).(map[string]any)

	if _, ok := got["extra"]; ok {
		t.Error("unschema'd key survived normalisation")
	}
	if got["active"] != nil {
		t.Errorf("missing key active = %v, want nil", got["active"])
	}
	if got["id"] != int64(1) {
		t.Errorf("id = %v, want int64(1)", got["id"])
	}
}

func TestNormalizeArrayEmptyToNullUnlessKeepEmpty(t *testing.T) {
	arrSchema := &schema.Node{Kind: schema.KindArray, Items: schema.Scalar(schema.KindString)}
	v := fastjson.MustParse(`[]`)

	if got := Normalize(v, arrSchema, Config{}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	got := Normalize(v, arrSchema, Config{KeepEmpty: true})
	arr, ok := got.([]any)
	if !ok || len(arr) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

func TestNormalizeMapEncodings(t *testing.T) {
	mapSchema := &schema.Node{Kind: schema.KindObject, IsMap: true, MapValues: schema.Scalar(schema.KindString)}
	v := fastjson.MustParse(`{"en":"Hi","fr":"Salut"}`)

	mapping := Normalize(v, mapSchema, Config{MapEncoding: "mapping"}).(map[string]any)
	if mapping["en"] != "Hi" || mapping["fr"] != "Salut" {
		t.Errorf("mapping encoding = %v", mapping)
	}

	entries := Normalize(v, mapSchema, Config{MapEncoding: "entries"}).([]any)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	kv := Normalize(v, mapSchema, Config{MapEncoding: "kv"}).([]any)
	if len(kv) != 2 {
		t.Fatalf("len(kv) = %d, want 2", len(kv))
	}
	first := kv[0].(map[string]any)
	if _, ok := first["key"]; !ok {
		t.Error(`kv entry missing "key"`)
	}
	if _, ok := first["value"]; !ok {
		t.Error(`kv entry missing "value"`)
	}
}

func TestNormalizeMapInsertsDiscriminatorForUnifiedValues(t *testing.T) {
	value := schema.NewObject()
	value.Properties.Set("value", schema.Scalar(schema.KindString))
	value.Required["value"] = true
	mapSchema := &schema.Node{Kind: schema.KindObject, IsMap: true, MapValues: value, MapUnified: true}

	v := fastjson.MustParse(`{"k1":{"value":"a"}}`)
	got := Normalize(v, mapSchema, Config{MapEncoding: "mapping"}).(map[string]any)
	entry := got["k1"].(map[string]any)
	if entry[schema.DiscriminatorKey] != "k1" {
		t.Errorf("discriminator = %v, want %q", entry[schema.DiscriminatorKey], "k1")
	}
}

func TestNormalizeUnionPicksMostSpecific(t *testing.T) {
	// Built directly: NewUnion would collapse integer+number into number.
	u := &schema.Node{Kind: schema.KindUnion, Alternatives: []*schema.Node{schema.Scalar(schema.KindInteger), schema.Scalar(schema.KindNumber)}}
	got := Normalize(fastjson.MustParse(`5`), u, Config{})
	if _, ok := got.(int64); !ok {
		t.Errorf("got %v (%T), want int64 (integer preferred over number)", got, got)
	}
}

func TestNormalizeIsIdempotentOnCanonicalInput(t *testing.T) {
	n := recordSchema()
	v := fastjson.MustParse(`{"id":1,"active":true}`)
	first := Normalize(v, n, Config{})

	// Re-parse the normalised result's canonical JSON form to confirm a
	// second pass yields the same shape (spec §8.1 idempotence).
	m := first.(map[string]any)
	if m["id"] != int64(1) || m["active"] != true {
		t.Fatalf("first pass = %v, want canonical form unchanged", m)
	}

	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first pass: %v", err)
	}
	second := Normalize(fastjson.MustParseBytes(raw), n, Config{}).(map[string]any)
	if second["id"] != int64(1) || second["active"] != true {
		t.Errorf("second pass = %v, want %v", second, m)
	}
}
