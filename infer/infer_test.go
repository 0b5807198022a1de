package infer

import (
	"testing"

	"github.com/valyala/fastjson"

	"github.com/vigata/genson/schema"
)

func buildMerged(docs ...string) *schema.Node {
	acc := schema.Unknown()
	for _, d := range docs {
		acc = schema.Merge(acc, schema.Build(fastjson.MustParse(d)))
	}
	return acc
}

// TestMapThresholdBoundary exercises spec §8.2: an object with exactly
// map_threshold keys stays a record; one more key makes it a map
// candidate.
func TestMapThresholdBoundary(t *testing.T) {
	three := buildMerged(`{"o":{"a":1,"b":2,"c":3}}`)
	four := buildMerged(`{"o":{"a":1,"b":2,"c":3,"d":4}}`)

	gotThree := Infer(three, Config{MapThreshold: 3})
	o, _ := gotThree.Properties.Get("o")
	if o.IsMap {
		t.Error("object with exactly map_threshold keys became a map, want record")
	}

	gotFour := Infer(four, Config{MapThreshold: 3})
	o2, _ := gotFour.Properties.Get("o")
	if !o2.IsMap {
		t.Error("object with map_threshold+1 keys stayed a record, want map")
	}
}

// TestMapInferenceViaThreshold exercises spec §8.3 scenario 3.
func TestMapInferenceViaThreshold(t *testing.T) {
	merged := buildMerged(`{"labels":{"en":"Hi","fr":"Salut","de":"Hallo","it":"Ciao"}}`)
	got := Infer(merged, Config{MapThreshold: 3})

	labels, _ := got.Properties.Get("labels")
	if !labels.IsMap {
		t.Fatal("labels did not become a map")
	}
	if labels.MapValues.Kind != schema.KindString {
		t.Errorf("labels value kind = %v, want string", labels.MapValues.Kind)
	}
}

func TestMapCandidateScalarUnification(t *testing.T) {
	merged := buildMerged(`{"o":{"a":1,"b":2.5,"c":3,"d":4}}`)
	got := Infer(merged, Config{MapThreshold: 3})
	o, _ := got.Properties.Get("o")
	if !o.IsMap {
		t.Fatal("object did not become a map")
	}
	if o.MapValues.Kind != schema.KindNumber {
		t.Errorf("MapValues.Kind = %v, want number (integer+number LUB)", o.MapValues.Kind)
	}
}

func TestForceFieldTypeOverridesThreshold(t *testing.T) {
	merged := buildMerged(`{"o":{"a":1}}`)
	got := Infer(merged, Config{MapThreshold: 100, ForceFieldTypes: map[string]string{"/o": "map"}})
	o, _ := got.Properties.Get("o")
	if !o.IsMap {
		t.Error("force-type map override did not promote a single-key object")
	}
}

func TestForceFieldTypeRecordWins(t *testing.T) {
	merged := buildMerged(`{"o":{"a":1,"b":2,"c":3,"d":4}}`)
	got := Infer(merged, Config{MapThreshold: 0, ForceFieldTypes: map[string]string{"/o": "record"}})
	o, _ := got.Properties.Get("o")
	if o.IsMap {
		t.Error("force-type record override was ignored")
	}
}

func TestRootObjectNeverBecomesMap(t *testing.T) {
	merged := buildMerged(`{"a":1,"b":2,"c":3,"d":4}`)
	got := Infer(merged, Config{MapThreshold: 0})
	if got.IsMap {
		t.Error("root object became a map; the literal root must never be promoted")
	}
}

// TestRecordUnificationUnderUnifyMaps exercises spec §8.3 scenario 4.
func TestRecordUnificationUnderUnifyMaps(t *testing.T) {
	merged := buildMerged(
		`{"m":{"k1":{"value":"a"},"k2":{"value":"b"},"k3":{"value":"c","unit":"kg"},"k4":{"value":"d","unit":"lb"}}}`,
	)
	got := Infer(merged, Config{MapThreshold: 3, UnifyMaps: true})
	m, _ := got.Properties.Get("m")
	if !m.IsMap {
		t.Fatal("m did not become a map")
	}
	if !m.MapUnified {
		t.Fatal("m.MapUnified = false, want true")
	}
	v := m.MapValues
	if v.Kind != schema.KindObject || v.IsMap {
		t.Fatalf("unified value Kind = %v IsMap=%v, want record", v.Kind, v.IsMap)
	}
	if !v.Required["value"] {
		t.Error(`Required["value"] = false, want true`)
	}
	if v.Required["unit"] {
		t.Error(`Required["unit"] = true, want false (only half the records have it)`)
	}
}

func TestRecordUnificationRejectedWithoutUnifyMaps(t *testing.T) {
	merged := buildMerged(
		`{"m":{"k1":{"value":"a"},"k2":{"value":"b","unit":"kg"},"k3":{"value":"c"},"k4":{"value":"d","unit":"lb"}}}`,
	)
	got := Infer(merged, Config{MapThreshold: 3})
	m, _ := got.Properties.Get("m")
	if m.IsMap {
		t.Error("m became a map without --unify-maps despite incompatible record shapes")
	}
}

func TestNoUnifyOverridesUnifyMaps(t *testing.T) {
	merged := buildMerged(
		`{"m":{"k1":{"value":"a"},"k2":{"value":"b","unit":"kg"},"k3":{"value":"c"},"k4":{"value":"d","unit":"lb"}}}`,
	)
	got := Infer(merged, Config{MapThreshold: 3, UnifyMaps: true, NoUnify: true})
	m, _ := got.Properties.Get("m")
	if m.IsMap {
		t.Error("no_unify did not suppress unify_maps")
	}
}

func TestDiscriminatorCollisionRejectsPromotion(t *testing.T) {
	merged := buildMerged(
		`{"m":{"k1":{"value":"a","__key__":"x"},"k2":{"value":"b","unit":"kg","__key__":"y"},"k3":{"value":"c","__key__":"z"},"k4":{"value":"d","unit":"lb","__key__":"w"}}}`,
	)
	got := Infer(merged, Config{MapThreshold: 3, UnifyMaps: true})
	m, _ := got.Properties.Get("m")
	if m.IsMap {
		t.Error("map promotion succeeded despite a real __key__ field colliding with the discriminator")
	}
}

func TestMapMaxRequiredKeysRejectsCandidate(t *testing.T) {
	merged := buildMerged(`{"o":{"a":1,"b":2,"c":3,"d":4}}`)
	limit := uint32(1)
	got := Infer(merged, Config{MapThreshold: 3, MapMaxRequiredKeys: &limit})
	o, _ := got.Properties.Get("o")
	if o.IsMap {
		t.Error("map candidate with too many required keys was promoted anyway")
	}
}
