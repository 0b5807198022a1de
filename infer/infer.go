// Package infer implements the map-vs-record decision and record
// unification pass over a merged schema (spec §4.5).
package infer

import "github.com/vigata/genson/schema"

// Config mirrors the subset of the top-level configuration (spec §3.3)
// this pass consults. It is a standalone type, rather than a shared
// one, so this package never needs to import the facade package.
type Config struct {
	MapThreshold       uint32
	MapMaxRequiredKeys *uint32
	ForceFieldTypes    map[string]string // path -> "map" | "record"
	UnifyMaps          bool
	NoUnify            bool
}

// Infer rewrites root per §4.5: bottom-up, deciding per Object node
// whether it becomes a map wrapper, and unifying the value type of any
// promoted map. The literal root is always excluded from map
// candidacy (§4.5 step 4, "prevents root maps") — this is what makes
// wrap_root useful: it shifts a document that would otherwise BE the
// (excluded) root down into an ordinary, promotable property.
func Infer(root *schema.Node, cfg Config) *schema.Node {
	return inferNode(root, "", true, cfg)
}

func inferNode(n *schema.Node, path string, excludeFromCandidacy bool, cfg Config) *schema.Node {
	if n == nil {
		return n
	}
	switch n.Kind {
	case schema.KindArray:
		return &schema.Node{
			Kind:         schema.KindArray,
			Items:        inferNode(n.Items, path+"/[]", false, cfg),
			NonEmptySeen: n.NonEmptySeen,
		}
	case schema.KindUnion:
		newAlts := make([]*schema.Node, len(n.Alternatives))
		for i, alt := range n.Alternatives {
			newAlts[i] = inferNode(alt, path, false, cfg)
		}
		return schema.NewUnion(newAlts)
	case schema.KindObject:
		if n.IsMap {
			return &schema.Node{
				Kind:       schema.KindObject,
				IsMap:      true,
				MapValues:  inferNode(n.MapValues, path+"/*", false, cfg),
				MapUnified: n.MapUnified,
			}
		}
		return inferObject(n, path, excludeFromCandidacy, cfg)
	default:
		return n
	}
}

func inferObject(n *schema.Node, path string, excludeFromCandidacy bool, cfg Config) *schema.Node {
	newProperties := schema.NewOrderedMap()
	for _, k := range n.Properties.Keys() {
		v, _ := n.Properties.Get(k)
		newProperties.Set(k, inferNode(v, path+"/"+k, false, cfg))
	}
	rewritten := &schema.Node{
		Kind:          schema.KindObject,
		Properties:    newProperties,
		Required:      n.Required,
		ObservedCount: n.ObservedCount,
		KeyCounts:     n.KeyCounts,
	}

	if excludeFromCandidacy {
		return rewritten
	}

	forced, hasForce := cfg.ForceFieldTypes[path]
	if hasForce && forced == "record" {
		return rewritten
	}
	forcedMap := hasForce && forced == "map"

	distinctKeys := newProperties.Len()
	eligible := forcedMap || cfg.MapThreshold == 0 || distinctKeys > int(cfg.MapThreshold)
	if !eligible {
		return rewritten
	}

	if !forcedMap && cfg.MapMaxRequiredKeys != nil {
		requiredCount := 0
		for _, v := range n.Required {
			if v {
				requiredCount++
			}
		}
		if requiredCount > int(*cfg.MapMaxRequiredKeys) {
			return rewritten
		}
	}

	values := make([]*schema.Node, 0, newProperties.Len())
	for _, k := range newProperties.Keys() {
		v, _ := newProperties.Get(k)
		values = append(values, v)
	}

	unified, fromRecords, ok := unifyMapValues(values, cfg, forcedMap)
	if !ok {
		return rewritten
	}

	return &schema.Node{
		Kind:       schema.KindObject,
		IsMap:      true,
		MapValues:  unified,
		MapUnified: fromRecords,
	}
}
