// Package genson is the top-level facade tying together the schema
// builder/merge, parallel driver, map inference, Avro projection and
// normaliser packages into the two entry points library callers and
// cmd/genson use: Infer and Normalise.
package genson

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fastjson"

	"github.com/vigata/genson/avro"
	"github.com/vigata/genson/driver"
	"github.com/vigata/genson/infer"
	"github.com/vigata/genson/normalize"
	"github.com/vigata/genson/schema"
)

// InferResult is the outcome of one Infer call: the post-inference
// schema tree, ready for Marshal, plus an optional timing breakdown.
type InferResult struct {
	Schema  *schema.Node
	Profile *driver.Profile
}

// Marshal projects the result into its final wire form: Avro if
// cfg.Avro, JSON Schema otherwise (spec §4.8), then marshals to JSON
// via goccy/go-json with a trailing newline. When cfg.VerifySchema is
// set (and cfg.Avro is not), the emitted JSON Schema is compiled back
// through jsonschema/v6 against its own meta-schema before returning.
func (r *InferResult) Marshal(cfg Config) ([]byte, error) {
	var body any
	if cfg.Avro {
		body = avro.Project(r.Schema)
	} else {
		body = schema.Emit(r.Schema, schema.EmitConfig{SchemaURI: cfg.SchemaURI})
	}
	out, err := marshalJSON(body, cfg.Pretty)
	if err != nil {
		return nil, err
	}
	if cfg.VerifySchema && !cfg.Avro {
		if err := schema.VerifyMetaSchema(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Infer runs the full builder → parallel-merge → map-inference pipeline
// over raw (one or more JSON documents, shaped by cfg.NDJSON /
// cfg.IgnoreOuterArray), and returns the resulting schema.
func Infer(ctx context.Context, raw []byte, cfg Config) (*InferResult, error) {
	merged, _, release, prof, err := runInference(ctx, raw, cfg)
	defer release()
	if err != nil {
		return nil, err
	}
	return &InferResult{Schema: merged, Profile: prof}, nil
}

// Normalise runs the same pipeline as Infer, then rewrites every input
// document against the resulting schema (spec §4.7), returning one
// marshalled document per input in input order alongside the inference
// result the documents were normalised against.
func Normalise(ctx context.Context, raw []byte, cfg Config) ([][]byte, *InferResult, error) {
	merged, docs, release, prof, err := runInference(ctx, raw, cfg)
	defer release()
	if err != nil {
		return nil, nil, err
	}

	normCfg := normalize.Config{
		CoerceStrings: cfg.CoerceStrings,
		KeepEmpty:     cfg.KeepEmpty,
		MapEncoding:   cfg.MapEncoding,
	}

	normaliseStart := time.Now()
	out := make([][]byte, len(docs))
	for i, d := range docs {
		var value any
		if cfg.WrapRoot != "" {
			inner, _ := merged.Properties.Get(cfg.WrapRoot)
			value = map[string]any{cfg.WrapRoot: normalize.Normalize(d.Value, inner, normCfg)}
		} else {
			value = normalize.Normalize(d.Value, merged, normCfg)
		}
		b, err := marshalJSON(value, cfg.Pretty)
		if err != nil {
			return nil, nil, err
		}
		out[i] = b
	}
	if prof != nil {
		prof.Normalise = time.Since(normaliseStart)
	}

	return out, &InferResult{Schema: merged, Profile: prof}, nil
}

// runInference is the shared core of Infer and Normalise: parse, build
// + parallel-merge, then map-inference. The returned release must be
// called once the caller is done walking docs (Normalise delays this
// until after its rewrite pass; Infer calls it immediately since it
// never revisits the parsed values). release is always safe to call,
// even on an early error return.
func runInference(ctx context.Context, raw []byte, cfg Config) (merged *schema.Node, docs []*schema.Document, release func(), prof *driver.Profile, err error) {
	release = func() {}

	if verr := cfg.Validate(); verr != nil {
		return nil, nil, release, nil, verr
	}
	if cfg.Profile {
		prof = driver.NewProfile()
	}

	parseStart := time.Now()
	var perrs []*schema.ParseError
	docs, release, perrs = schema.ParseDocuments(raw, schema.DecodeConfig{
		NDJSON:           cfg.NDJSON,
		IgnoreOuterArray: cfg.IgnoreOuterArray,
	})
	parseDur := time.Since(parseStart)
	if len(perrs) > 0 {
		return nil, nil, release, nil, &AggregateParseError{Errors: perrs}
	}
	if len(docs) == 0 {
		return nil, nil, release, nil, ErrEmptyInput
	}

	values := make([]*fastjson.Value, len(docs))
	for i, d := range docs {
		values[i] = d.Value
	}

	buildFn := func(v *fastjson.Value) *schema.Node {
		n := schema.Build(v)
		if cfg.WrapRoot != "" {
			n = schema.WrapRoot(n, cfg.WrapRoot)
		}
		return n
	}
	rawMerged, buildDur := driver.Run(ctx, values, buildFn, driver.Config{MaxBuilders: cfg.MaxBuilders})

	inferStart := time.Now()
	merged = infer.Infer(rawMerged, infer.Config{
		MapThreshold:       cfg.MapThreshold,
		MapMaxRequiredKeys: cfg.MapMaxRequiredKeys,
		ForceFieldTypes:    cfg.ForceFieldTypes,
		UnifyMaps:          cfg.UnifyMaps,
		NoUnify:            cfg.NoUnify,
	})
	inferDur := time.Since(inferStart)

	if prof != nil {
		prof.Parse = parseDur
		prof.BuildMerge = buildDur
		prof.Inference = inferDur
	}

	return merged, docs, release, prof, nil
}
