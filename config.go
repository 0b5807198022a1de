package genson

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the configuration record spec §3.3 requires to
// accompany every top-level call, plus the ambient-stack additions
// SPEC_FULL.md adds (VerifySchema, Profile output, Pretty/Debug
// toggles). Every field is settable by flag, by YAML file (LoadConfigFile),
// or directly by a library caller.
type Config struct {
	IgnoreOuterArray bool              `yaml:"ignore_outer_array"`
	NDJSON           bool              `yaml:"ndjson"`
	WrapRoot         string            `yaml:"wrap_root"`
	SchemaURI        string            `yaml:"schema_uri"`
	Avro             bool              `yaml:"avro"`
	MapThreshold     uint32            `yaml:"map_threshold"`
	MapMaxRequiredKeys *uint32         `yaml:"map_max_required_keys"`
	ForceFieldTypes  map[string]string `yaml:"force_field_types"`
	UnifyMaps        bool              `yaml:"unify_maps"`
	NoUnify          bool              `yaml:"no_unify"`
	MapEncoding      string            `yaml:"map_encoding"`
	CoerceStrings    bool              `yaml:"coerce_strings"`
	KeepEmpty        bool              `yaml:"keep_empty"`
	MaxBuilders      *uint32           `yaml:"max_builders"`
	Profile          bool              `yaml:"profile"`
	Debug            bool              `yaml:"debug"`

	// VerifySchema runs the emitted JSON Schema back through the
	// jsonschema/v6 compiler against its own meta-schema before
	// returning (SPEC_FULL domain-stack addition; no-op for --avro).
	VerifySchema bool `yaml:"verify_schema"`

	// Pretty controls JSON indentation of emitted output (spec §4.8:
	// "default pretty for CLI, compact for library callers").
	Pretty bool `yaml:"pretty"`
}

// DefaultConfig returns the configuration spec §3.3 describes as the
// baseline: outer arrays decomposed into documents, mapping-style map
// encoding, AUTO schema URI resolution.
func DefaultConfig() Config {
	return Config{
		IgnoreOuterArray: true,
		SchemaURI:        "AUTO",
		MapEncoding:      "mapping",
	}
}

// Validate rejects contradictory configuration at construction time
// (spec §7 item 5), so a bad flag combination fails before any document
// is parsed rather than deep inside a merge.
func (c Config) Validate() error {
	if c.UnifyMaps && c.NoUnify {
		return &ConfigError{Reason: "unify_maps and no_unify cannot both be set"}
	}
	switch c.MapEncoding {
	case "", "mapping", "entries", "kv":
	default:
		return &ConfigError{Reason: fmt.Sprintf("map_encoding must be one of mapping|entries|kv, got %q", c.MapEncoding)}
	}
	for path, kind := range c.ForceFieldTypes {
		if kind != "map" && kind != "record" {
			return &ConfigError{Reason: fmt.Sprintf("force_field_types[%q] must be map|record, got %q", path, kind)}
		}
	}
	if c.MaxBuilders != nil && *c.MaxBuilders == 0 {
		return &ConfigError{Reason: "max_builders, if set, must be greater than zero"}
	}
	return nil
}

// LoadConfigFile loads a Config from a YAML file, layered on top of
// DefaultConfig so an omitted key keeps its default rather than
// zeroing out.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config file: %w", err)
	}
	return cfg, nil
}
