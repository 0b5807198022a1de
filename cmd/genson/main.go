// Command genson infers a JSON Schema or Avro schema from a collection
// of JSON documents and, on request, rewrites them into the canonical
// form that schema requires.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vigata/genson"
	"github.com/vigata/genson/driver"
)

var (
	ndjson           bool
	noIgnoreArray    bool
	avroOut          bool
	wrapRoot         string
	mapThreshold     uint32
	mapMaxRK         uint32
	mapMaxRKSet      bool
	forceType        string
	unifyMaps        bool
	noUnify          bool
	mapEncoding      string
	mapEncodingSet   bool
	coerceStrings    bool
	keepEmpty        bool
	maxBuilders      uint32
	maxBuildersSet   bool
	configPath       string
	verifySchema     bool
	profile          bool
	debug            bool
	schemaURI        string
	schemaURISet     bool
	noPretty         bool

	debugEnabled bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "genson [FILE]",
	Short: "Infer a JSON Schema or Avro schema from JSON documents",
	Long: `genson reads one or more JSON documents (from FILE, or stdin when FILE
is omitted), infers a single unified schema across all of them, and prints
that schema as JSON Schema (default) or Avro (--avro).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfer,
}

var normaliseCmd = &cobra.Command{
	Use:   "normalise [FILE]",
	Short: "Rewrite JSON documents into the inferred schema's canonical form",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNormalise,
}

func init() {
	registerSharedFlags(rootCmd)
	rootCmd.Flags().StringVar(&schemaURI, "schema-uri", "AUTO", "$schema URI to emit, or AUTO")
	rootCmd.Flags().BoolVar(&avroOut, "avro", false, "Emit Avro schema instead of JSON Schema")
	rootCmd.Flags().BoolVar(&verifySchema, "verify-schema", false, "Compile the emitted JSON Schema against its own meta-schema before printing")

	registerSharedFlags(normaliseCmd)
	normaliseCmd.Flags().BoolVar(&coerceStrings, "coerce-strings", false, "Coerce scalar strings during normalisation")
	normaliseCmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "Preserve empty arrays/objects/maps instead of collapsing them to null")

	rootCmd.AddCommand(normaliseCmd)
}

// registerSharedFlags wires every flag common to both infer and
// normalise (spec §6), split between rootCmd and its subcommand the
// same way a cobra root command and one subcommand usually share a
// flag set: register on both, let each keep its own extras.
func registerSharedFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ndjson, "ndjson", false, "Parse each non-empty input line as one document")
	cmd.Flags().BoolVar(&noIgnoreArray, "no-ignore-array", false, "Preserve top-level array structure instead of treating elements as documents")
	cmd.Flags().StringVar(&wrapRoot, "wrap-root", "", "Wrap each document under a single field of this name before inference")
	cmd.Flags().Uint32Var(&mapThreshold, "map-threshold", 0, "Distinct-key count above which an object becomes a map candidate")
	cmd.Flags().Uint32Var(&mapMaxRK, "map-max-rk", 0, "Max required keys for a map candidate")
	cmd.Flags().StringVar(&forceType, "force-type", "", "Comma-separated path:map|record overrides, e.g. /labels/entry:record")
	cmd.Flags().BoolVar(&unifyMaps, "unify-maps", false, "Unify compatible record variants found as map values")
	cmd.Flags().BoolVar(&noUnify, "no-unify", false, "Disable record unification entirely")
	cmd.Flags().StringVar(&mapEncoding, "map-encoding", "mapping", "Map encoding for normalisation output: mapping|entries|kv")
	cmd.Flags().Uint32Var(&maxBuilders, "max-builders", 0, "Cap the number of concurrent builders (unbounded when omitted; must be greater than zero)")
	cmd.Flags().StringVar(&configPath, "config", "", "Load configuration from a YAML file, overlaid by any flags also given")
	cmd.Flags().BoolVar(&profile, "profile", false, "Print a parse/build/infer/normalise timing breakdown to stderr")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print verbose diagnostics (colourised on a TTY) to stderr")
	cmd.Flags().BoolVar(&noPretty, "no-pretty", false, "Emit compact JSON instead of the CLI's pretty default")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		mapMaxRKSet = cmd.Flags().Changed("map-max-rk")
		maxBuildersSet = cmd.Flags().Changed("max-builders")
		mapEncodingSet = cmd.Flags().Changed("map-encoding")
		schemaURISet = cmd.Flags().Changed("schema-uri")
		return nil
	}
}

func buildConfig() (genson.Config, error) {
	cfg := genson.DefaultConfig()
	if configPath != "" {
		loaded, err := genson.LoadConfigFile(configPath)
		if err != nil {
			return genson.Config{}, err
		}
		cfg = loaded
	}

	cfg.NDJSON = cfg.NDJSON || ndjson
	if noIgnoreArray {
		cfg.IgnoreOuterArray = false
	}
	if wrapRoot != "" {
		cfg.WrapRoot = wrapRoot
	}
	if schemaURISet {
		cfg.SchemaURI = schemaURI
	}
	cfg.Avro = cfg.Avro || avroOut
	if mapThreshold != 0 {
		cfg.MapThreshold = mapThreshold
	}
	if mapMaxRKSet {
		v := mapMaxRK
		cfg.MapMaxRequiredKeys = &v
	}
	if forceType != "" {
		overrides, err := parseForceType(forceType)
		if err != nil {
			return genson.Config{}, err
		}
		if cfg.ForceFieldTypes == nil {
			cfg.ForceFieldTypes = make(map[string]string)
		}
		for k, v := range overrides {
			cfg.ForceFieldTypes[k] = v
		}
	}
	cfg.UnifyMaps = cfg.UnifyMaps || unifyMaps
	cfg.NoUnify = cfg.NoUnify || noUnify
	if mapEncodingSet {
		cfg.MapEncoding = mapEncoding
	}
	cfg.CoerceStrings = cfg.CoerceStrings || coerceStrings
	cfg.KeepEmpty = cfg.KeepEmpty || keepEmpty
	if maxBuildersSet {
		v := maxBuilders
		cfg.MaxBuilders = &v
	}
	cfg.Profile = cfg.Profile || profile
	cfg.Debug = cfg.Debug || debug
	cfg.VerifySchema = cfg.VerifySchema || verifySchema
	cfg.Pretty = !noPretty
	debugEnabled = cfg.Debug

	return cfg, cfg.Validate()
}

// parseForceType parses "path:map,path2:record" into a map, using the
// teacher's "/a/b" path-addressing convention for schema locations.
func parseForceType(spec string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		idx := strings.LastIndex(entry, ":")
		if idx < 0 {
			return nil, fmt.Errorf("invalid --force-type entry %q: expected path:map|record", entry)
		}
		path, kind := entry[:idx], entry[idx+1:]
		if kind != "map" && kind != "record" {
			return nil, fmt.Errorf("invalid --force-type entry %q: type must be map or record", entry)
		}
		out[path] = kind
	}
	return out, nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func runInfer(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	result, err := genson.Infer(context.Background(), raw, cfg)
	if err != nil {
		return err
	}

	out, err := result.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return err
	}

	reportProfile(cfg, result.Profile)
	return nil
}

func runNormalise(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	docs, result, err := genson.Normalise(context.Background(), raw, cfg)
	if err != nil {
		return err
	}

	for _, d := range docs {
		if _, err := os.Stdout.Write(d); err != nil {
			return err
		}
	}

	reportProfile(cfg, result.Profile)
	return nil
}

// reportProfile writes the dual --profile output SPEC_FULL.md
// describes: a human JSON line on stderr plus the Prometheus text
// exposition dump, matching the original tool's behaviour.
func reportProfile(cfg genson.Config, prof *driver.Profile) {
	if !cfg.Profile || prof == nil {
		return
	}
	if err := prof.WriteJSON(os.Stderr); err != nil {
		printErr(err)
	}
	fmt.Fprintln(os.Stderr)
	if err := prof.WritePrometheusText(os.Stderr); err != nil {
		printErr(err)
	}
}

func printErr(err error) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if useColor {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if debugEnabled {
		if useColor {
			color.New(color.Faint).Fprintf(os.Stderr, "  (%T)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "  (%T)\n", err)
		}
	}
}
