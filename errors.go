package genson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vigata/genson/schema"
)

// ErrEmptyInput is returned when a call is given zero documents (spec
// §7 item 4: fatal at the driver boundary).
var ErrEmptyInput = errors.New("genson: empty input")

// ParseError re-exports schema.ParseError: the per-document JSON parse
// failure (spec §7 item 3).
type ParseError = schema.ParseError

// AggregateParseError wraps every per-document parse failure from one
// call into a single error, per spec §7 item 3 ("the driver surfaces
// an aggregated error if any document fails").
type AggregateParseError struct {
	Errors []*ParseError
}

func (e *AggregateParseError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		parts[i] = pe.Error()
	}
	return fmt.Sprintf("%d document(s) failed to parse: %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *AggregateParseError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		out[i] = pe
	}
	return out
}

// ConfigError reports a contradictory or otherwise invalid Config
// (spec §7 item 5: fatal at configuration time).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("genson: invalid configuration: %s", e.Reason)
}
