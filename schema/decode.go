package schema

import (
	"bytes"
	"fmt"

	"github.com/valyala/fastjson"
)

// DecodeConfig controls how raw input bytes are split into documents
// (spec §3.3 ignore_outer_array / ndjson).
type DecodeConfig struct {
	NDJSON           bool
	IgnoreOuterArray bool
}

// Document is one parsed input document: a parsed value plus its index
// in the input stream (for NDJSON, its 0-based line number, blank lines
// included; otherwise its position in the decomposed outer array, or 0).
type Document struct {
	Value *fastjson.Value
	Index int
}

// ParseError is a per-document JSON parse failure (spec §7 item 3): it
// carries the document index, the underlying error, and a snippet of
// the offending bytes.
type ParseError struct {
	Index   int
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document %d: %v (near %q)", e.Index, e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(index int, raw []byte, err error) *ParseError {
	const maxSnippet = 64
	snippet := raw
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}
	return &ParseError{Index: index, Snippet: string(snippet), Err: err}
}

// ParseDocuments parses raw input into a slice of documents per
// DecodeConfig, tokenising once per document via fastjson — the "raw
// JSON tokenising" primitive spec.md §1 treats as given. The returned
// release func must be called once the caller is entirely finished
// with every *fastjson.Value this call produced (fastjson.Parser
// invalidates prior values on reuse, so every acquired parser is kept
// alive, not returned to the pool, until release is called).
func ParseDocuments(raw []byte, cfg DecodeConfig) (docs []*Document, release func(), errs []*ParseError) {
	var pp fastjson.ParserPool
	var parsers []*fastjson.Parser
	acquire := func() *fastjson.Parser {
		p := pp.Get()
		parsers = append(parsers, p)
		return p
	}
	release = func() {
		for _, p := range parsers {
			pp.Put(p)
		}
	}

	if cfg.NDJSON {
		for idx, line := range bytes.Split(raw, []byte("\n")) {
			trimmed := bytes.TrimSpace(line)
			if len(trimmed) == 0 {
				// blank/whitespace-only lines are skipped, not parse
				// failures (SPEC_FULL supplement from original_source).
				continue
			}
			p := acquire()
			v, err := p.ParseBytes(trimmed)
			if err != nil {
				errs = append(errs, newParseError(idx, trimmed, err))
				continue
			}
			docs = append(docs, &Document{Value: v, Index: idx})
		}
		return docs, release, errs
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		// whitespace-only input holds zero documents, not a parse failure
		return nil, release, nil
	}
	p := acquire()
	v, err := p.ParseBytes(raw)
	if err != nil {
		errs = append(errs, newParseError(0, raw, err))
		return nil, release, errs
	}
	if cfg.IgnoreOuterArray && v.Type() == fastjson.TypeArray {
		arr, arrErr := v.Array()
		if arrErr != nil {
			errs = append(errs, newParseError(0, raw, arrErr))
			return nil, release, errs
		}
		for i, elem := range arr {
			docs = append(docs, &Document{Value: elem, Index: i})
		}
		return docs, release, errs
	}
	docs = append(docs, &Document{Value: v, Index: 0})
	return docs, release, errs
}
