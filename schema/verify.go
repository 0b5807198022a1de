package schema

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// VerifyMetaSchema compiles emitted — itself a JSON-Schema document, as
// produced by Emit — to confirm it is valid against the meta-schema its
// own $schema URI names. Compilation fails if the document is malformed
// against that meta-schema, which is exactly the self-check
// Config.VerifySchema asks for (spec §4.8, "backs schema_uri
// resolution").
func VerifyMetaSchema(emitted []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(emitted))
	if err != nil {
		return fmt.Errorf("verify schema: unmarshal emitted document: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	const resourceName = "genson-emitted.json"
	if err := compiler.AddResource(resourceName, doc); err != nil {
		return fmt.Errorf("verify schema: add resource: %w", err)
	}
	if _, err := compiler.Compile(resourceName); err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}
	return nil
}
