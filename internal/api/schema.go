package api

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed envelope.schema.json
var envelopeSchemaJSON []byte

const envelopeSchemaURL = "envelope.schema.json"

// the schema is compiled on first use and shared by all decoders
var envelopeSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("envelope schema is not valid JSON: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(envelopeSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding envelope schema: %w", err)
	}

	schema, err := c.Compile(envelopeSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON Schema format: %w", err)
	}
	return schema, nil
})

// validateEnvelope checks the body is JSON and matches the envelope schema
func validateEnvelope(body []byte) error {
	schema, err := envelopeSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return invalidResponse("body is not valid JSON: %v", err)
	}

	if err := schema.Validate(inst); err != nil {
		return invalidResponse("envelope does not match schema: %v", err)
	}
	return nil
}
