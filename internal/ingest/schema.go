package ingest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed prompts/resume_record.schema.json
	recordSchemaJSON []byte
	//go:embed prompts/suggestions.schema.json
	suggestionsSchemaJSON []byte
	//go:embed prompts/normalize_system.txt
	normalizeSystemPrompt string
	//go:embed prompts/enhance_system.txt
	enhanceSystemPrompt string
)

const (
	normalizeLeadIn = "Parse the following resume text and extract structured data:\n\n"
	enhanceLeadIn   = "Resume data:\n\n"
)

var (
	recordShape      = mustShapeValidator(recordSchemaJSON)
	suggestionsShape = mustShapeValidator(suggestionsSchemaJSON)
)

// RecordSchema returns the JSON Schema sent to the model as a response hint.
func RecordSchema() json.RawMessage {
	return append(json.RawMessage(nil), recordSchemaJSON...)
}

// shapeValidator checks only the top-level kinds of a response. Nested
// elements are coerced leniently by the decoder instead of rejected here.
type shapeValidator struct {
	schema *gojsonschema.Schema
}

func mustShapeValidator(full []byte) *shapeValidator {
	v, err := newShapeValidator(full)
	if err != nil {
		panic(err)
	}
	return v
}

func newShapeValidator(full []byte) (*shapeValidator, error) {
	var doc map[string]any
	if err := json.Unmarshal(full, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if props, ok := doc["properties"].(map[string]any); ok {
		for _, p := range props {
			if m, ok := p.(map[string]any); ok {
				delete(m, "items")
				delete(m, "properties")
			}
		}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &shapeValidator{schema: schema}, nil
}

// Validate returns an error listing every top-level violation in raw.
func (v *shapeValidator) Validate(raw []byte) error {
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
