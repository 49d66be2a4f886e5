package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrSchemaViolation is returned when a JSON export fails validation.
var ErrSchemaViolation = errors.New("schema violation")

// strokeJSONSchema constrains the JSON export layout. The fixed fields are
// required on every row; passthrough columns may carry any string value.
const strokeJSONSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["sessionId", "direction", "splitGps", "distanceGps", "strokeRate"],
    "properties": {
      "sessionId": {"type": "string", "minLength": 1},
      "direction": {"enum": ["up", "down"]},
      "splitGps": {"type": "string"},
      "distanceGps": {"type": ["number", "null"]},
      "strokeRate": {"type": ["number", "null"]}
    },
    "additionalProperties": {"type": "string"}
  }
}`

// ValidateJSON checks a JSON export against the stroke row schema.
func ValidateJSON(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	schema, err := compileStrokeSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

func compileStrokeSchema() (*jsonschema.Schema, error) {
	raw, err := jsonschema.UnmarshalJSON(strings.NewReader(strokeJSONSchema))
	if err != nil {
		return nil, fmt.Errorf("parse stroke schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("strokes.json", raw); err != nil {
		return nil, fmt.Errorf("add stroke schema: %w", err)
	}

	schema, err := compiler.Compile("strokes.json")
	if err != nil {
		return nil, fmt.Errorf("compile stroke schema: %w", err)
	}
	return schema, nil
}
