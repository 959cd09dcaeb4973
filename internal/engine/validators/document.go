package validators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowmesh-ai/toolspec/internal/engine"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// toolDocumentSchema describes the wire envelope of a tool definition:
// field names, tag shapes (scalar or list), and value types. Tag vocabulary
// is not checked here — unknown tags are legal and handled by the type
// resolution validator.
const toolDocumentSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name":            {"type": "string", "minLength": 1},
		"type":            {"type": "string"},
		"description":     {"type": "string"},
		"module":          {"type": "string"},
		"class_name":      {"type": "string"},
		"source":          {"type": "string"},
		"code":            {"type": "string"},
		"function":        {"type": "string"},
		"stage":           {"type": "string"},
		"is_builtin":      {"type": "boolean"},
		"connection_type": {"type": "array", "items": {"type": "string"}},
		"inputs": {
			"type": "object",
			"additionalProperties": {"$ref": "#/$defs/input"}
		},
		"outputs": {
			"type": "object",
			"additionalProperties": {"$ref": "#/$defs/output"}
		}
	},
	"$defs": {
		"typeField": {
			"oneOf": [
				{"type": "string", "minLength": 1},
				{"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
			]
		},
		"input": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type":        {"$ref": "#/$defs/typeField"},
				"default":     {"type": "string"},
				"description": {"type": "string"},
				"enum":        {"type": "array", "items": {"type": "string"}},
				"custom_type": {"type": "array", "items": {"type": "string"}}
			}
		},
		"output": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type":        {"$ref": "#/$defs/typeField"},
				"description": {"type": "string"},
				"is_property": {"type": "boolean"}
			}
		}
	}
}`

// DocumentValidator validates the raw document against the wire-envelope
// JSON Schema.
type DocumentValidator struct {
	schema *jsonschema.Schema
}

// NewDocumentValidator compiles the wire-envelope schema.
func NewDocumentValidator() (*DocumentValidator, error) {
	var schemaObj any
	if err := json.Unmarshal([]byte(toolDocumentSchema), &schemaObj); err != nil {
		return nil, fmt.Errorf("NewDocumentValidator: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool_document.json", schemaObj); err != nil {
		return nil, fmt.Errorf("NewDocumentValidator: %w", err)
	}
	sch, err := c.Compile("tool_document.json")
	if err != nil {
		return nil, fmt.Errorf("NewDocumentValidator: %w", err)
	}
	return &DocumentValidator{schema: sch}, nil
}

func (v *DocumentValidator) Name() string {
	return "document_schema"
}

func (v *DocumentValidator) Category() engine.Category {
	return engine.CategoryDocumentSchema
}

func (v *DocumentValidator) Validate(_ context.Context, req *engine.CheckRequest) (*engine.Finding, error) {
	if err := v.schema.Validate(req.Document); err != nil {
		return &engine.Finding{
			Triggered:  true,
			Confidence: 0.95,
			Details:    fmt.Sprintf("document schema validation failed: %v", err),
		}, nil
	}
	return &engine.Finding{}, nil
}
