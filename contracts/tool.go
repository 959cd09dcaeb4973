package contracts

import (
	"encoding/json"
	"fmt"
)

// ToolType is the kind of a tool.
type ToolType string

const (
	ToolTypeLLM    ToolType = "llm"
	ToolTypePython ToolType = "python"
	ToolTypePrompt ToolType = "prompt"
	// ToolTypeAction is an internal kind; its wire form carries provenance
	// metadata only, never type or input declarations.
	ToolTypeAction    ToolType = "action"
	ToolTypeCustomLLM ToolType = "custom_llm"
)

var toolTypes = []ToolType{
	ToolTypeLLM,
	ToolTypePython,
	ToolTypePrompt,
	ToolTypeAction,
	ToolTypeCustomLLM,
}

// ToolTypes returns every member in wire-tag order.
func ToolTypes() []ToolType {
	out := make([]ToolType, len(toolTypes))
	copy(out, toolTypes)
	return out
}

// Known reports whether t names a member of the tool type set.
// Deserialization keeps unknown tags verbatim, so a stored tag can be
// re-checked once later registration passes have run.
func (t ToolType) Known() bool {
	for _, m := range toolTypes {
		if t == m {
			return true
		}
	}
	return false
}

// Tool describes one callable unit of work: its name and kind, its declared
// input and output contracts, and provenance metadata locating its
// implementation. Tools are immutable value objects; they are constructed
// directly or via DeserializeTool and round-tripped through Serialize.
type Tool struct {
	Name           string
	Type           ToolType
	Inputs         map[string]InputDefinition
	Outputs        map[string]OutputDefinition
	Description    string
	Module         string
	ClassName      string
	Source         string
	Code           string
	Function       string
	ConnectionType []string
	IsBuiltin      *bool
	Stage          string
}

// RequiresConnection reports whether the tool needs a connection input:
// every llm tool does, as does any tool declaring connection types.
func (t Tool) RequiresConnection() bool {
	return t.Type == ToolTypeLLM || len(t.ConnectionType) > 0
}

// Serialize renders the tool as plain wire data, skipping unset fields.
// Outputs are never part of the wire form. Action tools carry provenance
// metadata only: their type and inputs are dropped as well.
func (t Tool) Serialize() map[string]any {
	data := map[string]any{"name": t.Name}
	if t.Type != ToolTypeAction {
		if t.Type != "" {
			data["type"] = string(t.Type)
		}
		inputs := make(map[string]any, len(t.Inputs))
		for name, def := range t.Inputs {
			inputs[name] = def.Serialize()
		}
		data["inputs"] = inputs
	}
	if t.Description != "" {
		data["description"] = t.Description
	}
	if t.Module != "" {
		data["module"] = t.Module
	}
	if t.ClassName != "" {
		data["class_name"] = t.ClassName
	}
	if t.Source != "" {
		data["source"] = t.Source
	}
	if t.Code != "" {
		data["code"] = t.Code
	}
	if t.Function != "" {
		data["function"] = t.Function
	}
	if len(t.ConnectionType) > 0 {
		data["connection_type"] = t.ConnectionType
	}
	if t.IsBuiltin != nil {
		data["is_builtin"] = *t.IsBuiltin
	}
	if t.Stage != "" {
		data["stage"] = t.Stage
	}
	return data
}

// DeserializeTool rebuilds a Tool from wire data. name and type are
// required; the type tag resolves case-insensitively and unknown tags
// survive verbatim. Absent inputs/outputs become empty maps.
func DeserializeTool(data map[string]any) (Tool, error) {
	name, ok := data["name"].(string)
	if !ok || name == "" {
		return Tool{}, fmt.Errorf("tool: missing required field %q", "name")
	}
	rawType, ok := data["type"].(string)
	if !ok {
		return Tool{}, fmt.Errorf("tool %q: missing required field %q", name, "type")
	}
	typ, resolved := ResolveToolType(rawType)
	if !resolved {
		typ = ToolType(rawType)
	}

	inputs := make(map[string]InputDefinition)
	if raw, ok := data["inputs"].(map[string]any); ok {
		for key, val := range raw {
			m, ok := val.(map[string]any)
			if !ok {
				return Tool{}, fmt.Errorf("tool %q: input %q: definition must be a mapping, got %T", name, key, val)
			}
			def, err := DeserializeInputDefinition(m)
			if err != nil {
				return Tool{}, fmt.Errorf("tool %q: input %q: %w", name, key, err)
			}
			inputs[key] = def
		}
	}

	outputs := make(map[string]OutputDefinition)
	if raw, ok := data["outputs"].(map[string]any); ok {
		for key, val := range raw {
			m, ok := val.(map[string]any)
			if !ok {
				return Tool{}, fmt.Errorf("tool %q: output %q: definition must be a mapping, got %T", name, key, val)
			}
			def, err := DeserializeOutputDefinition(m)
			if err != nil {
				return Tool{}, fmt.Errorf("tool %q: output %q: %w", name, key, err)
			}
			outputs[key] = def
		}
	}

	return Tool{
		Name:           name,
		Type:           typ,
		Inputs:         inputs,
		Outputs:        outputs,
		Description:    stringField(data, "description"),
		Module:         stringField(data, "module"),
		ClassName:      stringField(data, "class_name"),
		Source:         stringField(data, "source"),
		Code:           stringField(data, "code"),
		Function:       stringField(data, "function"),
		ConnectionType: stringSliceField(data, "connection_type"),
		IsBuiltin:      boolPtrField(data, "is_builtin"),
		Stage:          stringField(data, "stage"),
	}, nil
}

// MarshalJSON encodes the tool's wire form, so documents can be stored and
// transmitted as JSON directly.
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Serialize())
}

// UnmarshalJSON decodes a JSON tool document through DeserializeTool.
func (t *Tool) UnmarshalJSON(b []byte) error {
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	parsed, err := DeserializeTool(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func boolPtrField(data map[string]any, key string) *bool {
	if b, ok := data[key].(bool); ok {
		return &b
	}
	return nil
}
