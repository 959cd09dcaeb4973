package contracts

import "fmt"

// InputDefinition describes one declared input of a tool. Type holds one or
// more acceptable kinds; the remaining fields are optional metadata.
type InputDefinition struct {
	Type        []TypeRef
	Default     string
	Description string
	Enum        []string
	CustomType  []string
}

// Serialize renders the definition as plain wire data. A single declared
// kind is emitted as a scalar tag, multiple kinds as a list; optional fields
// are omitted when empty.
func (d InputDefinition) Serialize() map[string]any {
	data := map[string]any{"type": serializeTypeRefs(d.Type)}
	if d.Default != "" {
		data["default"] = d.Default
	}
	if d.Description != "" {
		data["description"] = d.Description
	}
	if len(d.Enum) > 0 {
		data["enum"] = d.Enum
	}
	if len(d.CustomType) > 0 {
		data["custom_type"] = d.CustomType
	}
	return data
}

// DeserializeInputDefinition rebuilds an InputDefinition from wire data.
// The type field accepts a scalar tag or a list of tags and is required;
// tags outside the ValueType set are kept unresolved for a later pass.
func DeserializeInputDefinition(data map[string]any) (InputDefinition, error) {
	refs, err := deserializeTypeField(data, "input definition")
	if err != nil {
		return InputDefinition{}, err
	}
	return InputDefinition{
		Type:        refs,
		Default:     stringField(data, "default"),
		Description: stringField(data, "description"),
		Enum:        stringSliceField(data, "enum"),
		CustomType:  stringSliceField(data, "custom_type"),
	}, nil
}

// OutputDefinition describes one declared output of a tool.
type OutputDefinition struct {
	Type        []TypeRef
	Description string
	IsProperty  bool
}

// Serialize renders the definition as plain wire data. is_property is always
// emitted, including its false default.
func (d OutputDefinition) Serialize() map[string]any {
	data := map[string]any{
		"type":        serializeTypeRefs(d.Type),
		"is_property": d.IsProperty,
	}
	if d.Description != "" {
		data["description"] = d.Description
	}
	return data
}

// DeserializeOutputDefinition rebuilds an OutputDefinition from wire data.
// The type field is required; is_property defaults to false when absent.
func DeserializeOutputDefinition(data map[string]any) (OutputDefinition, error) {
	refs, err := deserializeTypeField(data, "output definition")
	if err != nil {
		return OutputDefinition{}, err
	}
	return OutputDefinition{
		Type:        refs,
		Description: stringField(data, "description"),
		IsProperty:  boolField(data, "is_property"),
	}, nil
}

func serializeTypeRefs(refs []TypeRef) any {
	if len(refs) == 1 {
		return refs[0].Tag()
	}
	tags := make([]string, len(refs))
	for i, r := range refs {
		tags[i] = r.Tag()
	}
	return tags
}

func deserializeTypeField(data map[string]any, what string) ([]TypeRef, error) {
	raw, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("%s: missing required field %q", what, "type")
	}
	tags, err := tagList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s: type field must declare at least one kind", what)
	}
	refs := make([]TypeRef, len(tags))
	for i, tag := range tags {
		refs[i] = ParseTypeRef(tag)
	}
	return refs, nil
}

func tagList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		tags := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("type tag must be a string, got %T", e)
			}
			tags[i] = s
		}
		return tags, nil
	}
	return nil, fmt.Errorf("type field must be a tag or a list of tags, got %T", raw)
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func boolField(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

func stringSliceField(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
