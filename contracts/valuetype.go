// Package contracts defines the typed contract model for tools: the value
// kinds a tool input or output may declare, the input/output definitions
// themselves, and the Tool aggregate, together with their plain-data wire
// forms. It is a pure data-model layer; execution and flow validation live
// elsewhere and consume these types.
package contracts

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ValueType is the closed set of kinds a tool input or output may declare.
// Each member's wire tag equals its string value.
type ValueType string

const (
	ValueTypeInt            ValueType = "int"
	ValueTypeDouble         ValueType = "double"
	ValueTypeBool           ValueType = "bool"
	ValueTypeString         ValueType = "string"
	ValueTypeSecret         ValueType = "secret"
	ValueTypePromptTemplate ValueType = "prompt_template"
	ValueTypeList           ValueType = "list"
	ValueTypeObject         ValueType = "object"
	ValueTypeFilePath       ValueType = "file_path"
	ValueTypeImage          ValueType = "image"
)

var valueTypes = []ValueType{
	ValueTypeInt,
	ValueTypeDouble,
	ValueTypeBool,
	ValueTypeString,
	ValueTypeSecret,
	ValueTypePromptTemplate,
	ValueTypeList,
	ValueTypeObject,
	ValueTypeFilePath,
	ValueTypeImage,
}

// ValueTypes returns every member in wire-tag order.
func ValueTypes() []ValueType {
	out := make([]ValueType, len(valueTypes))
	copy(out, valueTypes)
	return out
}

// KindOf classifies a runtime value into a ValueType. Wrapper types are
// checked before their underlying kinds (a Secret must not classify as a
// plain string), and bool before the integer kinds. Anything unrecognized
// classifies as Object; KindOf never fails.
func KindOf(v any) ValueType {
	switch v.(type) {
	case Secret:
		return ValueTypeSecret
	case PromptTemplate:
		return ValueTypePromptTemplate
	case bool:
		return ValueTypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ValueTypeInt
	case float32, float64:
		return ValueTypeDouble
	case string:
		return ValueTypeString
	case []any:
		return ValueTypeList
	case FilePath:
		return ValueTypeFilePath
	case []byte:
		// Raw bytes are opaque payloads, not lists of numbers.
		return ValueTypeObject
	}
	if rv := reflect.ValueOf(v); rv.IsValid() {
		if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
			return ValueTypeList
		}
	}
	return ValueTypeObject
}

var (
	secretType         = reflect.TypeOf(Secret(""))
	promptTemplateType = reflect.TypeOf(PromptTemplate(""))
	filePathType       = reflect.TypeOf(FilePath(""))
	imageType          = reflect.TypeOf(Image{})
)

// KindOfType classifies a declared Go type into a ValueType. The named
// wrapper types are matched by identity before the underlying kinds so that
// e.g. Secret does not fall through to String. Unrecognized types classify
// as Object; KindOfType never fails.
func KindOfType(t reflect.Type) ValueType {
	if t == nil {
		return ValueTypeObject
	}
	switch t {
	case secretType:
		return ValueTypeSecret
	case promptTemplateType:
		return ValueTypePromptTemplate
	case filePathType:
		return ValueTypeFilePath
	case imageType:
		return ValueTypeImage
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ValueTypeInt
	case reflect.Float32, reflect.Float64:
		return ValueTypeDouble
	case reflect.Bool:
		return ValueTypeBool
	case reflect.String:
		return ValueTypeString
	case reflect.Slice, reflect.Array:
		return ValueTypeList
	}
	return ValueTypeObject
}

// Parse coerces a raw value to this kind.
//
// Int and Double accept numbers and numeric strings, surfacing the
// underlying strconv fault on malformed input. Bool passes booleans through
// and accepts the strings "true"/"false" case-insensitively. String never
// fails. List parses JSON strings and requires the result (or the input) to
// be a sequence. Object best-effort parses JSON strings and keeps the
// original string on failure; it never fails. The remaining kinds carry
// values opaque to coercion and pass through unchanged.
func (t ValueType) Parse(v any) (any, error) {
	switch t {
	case ValueTypeInt:
		return parseInt(v)
	case ValueTypeDouble:
		return parseDouble(v)
	case ValueTypeBool:
		return parseBool(v)
	case ValueTypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case ValueTypeList:
		return parseList(v)
	case ValueTypeObject:
		if s, ok := v.(string); ok {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				return parsed, nil
			}
			// Not JSON — object inputs may legitimately hold plain strings.
		}
		return v, nil
	}
	return v, nil
}

func parseInt(v any) (any, error) {
	switch n := v.(type) {
	case bool:
		if n {
			return int64(1), nil
		}
		return int64(0), nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return int64(f), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, err
		}
		return i, nil
	}
	return nil, fmt.Errorf("cannot convert %T to int", v)
}

func parseDouble(v any) (any, error) {
	switch n := v.(type) {
	case bool:
		if n {
			return float64(1), nil
		}
		return float64(0), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to double", v)
}

func parseBool(v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(b) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, fmt.Errorf("invalid boolean value %v", v)
}

func parseList(v any) (any, error) {
	if s, ok := v.(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, fmt.Errorf("invalid list value %q: %w", s, err)
		}
		v = parsed
	}
	if l, ok := v.([]any); ok {
		return l, nil
	}
	if rv := reflect.ValueOf(v); rv.IsValid() {
		if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
			return v, nil
		}
	}
	return nil, fmt.Errorf("invalid list value %v", v)
}
