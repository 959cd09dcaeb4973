package validators

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flowmesh-ai/toolspec/internal/engine"
)

// TypeResolutionValidator checks that every type tag in the parsed contract
// either resolves to a value kind or names a registered connection class.
// Unregistered tags produce deferred findings: the registry they belong to
// may simply not be populated yet.
type TypeResolutionValidator struct{}

func NewTypeResolutionValidator() *TypeResolutionValidator {
	return &TypeResolutionValidator{}
}

func (v *TypeResolutionValidator) Name() string {
	return "type_resolution"
}

func (v *TypeResolutionValidator) Category() engine.Category {
	return engine.CategoryTypeResolution
}

func (v *TypeResolutionValidator) Validate(ctx context.Context, req *engine.CheckRequest) (*engine.Finding, error) {
	if req.Tool == nil {
		return &engine.Finding{}, nil
	}

	var issues []string

	if !req.Tool.Type.Known() {
		issues = append(issues, fmt.Sprintf("unknown tool kind %q", req.Tool.Type))
	}

	for _, name := range sortedKeys(req.Tool.Inputs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ref := range req.Tool.Inputs[name].Type {
			if ref.Resolved() {
				continue
			}
			if req.Conns != nil && req.Conns.IsClassName(ref.Tag()) {
				continue
			}
			issues = append(issues, fmt.Sprintf("input %q: tag %q is neither a value kind nor a registered connection type", name, ref.Tag()))
		}
	}

	for _, name := range sortedKeys(req.Tool.Outputs) {
		for _, ref := range req.Tool.Outputs[name].Type {
			if ref.Resolved() {
				continue
			}
			if req.Conns != nil && req.Conns.IsClassName(ref.Tag()) {
				continue
			}
			issues = append(issues, fmt.Sprintf("output %q: tag %q is neither a value kind nor a registered connection type", name, ref.Tag()))
		}
	}

	if len(issues) == 0 {
		return &engine.Finding{}, nil
	}
	return &engine.Finding{
		Triggered:  true,
		Confidence: 0.9,
		Details:    strings.Join(issues, "; "),
		Deferred:   true,
	}, nil
}

// sortedKeys returns map keys in deterministic order so findings are stable
// across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
