package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowmesh-ai/toolspec/internal/engine"
)

// DefaultValueValidator checks that every declared input default can be
// coerced under at least one of the input's resolved value kinds. A default
// that parses under none of them would fail at invocation time, so this is a
// hard fault.
type DefaultValueValidator struct{}

func NewDefaultValueValidator() *DefaultValueValidator {
	return &DefaultValueValidator{}
}

func (v *DefaultValueValidator) Name() string {
	return "default_values"
}

func (v *DefaultValueValidator) Category() engine.Category {
	return engine.CategoryDefaultValues
}

func (v *DefaultValueValidator) Validate(ctx context.Context, req *engine.CheckRequest) (*engine.Finding, error) {
	if req.Tool == nil {
		return &engine.Finding{}, nil
	}

	var issues []string

	for _, name := range sortedKeys(req.Tool.Inputs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		def := req.Tool.Inputs[name]
		if def.Default == "" {
			continue
		}

		parsed := false
		sawKind := false
		for _, ref := range def.Type {
			kind, ok := ref.Kind()
			if !ok {
				continue
			}
			sawKind = true
			if _, err := kind.Parse(def.Default); err == nil {
				parsed = true
				break
			}
		}
		// Inputs typed solely by connection tags have nothing to coerce
		// against; leave those to the type resolution validator.
		if !sawKind || parsed {
			continue
		}
		issues = append(issues, fmt.Sprintf("input %q: default %q does not parse under any declared kind", name, def.Default))
	}

	if len(issues) == 0 {
		return &engine.Finding{}, nil
	}
	return &engine.Finding{
		Triggered:  true,
		Confidence: 0.9,
		Details:    strings.Join(issues, "; "),
	}, nil
}
