package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowmesh-ai/toolspec/contracts"
	"github.com/flowmesh-ai/toolspec/internal/engine"
)

// ConnectionValidator checks that every entry of a tool's connection_type
// list names a registered connection class. Unregistered names are deferred:
// connection registries are populated per deployment.
type ConnectionValidator struct{}

func NewConnectionValidator() *ConnectionValidator {
	return &ConnectionValidator{}
}

func (v *ConnectionValidator) Name() string {
	return "connections"
}

func (v *ConnectionValidator) Category() engine.Category {
	return engine.CategoryConnections
}

func (v *ConnectionValidator) Validate(ctx context.Context, req *engine.CheckRequest) (*engine.Finding, error) {
	if req.Tool == nil {
		return &engine.Finding{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Unregistered names may resolve once the registry is populated;
	// malformed entries never will. The finding is deferred only when every
	// issue is of the first sort, so a hard fault keeps its weight.
	var issues []string
	hardFault := false
	for _, name := range req.Tool.ConnectionType {
		if name == "" {
			issues = append(issues, "connection_type contains an empty entry")
			hardFault = true
			continue
		}
		if req.Conns != nil && req.Conns.IsClassName(name) {
			continue
		}
		issues = append(issues, fmt.Sprintf("connection type %q is not registered", name))
	}

	// llm tools always require a connection; flag ones that declare no
	// source for it anywhere in the contract.
	if req.Tool.Type == contracts.ToolTypeLLM && len(req.Tool.ConnectionType) == 0 && !declaresConnectionInput(req.Tool) {
		issues = append(issues, "llm tool declares no connection source")
	}

	if len(issues) == 0 {
		return &engine.Finding{}, nil
	}
	return &engine.Finding{
		Triggered:  true,
		Confidence: 0.85,
		Details:    strings.Join(issues, "; "),
		Deferred:   !hardFault,
	}, nil
}

// declaresConnectionInput reports whether any input carries an unresolved
// tag, the wire form of a connection-typed input.
func declaresConnectionInput(tool *contracts.Tool) bool {
	for _, def := range tool.Inputs {
		for _, ref := range def.Type {
			if !ref.Resolved() {
				return true
			}
		}
	}
	return false
}
