package registry

import (
	"context"

	"github.com/flowmesh-ai/toolspec/contracts"
)

// DefinitionSource provides tool contract definitions for a project.
type DefinitionSource interface {
	// GetDefinition returns the contract for a project+tool pair.
	// Returns nil if the tool has no stored definition.
	GetDefinition(ctx context.Context, projectID, toolName string) (*contracts.Tool, error)
}
