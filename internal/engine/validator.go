package engine

import (
	"context"

	"github.com/flowmesh-ai/toolspec/contracts"
)

// Category identifies the concern a validator covers.
type Category string

const (
	CategoryDocumentSchema Category = "document_schema"
	CategoryTypeResolution Category = "type_resolution"
	CategoryDefaultValues  Category = "default_values"
	CategoryConnections    Category = "connections"
)

// Validator is the interface every definition validator must implement.
// Implementations must respect context deadlines and return quickly.
type Validator interface {
	// Name returns the validator's unique identifier.
	Name() string

	// Category returns the validation category.
	Category() Category

	// Validate runs the validation logic against the given request.
	// Must respect ctx deadline. Return early if ctx is cancelled.
	Validate(ctx context.Context, req *CheckRequest) (*Finding, error)
}

// CheckRequest contains everything needed to validate one tool definition.
type CheckRequest struct {
	Document map[string]any         // raw wire document
	Tool     *contracts.Tool        // parsed contract
	Conns    *contracts.Connections // connection facade for tag resolution
}

// Finding is the outcome of a single validator run.
type Finding struct {
	Triggered  bool
	Confidence float32 // 0.0 – 1.0
	Details    string
	// Deferred marks findings about tags that may resolve once external
	// registries are populated; they downgrade the verdict to unresolved
	// instead of invalid.
	Deferred bool
}
