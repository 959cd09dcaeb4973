package storage

import "time"

// EventWriter is the interface for writing tool definition events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ToolEvent)
	Close()
}

// ToolEvent represents a single tool definition lifecycle event to be persisted.
type ToolEvent struct {
	RequestID        string
	ProjectID        string
	Timestamp        time.Time
	ToolName         string
	ToolKind         string
	Action           string // "registered", "validated", "rejected", "deleted"
	Verdict          string // "valid", "unresolved", "invalid"
	Reason           string
	CheckCategories  []string
	CheckTriggered   []bool
	CheckConfidences []float32
	CheckDetails     []string
	InputCount       int32
	OutputCount      int32
	ConnectionTypes  []string
	LatencyMs        float32
	Source           string
}
