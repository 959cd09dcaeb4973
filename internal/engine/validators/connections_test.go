package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/flowmesh-ai/toolspec/internal/engine"
)

func TestConnections_Registered(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "custom_llm",
			"connection_type": ["AzureOpenAIConnection"]
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}

func TestConnections_UnregisteredDeferred(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "custom_llm",
			"connection_type": ["AzureOpenAIConnection", "SnowflakeConnection"]
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for unregistered connection type")
	}
	if !finding.Deferred {
		t.Fatal("expected deferred finding")
	}
	if !strings.Contains(finding.Details, "SnowflakeConnection") {
		t.Fatalf("expected type name in details, got: %s", finding.Details)
	}
	if strings.Contains(finding.Details, `"AzureOpenAIConnection" is not registered`) {
		t.Fatalf("registered type flagged: %s", finding.Details)
	}
}

func TestConnections_EmptyEntry(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "custom_llm",
			"connection_type": ["AzureOpenAIConnection", ""]
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for empty entry")
	}
	if !strings.Contains(finding.Details, "empty entry") {
		t.Fatalf("expected empty entry in details, got: %s", finding.Details)
	}
	if finding.Deferred {
		t.Fatal("expected hard finding for malformed entry")
	}
}

func TestConnections_HardFaultNotDowngraded(t *testing.T) {
	// An unregistered name alongside a malformed entry must not defer the
	// whole finding.
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "custom_llm",
			"connection_type": ["", "SnowflakeConnection"]
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered")
	}
	if finding.Deferred {
		t.Fatal("expected hard finding when a malformed entry is present")
	}
	if !strings.Contains(finding.Details, "empty entry") || !strings.Contains(finding.Details, "SnowflakeConnection") {
		t.Fatalf("expected both issues in details, got: %s", finding.Details)
	}
}

func TestConnections_LLMWithoutConnectionSource(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool:  parseTool(t, `{"name": "chat", "type": "llm", "inputs": {"prompt": {"type": "prompt_template"}}}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for llm tool without connection source")
	}
	if !strings.Contains(finding.Details, "no connection source") {
		t.Fatalf("unexpected details: %s", finding.Details)
	}
}

func TestConnections_LLMWithConnectionInput(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool:  parseTool(t, `{"name": "chat", "type": "llm", "inputs": {"connection": {"type": "AzureOpenAIConnection"}}}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}

func TestConnections_NoConnectionTypes(t *testing.T) {
	v := NewConnectionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool:  parseTool(t, `{"name": "search", "type": "python"}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatal("expected not triggered when connection_type is empty")
	}
}
