package validators

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/flowmesh-ai/toolspec/contracts"
	"github.com/flowmesh-ai/toolspec/internal/engine"
)

type azureOpenAIConnection struct {
	APIKey string
}

func newTestConnections() *contracts.Connections {
	reg := contracts.NewTypeRegistry()
	reg.Register("AzureOpenAIConnection", reflect.TypeOf(azureOpenAIConnection{}))
	return contracts.NewConnections(reg)
}

func parseTool(t *testing.T, raw string) *contracts.Tool {
	t.Helper()
	tool, err := contracts.DeserializeTool(mustDocument(t, raw))
	if err != nil {
		t.Fatal(err)
	}
	return &tool
}

func TestTypeResolution_AllKindsResolve(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"query": {"type": "string"}, "limit": {"type": ["int", "double"]}},
			"outputs": {"results": {"type": "list"}}
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

func TestTypeResolution_ConnectionTagResolves(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "llm",
			"inputs": {"connection": {"type": "AzureOpenAIConnection"}}
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

func TestTypeResolution_UnregisteredTagDeferred(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "llm",
			"inputs": {"connection": {"type": "SnowflakeConnection"}}
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for unregistered tag")
	}
	if !finding.Deferred {
		t.Fatal("expected deferred finding for unregistered tag")
	}
	if !strings.Contains(finding.Details, "SnowflakeConnection") {
		t.Fatalf("expected tag in details, got: %s", finding.Details)
	}
}

func TestTypeResolution_EmptyTagFlagged(t *testing.T) {
	// An empty tag is unresolved and names no connection class, so it
	// must not slip through as valid.
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"query": {"type": [""]}}
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for empty type tag")
	}
}

func TestTypeResolution_UnknownToolKind(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool:  parseTool(t, `{"name": "t", "type": "javascript"}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for unknown tool kind")
	}
	if !strings.Contains(finding.Details, "javascript") {
		t.Fatalf("expected kind in details, got: %s", finding.Details)
	}
}

func TestTypeResolution_OutputTagChecked(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "t",
			"type": "python",
			"outputs": {"conn": {"type": "NoSuchConnection"}}
		}`),
		Conns: newTestConnections(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for unregistered output tag")
	}
	if !strings.Contains(finding.Details, `output "conn"`) {
		t.Fatalf("expected output name in details, got: %s", finding.Details)
	}
}

func TestTypeResolution_NilTool(t *testing.T) {
	v := NewTypeResolutionValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{Conns: newTestConnections()})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatal("expected not triggered for nil tool")
	}
}
