package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/flowmesh-ai/toolspec/internal/engine"
)

func TestDefaults_ParsesUnderDeclaredKind(t *testing.T) {
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"limit": {"type": "int", "default": "10"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}

func TestDefaults_ParsesUnderSecondKind(t *testing.T) {
	// "10.5" fails int but parses as double.
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"limit": {"type": ["int", "double"], "default": "10.5"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}

func TestDefaults_UnparsableDefault(t *testing.T) {
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"limit": {"type": ["int", "bool"], "default": "plenty"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !finding.Triggered {
		t.Fatal("expected triggered for unparsable default")
	}
	if finding.Deferred {
		t.Fatal("expected hard finding, not deferred")
	}
	if !strings.Contains(finding.Details, `"plenty"`) {
		t.Fatalf("expected default in details, got: %s", finding.Details)
	}
}

func TestDefaults_NoDefaultSkipped(t *testing.T) {
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"limit": {"type": "int"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatal("expected not triggered when no default declared")
	}
}

func TestDefaults_ConnectionOnlyInputSkipped(t *testing.T) {
	// No resolved kind to coerce against; type resolution covers the tag.
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "chat",
			"type": "llm",
			"inputs": {"connection": {"type": "AzureOpenAIConnection", "default": "my-conn"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}

func TestDefaults_StringAlwaysParses(t *testing.T) {
	v := NewDefaultValueValidator()
	finding, err := v.Validate(context.Background(), &engine.CheckRequest{
		Tool: parseTool(t, `{
			"name": "search",
			"type": "python",
			"inputs": {"query": {"type": "string", "default": "anything at all"}}
		}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if finding.Triggered {
		t.Fatalf("expected not triggered, got: %s", finding.Details)
	}
}
