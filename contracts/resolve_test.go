package contracts

import "testing"

func TestResolveValueType_CaseInsensitive(t *testing.T) {
	vt, ok := ResolveValueType("STRING")
	if !ok {
		t.Fatal("expected match for STRING")
	}
	if vt != ValueTypeString {
		t.Fatalf("expected string, got %s", vt)
	}

	vt, ok = ResolveValueType("Prompt_Template")
	if !ok {
		t.Fatal("expected match for Prompt_Template")
	}
	if vt != ValueTypePromptTemplate {
		t.Fatalf("expected prompt_template, got %s", vt)
	}
}

func TestResolveValueType_UnknownTag(t *testing.T) {
	if _, ok := ResolveValueType("AzureOpenAIConnection"); ok {
		t.Fatal("expected no match for a connection type name")
	}
}

func TestResolveToolType(t *testing.T) {
	tt, ok := ResolveToolType("LLM")
	if !ok {
		t.Fatal("expected match for LLM")
	}
	if tt != ToolTypeLLM {
		t.Fatalf("expected llm, got %s", tt)
	}

	if _, ok := ResolveToolType("shell"); ok {
		t.Fatal("expected no match for shell")
	}
}

func TestParseTypeRef_KeepsUnknownVerbatim(t *testing.T) {
	ref := ParseTypeRef("CustomConnection")
	if ref.Resolved() {
		t.Fatal("expected unresolved ref")
	}
	if ref.Tag() != "CustomConnection" {
		t.Fatalf("expected verbatim tag, got %q", ref.Tag())
	}
	if _, ok := ref.Kind(); ok {
		t.Fatal("unresolved ref must not report a kind")
	}
}

func TestParseTypeRef_EmptyTagStaysUnresolved(t *testing.T) {
	// The empty string is not a ValueType member; it must not collapse
	// into the resolved state.
	ref := ParseTypeRef("")
	if ref.Resolved() {
		t.Fatal("expected unresolved ref for empty tag")
	}
	if _, ok := ref.Kind(); ok {
		t.Fatal("empty tag must not report a kind")
	}
	if ref.Tag() != "" {
		t.Fatalf("expected verbatim empty tag, got %q", ref.Tag())
	}

	var zero TypeRef
	if zero.Resolved() {
		t.Fatal("zero TypeRef must be unresolved")
	}
}

func TestParseTypeRef_ResolvesKnown(t *testing.T) {
	ref := ParseTypeRef("INT")
	if !ref.Resolved() {
		t.Fatal("expected resolved ref")
	}
	k, ok := ref.Kind()
	if !ok || k != ValueTypeInt {
		t.Fatalf("expected int, got %v", k)
	}
	if ref.Tag() != "int" {
		t.Fatalf("expected canonical tag, got %q", ref.Tag())
	}
}
