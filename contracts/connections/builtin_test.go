package connections

import (
	"testing"

	"github.com/flowmesh-ai/toolspec/contracts"
)

func TestBuiltinRegistry_ResolvesKnownClasses(t *testing.T) {
	conns := contracts.NewConnections(BuiltinRegistry())

	for _, name := range []string{
		"AzureOpenAIConnection",
		"OpenAIConnection",
		"SerpConnection",
		"CognitiveSearchConnection",
		"ContentSafetyConnection",
		"CustomConnection",
	} {
		if !conns.IsClassName(name) {
			t.Fatalf("expected %s to be registered", name)
		}
	}
	if conns.IsClassName("SnowflakeConnection") {
		t.Fatal("unexpected class registered")
	}
}

func TestBuiltinRegistry_ConnectionValues(t *testing.T) {
	conns := contracts.NewConnections(BuiltinRegistry())

	if !conns.IsValue(AzureOpenAIConnection{APIKey: "sk"}) {
		t.Fatal("expected struct value to be a connection")
	}
	if !conns.IsValue(&OpenAIConnection{}) {
		t.Fatal("expected pointer value to be a connection")
	}
	if conns.IsValue("just a string") {
		t.Fatal("string is not a connection")
	}
}

func TestBuiltinRegistry_CustomStrongType(t *testing.T) {
	type weatherConnection struct {
		CustomConnection
		Region string
	}

	conns := contracts.NewConnections(BuiltinRegistry())
	if !conns.IsValue(weatherConnection{}) {
		t.Fatal("expected embedded CustomConnection to make value a connection")
	}
}
