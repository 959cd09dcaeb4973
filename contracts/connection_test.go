package contracts

import (
	"reflect"
	"testing"
)

type fakeOpenAIConnection struct {
	APIKey Secret
}

type fakeSerperConnection struct {
	APIKey Secret
	name   string
}

func (c fakeSerperConnection) ConnectionName() string { return c.name }

type customStrongTypeBase struct{}

type weatherConnection struct {
	customStrongTypeBase
	Endpoint string
}

func newTestRegistry() *TypeRegistry {
	reg := NewTypeRegistry()
	reg.Register("FakeOpenAIConnection", reflect.TypeOf(fakeOpenAIConnection{}))
	reg.Register("FakeSerperConnection", reflect.TypeOf(fakeSerperConnection{}))
	reg.SetCustomBase(reflect.TypeOf(customStrongTypeBase{}))
	return reg
}

func TestConnections_ClassLookup(t *testing.T) {
	conns := NewConnections(newTestRegistry())

	if conns.Class("FakeOpenAIConnection") == nil {
		t.Fatal("expected registered class")
	}
	if conns.Class("Unknown") != nil {
		t.Fatal("expected nil for unknown name")
	}
	if !conns.IsClassName("FakeSerperConnection") {
		t.Fatal("expected registered class name")
	}
	if conns.IsClassName("string") {
		t.Fatal("value type tags are not connection names")
	}
}

func TestConnections_IsValue(t *testing.T) {
	conns := NewConnections(newTestRegistry())

	if !conns.IsValue(fakeOpenAIConnection{APIKey: "k"}) {
		t.Fatal("instance of a registered type is a connection value")
	}
	if !conns.IsValue(reflect.TypeOf(fakeOpenAIConnection{})) {
		t.Fatal("registered type itself is a connection value")
	}
	if conns.IsValue("just a string") {
		t.Fatal("plain string is not a connection value")
	}
	if conns.IsValue(nil) {
		t.Fatal("nil is not a connection value")
	}
}

func TestConnections_CustomStrongType(t *testing.T) {
	conns := NewConnections(newTestRegistry())

	// weatherConnection is not registered by name but embeds the custom base.
	if !conns.IsValue(weatherConnection{Endpoint: "https://example.com"}) {
		t.Fatal("custom strong type must count as a connection")
	}
	if conns.IsValue(42) {
		t.Fatal("non-struct values must fail the base check quietly")
	}
}

func TestConnections_NilRegistry(t *testing.T) {
	conns := NewConnections(nil)

	if conns.IsClassName("FakeOpenAIConnection") {
		t.Fatal("nil registry must report no connection names")
	}
	if conns.IsValue(fakeOpenAIConnection{}) {
		t.Fatal("nil registry must report no connection values")
	}
}

func TestSerializeConnection(t *testing.T) {
	conns := NewConnections(newTestRegistry())

	name, err := conns.SerializeConnection(fakeOpenAIConnection{})
	if err != nil {
		t.Fatal(err)
	}
	if name != "fakeOpenAIConnection" {
		t.Fatalf("expected runtime type name, got %q", name)
	}

	// Explicit names win over the type name.
	name, err = conns.SerializeConnection(fakeSerperConnection{name: "serper-prod"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "serper-prod" {
		t.Fatalf("expected explicit name, got %q", name)
	}

	if _, err := conns.SerializeConnection("not a connection"); err == nil {
		t.Fatal("expected invalid connection value error")
	}
}
