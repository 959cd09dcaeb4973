// Package connections declares the built-in connection classes and registers
// them into a contracts.TypeRegistry for tag resolution.
package connections

import (
	"reflect"

	"github.com/flowmesh-ai/toolspec/contracts"
)

// AzureOpenAIConnection holds credentials for Azure-hosted OpenAI deployments.
type AzureOpenAIConnection struct {
	APIKey     contracts.Secret
	APIBase    string
	APIType    string
	APIVersion string
}

// OpenAIConnection holds credentials for the OpenAI API.
type OpenAIConnection struct {
	APIKey       contracts.Secret
	Organization string
	BaseURL      string
}

// SerpConnection holds credentials for the SerpAPI search service.
type SerpConnection struct {
	APIKey contracts.Secret
}

// CognitiveSearchConnection holds credentials for Azure Cognitive Search.
type CognitiveSearchConnection struct {
	APIKey     contracts.Secret
	APIBase    string
	APIVersion string
}

// ContentSafetyConnection holds credentials for Azure Content Safety.
type ContentSafetyConnection struct {
	APIKey     contracts.Secret
	Endpoint   string
	APIVersion string
}

// CustomConnection is the base for user-defined strong typed connections:
// embed it to make a struct resolvable as a custom connection class.
type CustomConnection struct {
	Secrets map[string]contracts.Secret
	Configs map[string]string
}

// BuiltinRegistry returns a TypeRegistry preloaded with the built-in
// connection classes and the custom connection base.
func BuiltinRegistry() *contracts.TypeRegistry {
	reg := contracts.NewTypeRegistry()
	reg.Register("AzureOpenAIConnection", reflect.TypeOf(AzureOpenAIConnection{}))
	reg.Register("OpenAIConnection", reflect.TypeOf(OpenAIConnection{}))
	reg.Register("SerpConnection", reflect.TypeOf(SerpConnection{}))
	reg.Register("CognitiveSearchConnection", reflect.TypeOf(CognitiveSearchConnection{}))
	reg.Register("ContentSafetyConnection", reflect.TypeOf(ContentSafetyConnection{}))
	reg.Register("CustomConnection", reflect.TypeOf(CustomConnection{}))
	reg.SetCustomBase(reflect.TypeOf(CustomConnection{}))
	return reg
}
