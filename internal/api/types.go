package api

import (
	"encoding/json"
	"time"
)

// --- POST /v1/tools/validate request/response ---

// ValidateRequest is the JSON body for POST /v1/tools/validate.
type ValidateRequest struct {
	Document json.RawMessage `json:"document"`
}

// CheckResultResp is a single validator finding in the response.
type CheckResultResp struct {
	Validator  string  `json:"validator"`
	Category   string  `json:"category"`
	Triggered  bool    `json:"triggered"`
	Confidence float32 `json:"confidence"`
	Deferred   bool    `json:"deferred"`
	Details    *string `json:"details"`
}

// ValidateResponse is the JSON body returned by POST /v1/tools/validate.
// Normalized holds the document re-serialized from the parsed contract.
type ValidateResponse struct {
	Verdict    string            `json:"verdict"`
	RequestID  string            `json:"request_id"`
	Reason     *string           `json:"reason"`
	Checks     []CheckResultResp `json:"checks"`
	Normalized json.RawMessage   `json:"normalized"`
	LatencyMs  float64           `json:"latency_ms"`
}

// --- Project CRUD ---

// CreateProjectReq is the JSON body for POST /api/toolspec/projects.
type CreateProjectReq struct {
	Name string `json:"name"`
}

// CreateProjectResp includes the plaintext API key (shown once).
type CreateProjectResp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	APIKey       string    `json:"api_key"`
	APIKeyPrefix string    `json:"api_key_prefix"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProjectResp is the project view without the plaintext key.
type ProjectResp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	APIKeyPrefix string    `json:"api_key_prefix"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RotateKeyResp includes the new plaintext API key (shown once).
type RotateKeyResp struct {
	APIKey       string `json:"api_key"`
	APIKeyPrefix string `json:"api_key_prefix"`
}

// --- Tool definition CRUD ---

// ToolResp is one stored definition. Document is the normalized wire form.
type ToolResp struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	ToolName  string          `json:"tool_name"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertToolResp is returned by PUT tool endpoints: the stored record plus
// the validation outcome that admitted it.
type UpsertToolResp struct {
	Tool    ToolResp          `json:"tool"`
	Verdict string            `json:"verdict"`
	Reason  *string           `json:"reason"`
	Checks  []CheckResultResp `json:"checks"`
}

// ToolListResp is the body for GET tool list endpoints.
type ToolListResp struct {
	Tools []ToolResp `json:"tools"`
	Total int        `json:"total"`
}

// ErrorResp is a standard error response body.
type ErrorResp struct {
	Detail string `json:"detail"`
}
