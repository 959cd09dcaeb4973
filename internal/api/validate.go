package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/flowmesh-ai/toolspec/contracts"
	"github.com/flowmesh-ai/toolspec/internal/engine"
	"github.com/flowmesh-ai/toolspec/internal/storage"
)

// handleValidate implements POST /v1/tools/validate.
// Auth middleware has already validated the Bearer token and injected the project.
func (d *Dependencies) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ValidateRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	if len(req.Document) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "document is required"})
		return
	}

	proj := projectFromContext(r.Context())
	if proj == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "missing project context"})
		return
	}

	outcome, errDetail := d.checkDocument(r, req.Document)
	if errDetail != "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: errDetail})
		return
	}

	requestID := uuid.New().String()
	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

	// Fire-and-forget: record the validation event
	d.writeToolEvent(proj.ID, requestID, "validated", outcome, float32(latencyMs))

	writeJSON(w, http.StatusOK, ValidateResponse{
		Verdict:    string(outcome.agg.Verdict),
		RequestID:  requestID,
		Reason:     optionalString(outcome.agg.Reason),
		Checks:     checksToResp(outcome.results),
		Normalized: outcome.normalized,
		LatencyMs:  latencyMs,
	})
}

// checkOutcome bundles everything produced by one engine run over a document.
type checkOutcome struct {
	tool       *contracts.Tool
	results    []engine.Result
	agg        engine.AggregateResult
	normalized json.RawMessage
	engineDur  time.Duration
}

// checkDocument parses a raw document and runs the validation engine over it.
// Returns a non-empty error detail for client errors (malformed document).
func (d *Dependencies) checkDocument(r *http.Request, raw json.RawMessage) (*checkOutcome, string) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, "document must be a JSON object"
	}

	// Deserialize up front so validators see the parsed contract. A document
	// that fails structural parsing still runs through the document schema
	// validator below with a nil Tool.
	var tool *contracts.Tool
	if t, err := contracts.DeserializeTool(doc); err == nil {
		tool = &t
	}

	results, dur := d.Engine.Validate(r.Context(), &engine.CheckRequest{
		Document: doc,
		Tool:     tool,
		Conns:    d.Conns,
	})
	agg := engine.Aggregate(results, d.AggCfg)

	// Parse failure is a hard fault even when no validator caught it.
	if tool == nil && agg.Verdict != engine.VerdictInvalid {
		agg.Verdict = engine.VerdictInvalid
		if agg.Reason == "" {
			agg.Reason = "document does not parse as a tool contract"
		}
	}

	var normalized json.RawMessage
	if tool != nil {
		if b, err := json.Marshal(tool); err == nil {
			normalized = b
		}
	}

	return &checkOutcome{
		tool:       tool,
		results:    results,
		agg:        agg,
		normalized: normalized,
		engineDur:  dur,
	}, ""
}

// writeToolEvent builds a ToolEvent and fires it to the async event writer.
func (d *Dependencies) writeToolEvent(projectID, requestID, action string, outcome *checkOutcome, latencyMs float32) {
	categories := make([]string, len(outcome.results))
	triggered := make([]bool, len(outcome.results))
	confidences := make([]float32, len(outcome.results))
	details := make([]string, len(outcome.results))
	for i, res := range outcome.results {
		categories[i] = string(res.Category)
		triggered[i] = res.Triggered
		confidences[i] = res.Confidence
		details[i] = res.Details
	}

	event := &storage.ToolEvent{
		RequestID:        requestID,
		ProjectID:        projectID,
		Timestamp:        time.Now(),
		Action:           action,
		Verdict:          string(outcome.agg.Verdict),
		Reason:           outcome.agg.Reason,
		CheckCategories:  categories,
		CheckTriggered:   triggered,
		CheckConfidences: confidences,
		CheckDetails:     details,
		LatencyMs:        latencyMs,
		Source:           "api",
	}
	if outcome.tool != nil {
		event.ToolName = outcome.tool.Name
		event.ToolKind = string(outcome.tool.Type)
		event.InputCount = int32(len(outcome.tool.Inputs))
		event.OutputCount = int32(len(outcome.tool.Outputs))
		event.ConnectionTypes = outcome.tool.ConnectionType
	}

	d.Writer.Write(event)
}

func checksToResp(results []engine.Result) []CheckResultResp {
	checks := make([]CheckResultResp, 0, len(results))
	for _, res := range results {
		checks = append(checks, CheckResultResp{
			Validator:  res.Validator,
			Category:   string(res.Category),
			Triggered:  res.Triggered,
			Confidence: res.Confidence,
			Deferred:   res.Deferred,
			Details:    optionalString(res.Details),
		})
	}
	return checks
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
