package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowmesh-ai/toolspec/internal/engine"
	"github.com/flowmesh-ai/toolspec/internal/storage"
	"github.com/flowmesh-ai/toolspec/internal/store"
)

// handleUpsertTool implements PUT /api/toolspec/projects/{project_id}/tools/{tool_name}.
// The document is validated before it is stored; invalid documents are rejected.
func (d *Dependencies) handleUpsertTool(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	projectID := r.PathValue("project_id")
	toolName := r.PathValue("tool_name")

	var raw json.RawMessage
	if err := readJSON(r, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}

	project, err := d.Store.GetProject(r.Context(), projectID)
	if err != nil {
		d.Logger.Error("failed to get project", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to get project"})
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Project not found."})
		return
	}

	outcome, errDetail := d.checkDocument(r, raw)
	if errDetail != "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: errDetail})
		return
	}
	if outcome.agg.Verdict == engine.VerdictInvalid {
		requestID := uuid.New().String()
		d.writeToolEvent(projectID, requestID, "rejected", outcome, elapsedMs(start))
		writeJSON(w, http.StatusUnprocessableEntity, UpsertToolResp{
			Verdict: string(outcome.agg.Verdict),
			Reason:  optionalString(outcome.agg.Reason),
			Checks:  checksToResp(outcome.results),
		})
		return
	}
	if outcome.tool.Name != toolName {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "document name does not match URL tool name"})
		return
	}

	// The submitted document is stored as-is: the contract wire form never
	// carries outputs, so the normalized rendering would drop them.
	rec, err := d.Store.UpsertTool(r.Context(), projectID, toolName, raw)
	if err != nil {
		d.Logger.Error("failed to upsert tool", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to store tool definition"})
		return
	}
	d.Source.Invalidate(projectID, toolName)

	requestID := uuid.New().String()
	d.writeToolEvent(projectID, requestID, "registered", outcome, elapsedMs(start))

	writeJSON(w, http.StatusOK, UpsertToolResp{
		Tool:    toolToResp(rec),
		Verdict: string(outcome.agg.Verdict),
		Reason:  optionalString(outcome.agg.Reason),
		Checks:  checksToResp(outcome.results),
	})
}

// handleResolveTool implements GET /v1/tools/{tool_name}: the serving path
// for orchestrators, reading through the cached definition source.
func (d *Dependencies) handleResolveTool(w http.ResponseWriter, r *http.Request) {
	toolName := r.PathValue("tool_name")

	proj := projectFromContext(r.Context())
	if proj == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "missing project context"})
		return
	}

	tool, err := d.Source.GetDefinition(r.Context(), proj.ID, toolName)
	if err != nil {
		d.Logger.Error("failed to resolve tool", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to resolve tool definition"})
		return
	}
	if tool == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Tool definition not found."})
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (d *Dependencies) handleGetTool(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("project_id")
	toolName := r.PathValue("tool_name")

	rec, err := d.Store.GetTool(r.Context(), projectID, toolName)
	if err != nil {
		d.Logger.Error("failed to get tool", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to get tool definition"})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Tool definition not found."})
		return
	}
	writeJSON(w, http.StatusOK, toolToResp(rec))
}

func (d *Dependencies) handleListTools(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("project_id")

	records, err := d.Store.ListTools(r.Context(), projectID)
	if err != nil {
		d.Logger.Error("failed to list tools", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to list tool definitions"})
		return
	}

	tools := make([]ToolResp, 0, len(records))
	for _, rec := range records {
		tools = append(tools, toolToResp(rec))
	}
	writeJSON(w, http.StatusOK, ToolListResp{Tools: tools, Total: len(tools)})
}

func (d *Dependencies) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("project_id")
	toolName := r.PathValue("tool_name")

	err := d.Store.DeleteTool(r.Context(), projectID, toolName)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "Tool definition not found."})
		return
	}
	if err != nil {
		d.Logger.Error("failed to delete tool", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "Failed to delete tool definition"})
		return
	}
	d.Source.Invalidate(projectID, toolName)

	d.Writer.Write(&storage.ToolEvent{
		RequestID: uuid.New().String(),
		ProjectID: projectID,
		Timestamp: time.Now(),
		ToolName:  toolName,
		Action:    "deleted",
		Source:    "api",
	})

	w.WriteHeader(http.StatusNoContent)
}

func toolToResp(rec *store.ToolRecord) ToolResp {
	return ToolResp{
		ID:        rec.ID,
		ProjectID: rec.ProjectID,
		ToolName:  rec.ToolName,
		Document:  rec.Document,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func elapsedMs(start time.Time) float32 {
	return float32(float64(time.Since(start)) / float64(time.Millisecond))
}
