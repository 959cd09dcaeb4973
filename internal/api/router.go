package api

import (
	"net/http"
	"time"

	"github.com/flowmesh-ai/toolspec/contracts"
	"github.com/flowmesh-ai/toolspec/internal/engine"
	"github.com/flowmesh-ai/toolspec/internal/registry"
	"github.com/flowmesh-ai/toolspec/internal/storage"
	"github.com/flowmesh-ai/toolspec/internal/store"
	"go.uber.org/zap"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Store    *store.Store
	Source   *registry.PostgresDefinitionSource
	Engine   *engine.ValidationEngine
	AggCfg   engine.AggregatorConfig
	Conns    *contracts.Connections
	Writer   storage.EventWriter
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// SDK endpoints (auth required via Bearer tpk_ token)
	mux.HandleFunc("POST /v1/tools/validate", deps.authMiddleware(deps.handleValidate))
	mux.HandleFunc("GET /v1/tools/{tool_name}", deps.authMiddleware(deps.handleResolveTool))

	// Project CRUD (no auth — dashboard auth added later)
	mux.HandleFunc("POST /api/toolspec/projects", deps.handleCreateProject)
	mux.HandleFunc("GET /api/toolspec/projects", deps.handleListProjects)
	mux.HandleFunc("GET /api/toolspec/projects/{project_id}", deps.handleGetProject)
	mux.HandleFunc("DELETE /api/toolspec/projects/{project_id}", deps.handleDeleteProject)
	mux.HandleFunc("POST /api/toolspec/projects/{project_id}/rotate-key", deps.handleRotateKey)

	// Tool definition CRUD (no auth)
	mux.HandleFunc("GET /api/toolspec/projects/{project_id}/tools", deps.handleListTools)
	mux.HandleFunc("PUT /api/toolspec/projects/{project_id}/tools/{tool_name}", deps.handleUpsertTool)
	mux.HandleFunc("GET /api/toolspec/projects/{project_id}/tools/{tool_name}", deps.handleGetTool)
	mux.HandleFunc("DELETE /api/toolspec/projects/{project_id}/tools/{tool_name}", deps.handleDeleteTool)

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return corsMiddleware(requestLogging(mux, deps.Logger))
}
