package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flowmesh-ai/toolspec/contracts"
	"go.uber.org/zap"
)

// DocumentStore abstracts DB queries for testability.
type DocumentStore interface {
	LookupDocument(ctx context.Context, projectID, toolName string) (json.RawMessage, error)
}

// sqlDocumentStore is the real implementation using *sql.DB.
type sqlDocumentStore struct {
	db *sql.DB
}

func (s *sqlDocumentStore) LookupDocument(ctx context.Context, projectID, toolName string) (json.RawMessage, error) {
	var doc json.RawMessage
	err := s.db.QueryRowContext(ctx, `
		SELECT document
		FROM tool_definitions
		WHERE project_id = $1 AND tool_name = $2
	`, projectID, toolName).Scan(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// PostgresDefinitionSource serves contracts from the tool_definitions table.
type PostgresDefinitionSource struct {
	store  DocumentStore
	cache  *DefinitionCache
	logger *zap.Logger
}

// PostgresDefinitionSourceConfig configures the PostgresDefinitionSource.
type PostgresDefinitionSourceConfig struct {
	DB       *sql.DB
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewPostgresDefinitionSource creates a new PostgresDefinitionSource.
func NewPostgresDefinitionSource(cfg PostgresDefinitionSourceConfig) *PostgresDefinitionSource {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 60 * time.Second
	}
	return &PostgresDefinitionSource{
		store:  &sqlDocumentStore{db: cfg.DB},
		cache:  NewDefinitionCache(ttl),
		logger: cfg.Logger,
	}
}

// newPostgresDefinitionSourceWithStore creates a source with a custom store (for testing).
func newPostgresDefinitionSourceWithStore(store DocumentStore, cacheTTL time.Duration, logger *zap.Logger) *PostgresDefinitionSource {
	if cacheTTL == 0 {
		cacheTTL = 60 * time.Second
	}
	return &PostgresDefinitionSource{
		store:  store,
		cache:  NewDefinitionCache(cacheTTL),
		logger: logger,
	}
}

func (r *PostgresDefinitionSource) GetDefinition(ctx context.Context, projectID, toolName string) (*contracts.Tool, error) {
	// Check cache
	cacheResult := r.cache.Get(projectID, toolName)
	if cacheResult.Hit {
		if cacheResult.NeedsRefresh {
			go r.refreshInBackground(projectID, toolName)
		}
		return cacheResult.Tool, nil
	}

	// Cache miss — fetch from DB
	tool, err := r.fetchFromDB(ctx, projectID, toolName)
	if err != nil {
		if err == sql.ErrNoRows {
			// Negative cache: no stored definition
			r.cache.Set(projectID, toolName, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("GetDefinition: %w", err)
	}

	r.cache.Set(projectID, toolName, tool)
	return tool, nil
}

// Invalidate drops the cached entry for a project+tool pair. Called after
// upserts and deletes so readers see the new document promptly.
func (r *PostgresDefinitionSource) Invalidate(projectID, toolName string) {
	r.cache.Delete(projectID, toolName)
}

func (r *PostgresDefinitionSource) fetchFromDB(ctx context.Context, projectID, toolName string) (*contracts.Tool, error) {
	doc, err := r.store.LookupDocument(ctx, projectID, toolName)
	if err != nil {
		return nil, err
	}
	return parseDocument(doc)
}

func (r *PostgresDefinitionSource) refreshInBackground(projectID, toolName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tool, err := r.fetchFromDB(ctx, projectID, toolName)
	if err != nil {
		r.logger.Warn("background definition refresh failed",
			zap.String("project_id", projectID),
			zap.String("tool_name", toolName),
			zap.Error(err),
		)
		return
	}
	r.cache.Set(projectID, toolName, tool)
}

func parseDocument(doc json.RawMessage) (*contracts.Tool, error) {
	var data map[string]any
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("parseDocument: %w", err)
	}
	tool, err := contracts.DeserializeTool(data)
	if err != nil {
		return nil, fmt.Errorf("parseDocument: %w", err)
	}
	return &tool, nil
}
