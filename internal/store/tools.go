package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ToolRecord represents a row in the tool_definitions table. Document holds
// the serialized contract wire form as JSONB.
type ToolRecord struct {
	ID        string
	ProjectID string
	ToolName  string
	Document  json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertTool inserts or replaces the definition document for a
// (project, tool name) pair.
func (s *Store) UpsertTool(ctx context.Context, projectID, toolName string, document json.RawMessage) (*ToolRecord, error) {
	var rec ToolRecord
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tool_definitions (project_id, tool_name, document)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, tool_name)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()
		RETURNING id, project_id, tool_name, document, created_at, updated_at`,
		projectID, toolName, document,
	).Scan(&rec.ID, &rec.ProjectID, &rec.ToolName, &rec.Document, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("UpsertTool: %w", err)
	}
	return &rec, nil
}

// GetTool returns the definition record for a (project, tool name) pair, or
// nil if not found.
func (s *Store) GetTool(ctx context.Context, projectID, toolName string) (*ToolRecord, error) {
	var rec ToolRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, tool_name, document, created_at, updated_at
		FROM tool_definitions
		WHERE project_id = $1 AND tool_name = $2`, projectID, toolName,
	).Scan(&rec.ID, &rec.ProjectID, &rec.ToolName, &rec.Document, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetTool: %w", err)
	}
	return &rec, nil
}

// ListTools returns all definition records for a project ordered by tool name.
func (s *Store) ListTools(ctx context.Context, projectID string) ([]*ToolRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, tool_name, document, created_at, updated_at
		FROM tool_definitions
		WHERE project_id = $1 ORDER BY tool_name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListTools: %w", err)
	}
	defer rows.Close()

	var records []*ToolRecord
	for rows.Next() {
		var rec ToolRecord
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.ToolName, &rec.Document,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ListTools: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteTool removes the definition for a (project, tool name) pair.
func (s *Store) DeleteTool(ctx context.Context, projectID, toolName string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM tool_definitions
		WHERE project_id = $1 AND tool_name = $2`, projectID, toolName)
	if err != nil {
		return fmt.Errorf("DeleteTool: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
