package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type AgentConfigRepo struct {
	db *sql.DB
}

func NewAgentConfigRepo(db *sql.DB) *AgentConfigRepo {
	return &AgentConfigRepo{db: db}
}

var agentConfigFields = []string{"id", "organization_id", "project_id", "name", "description", "model", "system_prompt", "temperature", "max_tokens", "is_active", "ctime", "mtime"}

func (r *AgentConfigRepo) Create(ctx context.Context, cfg *model.AgentConfig) error {
	data := map[string]interface{}{
		"id":              cfg.ID,
		"organization_id": cfg.OrganizationID,
		"project_id":      cfg.ProjectID,
		"name":            cfg.Name,
		"description":     cfg.Description,
		"model":           cfg.Model,
		"system_prompt":   cfg.SystemPrompt,
		"temperature":     cfg.Temperature,
		"max_tokens":      cfg.MaxTokens,
		"is_active":       cfg.IsActive,
		"ctime":           cfg.Ctime,
		"mtime":           cfg.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("agent_configs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *AgentConfigRepo) Get(ctx context.Context, orgID, id string) (*model.AgentConfig, error) {
	sqlStr, args, err := builder.BuildSelect("agent_configs", map[string]interface{}{"id": id, "organization_id": orgID}, agentConfigFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var cfg model.AgentConfig
	if err := row.Scan(&cfg.ID, &cfg.OrganizationID, &cfg.ProjectID, &cfg.Name, &cfg.Description, &cfg.Model, &cfg.SystemPrompt, &cfg.Temperature, &cfg.MaxTokens, &cfg.IsActive, &cfg.Ctime, &cfg.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *AgentConfigRepo) ListByOrg(ctx context.Context, orgID string, offset, limit int) ([]model.AgentConfig, error) {
	where := map[string]interface{}{
		"organization_id": orgID,
		"is_active":       true,
		"_orderby":        "ctime desc",
		"_limit":          []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("agent_configs", where, agentConfigFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.AgentConfig
	for rows.Next() {
		var cfg model.AgentConfig
		if err := rows.Scan(&cfg.ID, &cfg.OrganizationID, &cfg.ProjectID, &cfg.Name, &cfg.Description, &cfg.Model, &cfg.SystemPrompt, &cfg.Temperature, &cfg.MaxTokens, &cfg.IsActive, &cfg.Ctime, &cfg.Mtime); err != nil {
			return nil, err
		}
		items = append(items, cfg)
	}
	return items, rows.Err()
}

func (r *AgentConfigRepo) Update(ctx context.Context, cfg *model.AgentConfig) error {
	where := map[string]interface{}{"id": cfg.ID, "organization_id": cfg.OrganizationID}
	update := map[string]interface{}{
		"name":          cfg.Name,
		"description":   cfg.Description,
		"model":         cfg.Model,
		"system_prompt": cfg.SystemPrompt,
		"temperature":   cfg.Temperature,
		"max_tokens":    cfg.MaxTokens,
		"is_active":     cfg.IsActive,
		"mtime":         cfg.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("agent_configs", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *AgentConfigRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	const query = `UPDATE agent_configs SET is_active = FALSE, mtime = $1 WHERE id = $2 AND organization_id = $3`
	result, err := r.db.ExecContext(ctx, query, now, id, orgID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
