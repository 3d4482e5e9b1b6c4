package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

var projectFields = []string{"id", "organization_id", "name", "description", "created_by", "is_active", "ctime", "mtime"}

func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	data := map[string]interface{}{
		"id":              project.ID,
		"organization_id": project.OrganizationID,
		"name":            project.Name,
		"description":     project.Description,
		"created_by":      project.CreatedBy,
		"is_active":       project.IsActive,
		"ctime":           project.Ctime,
		"mtime":           project.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("projects", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ProjectRepo) Get(ctx context.Context, orgID, id string) (*model.Project, error) {
	sqlStr, args, err := builder.BuildSelect("projects", map[string]interface{}{"id": id, "organization_id": orgID}, projectFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var project model.Project
	if err := row.Scan(&project.ID, &project.OrganizationID, &project.Name, &project.Description, &project.CreatedBy, &project.IsActive, &project.Ctime, &project.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) ListByOrg(ctx context.Context, orgID string, offset, limit int) ([]model.Project, error) {
	where := map[string]interface{}{
		"organization_id": orgID,
		"is_active":       true,
		"_orderby":        "ctime desc",
		"_limit":          []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("projects", where, projectFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Project
	for rows.Next() {
		var project model.Project
		if err := rows.Scan(&project.ID, &project.OrganizationID, &project.Name, &project.Description, &project.CreatedBy, &project.IsActive, &project.Ctime, &project.Mtime); err != nil {
			return nil, err
		}
		items = append(items, project)
	}
	return items, rows.Err()
}

func (r *ProjectRepo) Update(ctx context.Context, project *model.Project) error {
	where := map[string]interface{}{"id": project.ID, "organization_id": project.OrganizationID}
	update := map[string]interface{}{
		"name":        project.Name,
		"description": project.Description,
		"is_active":   project.IsActive,
		"mtime":       project.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("projects", where, update)
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

func (r *ProjectRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	const query = `UPDATE projects SET is_active = FALSE, mtime = $1 WHERE id = $2 AND organization_id = $3`
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
