package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

var roleFields = []string{"id", "organization_id", "name", "description", "permissions", "is_active", "ctime", "mtime"}

func (r *RoleRepo) Create(ctx context.Context, role *model.Role) error {
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":              role.ID,
		"organization_id": role.OrganizationID,
		"name":            role.Name,
		"description":     role.Description,
		"permissions":     perms,
		"is_active":       role.IsActive,
		"ctime":           role.Ctime,
		"mtime":           role.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("roles", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *RoleRepo) Get(ctx context.Context, orgID, id string) (*model.Role, error) {
	sqlStr, args, err := builder.BuildSelect("roles", map[string]interface{}{"id": id, "organization_id": orgID}, roleFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var role model.Role
	var perms []byte
	if err := row.Scan(&role.ID, &role.OrganizationID, &role.Name, &role.Description, &perms, &role.IsActive, &role.Ctime, &role.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(perms, &role.Permissions); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) ListByOrg(ctx context.Context, orgID string) ([]model.Role, error) {
	where := map[string]interface{}{
		"organization_id": orgID,
		"is_active":       true,
		"_orderby":        "name asc",
	}
	sqlStr, args, err := builder.BuildSelect("roles", where, roleFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Role
	for rows.Next() {
		var role model.Role
		var perms []byte
		if err := rows.Scan(&role.ID, &role.OrganizationID, &role.Name, &role.Description, &perms, &role.IsActive, &role.Ctime, &role.Mtime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(perms, &role.Permissions); err != nil {
			return nil, err
		}
		items = append(items, role)
	}
	return items, rows.Err()
}

func (r *RoleRepo) Update(ctx context.Context, role *model.Role) error {
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return err
	}
	where := map[string]interface{}{"id": role.ID, "organization_id": role.OrganizationID}
	update := map[string]interface{}{
		"name":        role.Name,
		"description": role.Description,
		"permissions": perms,
		"is_active":   role.IsActive,
		"mtime":       role.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("roles", where, update)
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

func (r *RoleRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	const query = `UPDATE roles SET is_active = FALSE, mtime = $1 WHERE id = $2 AND organization_id = $3`
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
