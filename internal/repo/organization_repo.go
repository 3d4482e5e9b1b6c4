package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type OrganizationRepo struct {
	db *sql.DB
}

func NewOrganizationRepo(db *sql.DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

var organizationFields = []string{"id", "name", "domain", "description", "plan", "is_active", "ctime", "mtime"}

func (r *OrganizationRepo) Create(ctx context.Context, org *model.Organization) error {
	data := map[string]interface{}{
		"id":          org.ID,
		"name":        org.Name,
		"domain":      org.Domain,
		"description": org.Description,
		"plan":        org.Plan,
		"is_active":   org.IsActive,
		"ctime":       org.Ctime,
		"mtime":       org.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("organizations", []map[string]interface{}{data})
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

func (r *OrganizationRepo) Get(ctx context.Context, id string) (*model.Organization, error) {
	sqlStr, args, err := builder.BuildSelect("organizations", map[string]interface{}{"id": id}, organizationFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	return scanOrganization(row)
}

func (r *OrganizationRepo) List(ctx context.Context, activeOnly bool, offset, limit int) ([]model.Organization, error) {
	where := map[string]interface{}{
		"_orderby": "ctime desc",
		"_limit":   []uint{uint(offset), uint(limit)},
	}
	if activeOnly {
		where["is_active"] = true
	}
	sqlStr, args, err := builder.BuildSelect("organizations", where, organizationFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Organization
	for rows.Next() {
		var org model.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Domain, &org.Description, &org.Plan, &org.IsActive, &org.Ctime, &org.Mtime); err != nil {
			return nil, err
		}
		items = append(items, org)
	}
	return items, rows.Err()
}

func (r *OrganizationRepo) Update(ctx context.Context, org *model.Organization) error {
	where := map[string]interface{}{"id": org.ID}
	update := map[string]interface{}{
		"name":        org.Name,
		"domain":      org.Domain,
		"description": org.Description,
		"plan":        org.Plan,
		"is_active":   org.IsActive,
		"mtime":       org.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("organizations", where, update)
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

func (r *OrganizationRepo) Deactivate(ctx context.Context, id string, now int64) error {
	const query = `UPDATE organizations SET is_active = FALSE, mtime = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, now, id)
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

func scanOrganization(row *sql.Row) (*model.Organization, error) {
	var org model.Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Domain, &org.Description, &org.Plan, &org.IsActive, &org.Ctime, &org.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}
