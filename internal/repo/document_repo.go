package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

var documentFields = []string{"id", "organization_id", "project_id", "title", "content", "summary", "document_type", "file_name", "file_key", "file_size", "mime_type", "is_active", "ctime", "mtime"}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	data := map[string]interface{}{
		"id":              doc.ID,
		"organization_id": doc.OrganizationID,
		"project_id":      doc.ProjectID,
		"title":           doc.Title,
		"content":         doc.Content,
		"summary":         doc.Summary,
		"document_type":   doc.DocumentType,
		"file_name":       doc.FileName,
		"file_key":        doc.FileKey,
		"file_size":       doc.FileSize,
		"mime_type":       doc.MimeType,
		"is_active":       doc.IsActive,
		"ctime":           doc.Ctime,
		"mtime":           doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	sqlStr, args, err := builder.BuildSelect("documents", map[string]interface{}{"id": id, "organization_id": orgID}, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var doc model.Document
	if err := scanDocumentRow(row, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepo) ListByOrg(ctx context.Context, orgID, documentType string, activeOnly bool, offset, limit int) ([]model.Document, error) {
	where := map[string]interface{}{
		"organization_id": orgID,
		"_orderby":        "ctime desc",
		"_limit":          []uint{uint(offset), uint(limit)},
	}
	if documentType != "" {
		where["document_type"] = documentType
	}
	if activeOnly {
		where["is_active"] = true
	}
	sqlStr, args, err := builder.BuildSelect("documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListActiveByOrg loads every active document of a tenant, used by the
// keyword half of hybrid search.
func (r *DocumentRepo) ListActiveByOrg(ctx context.Context, orgID string) ([]model.Document, error) {
	const query = `
		SELECT id, organization_id, project_id, title, content, summary, document_type,
		       file_name, file_key, file_size, mime_type, is_active, ctime, mtime
		FROM documents
		WHERE organization_id = $1 AND is_active = TRUE
	`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// GetByIDs resolves vector-index hits against stored rows. Missing, inactive
// and cross-tenant ids are silently omitted.
func (r *DocumentRepo) GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, organization_id, project_id, title, content, summary, document_type,
		       file_name, file_key, file_size, mime_type, is_active, ctime, mtime
		FROM documents
		WHERE id IN (?) AND organization_id = ?
	`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query, args, err := dbutil.In(query, ids, orgID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *DocumentRepo) Update(ctx context.Context, doc *model.Document) error {
	where := map[string]interface{}{
		"id":              doc.ID,
		"organization_id": doc.OrganizationID,
		"is_active":       true,
	}
	update := map[string]interface{}{
		"title":         doc.Title,
		"content":       doc.Content,
		"summary":       doc.Summary,
		"document_type": doc.DocumentType,
		"file_name":     doc.FileName,
		"file_key":      doc.FileKey,
		"file_size":     doc.FileSize,
		"mime_type":     doc.MimeType,
		"mtime":         doc.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("documents", where, update)
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

func (r *DocumentRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	const query = `UPDATE documents SET is_active = FALSE, mtime = $1 WHERE id = $2 AND organization_id = $3`
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

func scanDocumentRow(row *sql.Row, doc *model.Document) error {
	if err := row.Scan(&doc.ID, &doc.OrganizationID, &doc.ProjectID, &doc.Title, &doc.Content, &doc.Summary, &doc.DocumentType, &doc.FileName, &doc.FileKey, &doc.FileSize, &doc.MimeType, &doc.IsActive, &doc.Ctime, &doc.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return appErr.ErrNotFound
		}
		return err
	}
	return nil
}

func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	var items []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(&doc.ID, &doc.OrganizationID, &doc.ProjectID, &doc.Title, &doc.Content, &doc.Summary, &doc.DocumentType, &doc.FileName, &doc.FileKey, &doc.FileSize, &doc.MimeType, &doc.IsActive, &doc.Ctime, &doc.Mtime); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	return items, rows.Err()
}
