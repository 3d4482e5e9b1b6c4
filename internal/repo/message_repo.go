package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var messageFields = []string{"id", "conversation_id", "organization_id", "role", "content", "tokens_used", "is_active", "ctime"}

func (r *MessageRepo) Create(ctx context.Context, msg *model.Message) error {
	data := map[string]interface{}{
		"id":              msg.ID,
		"conversation_id": msg.ConversationID,
		"organization_id": msg.OrganizationID,
		"role":            msg.Role,
		"content":         msg.Content,
		"tokens_used":     msg.TokensUsed,
		"is_active":       msg.IsActive,
		"ctime":           msg.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("messages", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *MessageRepo) Get(ctx context.Context, orgID, conversationID, id string) (*model.Message, error) {
	where := map[string]interface{}{
		"id":              id,
		"conversation_id": conversationID,
		"organization_id": orgID,
	}
	sqlStr, args, err := builder.BuildSelect("messages", where, messageFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var msg model.Message
	if err := row.Scan(&msg.ID, &msg.ConversationID, &msg.OrganizationID, &msg.Role, &msg.Content, &msg.TokensUsed, &msg.IsActive, &msg.Ctime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, orgID, conversationID string, offset, limit int) ([]model.Message, error) {
	where := map[string]interface{}{
		"conversation_id": conversationID,
		"organization_id": orgID,
		"is_active":       true,
		"_orderby":        "ctime asc",
		"_limit":          []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("messages", where, messageFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListRecent returns the newest messages of a conversation in chronological
// order, for building conversation history.
func (r *MessageRepo) ListRecent(ctx context.Context, orgID, conversationID string, limit int) ([]model.Message, error) {
	const query = `
		SELECT id, conversation_id, organization_id, role, content, tokens_used, is_active, ctime
		FROM (
			SELECT * FROM messages
			WHERE conversation_id = $1 AND organization_id = $2 AND is_active = TRUE
			ORDER BY ctime DESC
			LIMIT $3
		) recent
		ORDER BY ctime ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// GetByIDs resolves vector-index hits against stored rows. Missing, inactive
// and cross-tenant ids are silently omitted.
func (r *MessageRepo) GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, conversation_id, organization_id, role, content, tokens_used, is_active, ctime
		FROM messages
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
	return scanMessages(rows)
}

func (r *MessageRepo) Delete(ctx context.Context, orgID, conversationID, id string) error {
	const query = `UPDATE messages SET is_active = FALSE WHERE id = $1 AND conversation_id = $2 AND organization_id = $3`
	result, err := r.db.ExecContext(ctx, query, id, conversationID, orgID)
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

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var items []model.Message
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.OrganizationID, &msg.Role, &msg.Content, &msg.TokensUsed, &msg.IsActive, &msg.Ctime); err != nil {
			return nil, err
		}
		items = append(items, msg)
	}
	return items, rows.Err()
}
