package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/dbutil"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var conversationFields = []string{"id", "organization_id", "user_id", "project_id", "agent_config_id", "title", "message_count", "is_archived", "is_active", "ctime", "mtime"}

func (r *ConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	data := map[string]interface{}{
		"id":              conv.ID,
		"organization_id": conv.OrganizationID,
		"user_id":         conv.UserID,
		"project_id":      conv.ProjectID,
		"agent_config_id": conv.AgentConfigID,
		"title":           conv.Title,
		"message_count":   conv.MessageCount,
		"is_archived":     conv.IsArchived,
		"is_active":       conv.IsActive,
		"ctime":           conv.Ctime,
		"mtime":           conv.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("conversations", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ConversationRepo) Get(ctx context.Context, orgID, id string) (*model.Conversation, error) {
	sqlStr, args, err := builder.BuildSelect("conversations", map[string]interface{}{"id": id, "organization_id": orgID}, conversationFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	var conv model.Conversation
	if err := row.Scan(&conv.ID, &conv.OrganizationID, &conv.UserID, &conv.ProjectID, &conv.AgentConfigID, &conv.Title, &conv.MessageCount, &conv.IsArchived, &conv.IsActive, &conv.Ctime, &conv.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepo) ListByUser(ctx context.Context, orgID, userID string, includeArchived bool, offset, limit int) ([]model.Conversation, error) {
	where := map[string]interface{}{
		"organization_id": orgID,
		"user_id":         userID,
		"is_active":       true,
		"_orderby":        "mtime desc",
		"_limit":          []uint{uint(offset), uint(limit)},
	}
	if !includeArchived {
		where["is_archived"] = false
	}
	sqlStr, args, err := builder.BuildSelect("conversations", where, conversationFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Conversation
	for rows.Next() {
		var conv model.Conversation
		if err := rows.Scan(&conv.ID, &conv.OrganizationID, &conv.UserID, &conv.ProjectID, &conv.AgentConfigID, &conv.Title, &conv.MessageCount, &conv.IsArchived, &conv.IsActive, &conv.Ctime, &conv.Mtime); err != nil {
			return nil, err
		}
		items = append(items, conv)
	}
	return items, rows.Err()
}

func (r *ConversationRepo) Update(ctx context.Context, conv *model.Conversation) error {
	where := map[string]interface{}{"id": conv.ID, "organization_id": conv.OrganizationID}
	update := map[string]interface{}{
		"title":       conv.Title,
		"is_archived": conv.IsArchived,
		"mtime":       conv.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("conversations", where, update)
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

func (r *ConversationRepo) BumpMessageCount(ctx context.Context, orgID, id string, delta int, now int64) error {
	const query = `
		UPDATE conversations
		SET message_count = GREATEST(message_count + $1, 0), mtime = $2
		WHERE id = $3 AND organization_id = $4
	`
	_, err := r.db.ExecContext(ctx, query, delta, now, id, orgID)
	return err
}

func (r *ConversationRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	const query = `UPDATE conversations SET is_active = FALSE, mtime = $1 WHERE id = $2 AND organization_id = $3`
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
