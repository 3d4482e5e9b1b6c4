package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
	"github.com/agentbase/agentbase/internal/repo"
)

type ConversationService struct {
	conversations *repo.ConversationRepo
	messages      *repo.MessageRepo
	queue         *repo.IndexQueueRepo
}

func NewConversationService(conversations *repo.ConversationRepo, messages *repo.MessageRepo, queue *repo.IndexQueueRepo) *ConversationService {
	return &ConversationService{conversations: conversations, messages: messages, queue: queue}
}

type ConversationCreateInput struct {
	ProjectID     string `json:"project_id"`
	AgentConfigID string `json:"agent_config_id"`
	Title         string `json:"title"`
}

func (s *ConversationService) Create(ctx context.Context, orgID, userID string, input ConversationCreateInput) (*model.Conversation, error) {
	now := time.Now().Unix()
	conv := &model.Conversation{
		ID:             newID(),
		OrganizationID: orgID,
		UserID:         userID,
		ProjectID:      input.ProjectID,
		AgentConfigID:  input.AgentConfigID,
		Title:          strings.TrimSpace(input.Title),
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if conv.Title == "" {
		conv.Title = "New conversation"
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) Get(ctx context.Context, orgID, id string) (*model.Conversation, error) {
	return s.conversations.Get(ctx, orgID, id)
}

func (s *ConversationService) List(ctx context.Context, orgID, userID string, includeArchived bool, offset, limit int) ([]model.Conversation, error) {
	return s.conversations.ListByUser(ctx, orgID, userID, includeArchived, offset, normalizeLimit(limit))
}

func (s *ConversationService) SetArchived(ctx context.Context, orgID, id string, archived bool) (*model.Conversation, error) {
	conv, err := s.conversations.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	conv.IsArchived = archived
	conv.Mtime = time.Now().Unix()
	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) Delete(ctx context.Context, orgID, id string) error {
	return s.conversations.Delete(ctx, orgID, id, time.Now().Unix())
}

// AddMessage persists one message and queues it for vector indexing. The
// queue write is best-effort: losing an index entry degrades recall, not
// correctness, and the cron worker retries everything still pending.
func (s *ConversationService) AddMessage(ctx context.Context, orgID, conversationID, role, content string) (*model.Message, error) {
	if role != model.MessageRoleUser && role != model.MessageRoleAssistant {
		return nil, fmt.Errorf("%w: unknown message role: %s", appErr.ErrInvalid, role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", appErr.ErrInvalid)
	}
	if _, err := s.conversations.Get(ctx, orgID, conversationID); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	msg := &model.Message{
		ID:             newID(),
		ConversationID: conversationID,
		OrganizationID: orgID,
		Role:           role,
		Content:        content,
		IsActive:       true,
		Ctime:          now,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.conversations.BumpMessageCount(ctx, orgID, conversationID, 1, now); err != nil {
		logutil.GetLogger(ctx).Warn("failed to bump message count", zap.String("conversation_id", conversationID), zap.Error(err))
	}
	if err := s.queue.Enqueue(ctx, model.IndexKindMessage, model.IndexOpUpsert, msg.ID, orgID); err != nil {
		logutil.GetLogger(ctx).Warn("failed to enqueue message indexing", zap.String("message_id", msg.ID), zap.Error(err))
	}
	return msg, nil
}

func (s *ConversationService) ListMessages(ctx context.Context, orgID, conversationID string, offset, limit int) ([]model.Message, error) {
	if _, err := s.conversations.Get(ctx, orgID, conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, orgID, conversationID, offset, normalizeLimit(limit))
}

func (s *ConversationService) DeleteMessage(ctx context.Context, orgID, conversationID, id string) error {
	if err := s.messages.Delete(ctx, orgID, conversationID, id); err != nil {
		return err
	}
	now := time.Now().Unix()
	if err := s.conversations.BumpMessageCount(ctx, orgID, conversationID, -1, now); err != nil {
		logutil.GetLogger(ctx).Warn("failed to bump message count", zap.String("conversation_id", conversationID), zap.Error(err))
	}
	if err := s.queue.Enqueue(ctx, model.IndexKindMessage, model.IndexOpDelete, id, orgID); err != nil {
		logutil.GetLogger(ctx).Warn("failed to enqueue message unindexing", zap.String("message_id", id), zap.Error(err))
	}
	return nil
}
