package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
	"github.com/agentbase/agentbase/internal/rag"
)

type conversationStore interface {
	Get(ctx context.Context, orgID, id string) (*model.Conversation, error)
	AddMessage(ctx context.Context, orgID, conversationID, role, content string) (*model.Message, error)
}

type agentConfigStore interface {
	Get(ctx context.Context, orgID, id string) (*model.AgentConfig, error)
}

// RAGService sits between the chat API and the pipeline: it resolves the
// agent configuration, persists the message exchange, and delegates the
// retrieve-rank-assemble-generate work to the orchestrator.
type RAGService struct {
	orchestrator  *rag.Orchestrator
	retriever     *rag.SemanticRetriever
	conversations conversationStore
	agentConfigs  agentConfigStore
}

func NewRAGService(orchestrator *rag.Orchestrator, retriever *rag.SemanticRetriever, conversations conversationStore, agentConfigs agentConfigStore) *RAGService {
	return &RAGService{
		orchestrator:  orchestrator,
		retriever:     retriever,
		conversations: conversations,
		agentConfigs:  agentConfigs,
	}
}

type ChatInput struct {
	Query            string  `json:"query"`
	ConversationID   string  `json:"conversation_id"`
	IncludeDocuments *bool   `json:"include_documents"`
	IncludeMessages  *bool   `json:"include_messages"`
	DocumentLimit    int     `json:"document_limit"`
	MessageLimit     int     `json:"message_limit"`
	ScoreThreshold   float64 `json:"score_threshold"`
}

// Chat runs one RAG turn. The user message is persisted before generation;
// the assistant message only after a successful one, so a failed generation
// leaves the user's question in the transcript for retry.
func (s *RAGService) Chat(ctx context.Context, orgID string, input ChatInput) (*rag.Result, error) {
	conv, err := s.conversations.Get(ctx, orgID, input.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: conversation not found", appErr.ErrInvalid)
	}
	opts := rag.Options{
		IncludeDocuments: true,
		IncludeMessages:  true,
		ConversationID:   conv.ID,
		DocumentLimit:    input.DocumentLimit,
		MessageLimit:     input.MessageLimit,
		ScoreThreshold:   input.ScoreThreshold,
	}
	if input.IncludeDocuments != nil {
		opts.IncludeDocuments = *input.IncludeDocuments
	}
	if input.IncludeMessages != nil {
		opts.IncludeMessages = *input.IncludeMessages
	}
	if conv.AgentConfigID != "" {
		cfg, err := s.agentConfigs.Get(ctx, orgID, conv.AgentConfigID)
		if err == nil {
			opts.SystemPrompt = cfg.SystemPrompt
			opts.Model = cfg.Model
			opts.Temperature = cfg.Temperature
			opts.MaxTokens = cfg.MaxTokens
		} else {
			logutil.GetLogger(ctx).Warn("agent config lookup failed, using defaults",
				zap.String("agent_config_id", conv.AgentConfigID), zap.Error(err))
		}
	}

	if _, err := s.conversations.AddMessage(ctx, orgID, conv.ID, model.MessageRoleUser, input.Query); err != nil {
		return nil, err
	}
	result, err := s.orchestrator.Run(ctx, input.Query, orgID, opts)
	if err != nil {
		return result, err
	}
	if _, err := s.conversations.AddMessage(ctx, orgID, conv.ID, model.MessageRoleAssistant, result.Answer); err != nil {
		logutil.GetLogger(ctx).Warn("failed to persist assistant message",
			zap.String("conversation_id", conv.ID), zap.Error(err))
	}
	return result, nil
}

type MessageSearchResult struct {
	Message model.Message `json:"message"`
	Score   float64       `json:"score"`
}

// SearchMessages is the pure-semantic search over indexed conversation
// history.
func (s *RAGService) SearchMessages(ctx context.Context, orgID, query string, limit int, threshold float64) ([]MessageSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", appErr.ErrInvalid)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: score threshold must be within [0, 1]", appErr.ErrInvalid)
	}
	res := s.retriever.Retrieve(ctx, query, orgID, rag.SourceMessages, normalizeLimit(limit), threshold)
	if res.Status == rag.RetrievalFailed {
		return nil, res.Err
	}
	byID := make(map[string]model.Message, len(res.Messages))
	for _, msg := range res.Messages {
		byID[msg.ID] = msg
	}
	out := make([]MessageSearchResult, 0, len(res.Candidates))
	for _, rc := range rag.RankSemanticOnly(res.Candidates) {
		msg, ok := byID[rc.ID]
		if !ok {
			continue
		}
		out = append(out, MessageSearchResult{Message: msg, Score: rc.CombinedScore})
	}
	return out, nil
}
