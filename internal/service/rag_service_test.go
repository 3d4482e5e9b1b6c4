package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/rag"
)

func newChatService(index rag.VectorIndex, docs *fakeDocRepo, gen rag.TextGenerator, convs *fakeConversations, cfgs *fakeAgentConfigs) *RAGService {
	retriever := newTestRetriever(&fakeEmbedder{vector: []float32{0.1, 0.2}}, index, docs, &fakeMsgStore{})
	orch := rag.NewOrchestrator(retriever, rag.NewContextAssembler(500, 300), gen, rag.OrchestratorConfig{
		DocumentLimit:  5,
		MessageLimit:   5,
		ScoreThreshold: 0.5,
		DefaultModel:   "default-model",
	})
	return NewRAGService(orch, retriever, convs, cfgs)
}

func TestChatAppliesAgentConfig(t *testing.T) {
	convs := &fakeConversations{conv: &model.Conversation{
		ID: "conv1", OrganizationID: "org1", AgentConfigID: "cfg1", IsActive: true,
	}}
	cfgs := &fakeAgentConfigs{cfg: &model.AgentConfig{
		ID: "cfg1", OrganizationID: "org1",
		Model: "tuned-model", SystemPrompt: "Answer briefly.",
		Temperature: 0.4, MaxTokens: 128,
	}}
	gen := &fakeGenerator{answer: "done"}
	svc := newChatService(&fakeIndex{}, &fakeDocRepo{}, gen, convs, cfgs)

	result, err := svc.Chat(context.Background(), "org1", ChatInput{Query: "what is the plan", ConversationID: "conv1"})
	require.NoError(t, err)
	require.Equal(t, "done", result.Answer)
	require.Equal(t, "tuned-model", gen.lastModel)
	require.Equal(t, "Answer briefly.", gen.lastReq.SystemPrompt)
	require.InDelta(t, 0.4, gen.lastReq.Temperature, 1e-9)
	require.Equal(t, 128, gen.lastReq.MaxTokens)

	require.Len(t, convs.added, 2)
	require.Equal(t, model.MessageRoleUser, convs.added[0].Role)
	require.Equal(t, "what is the plan", convs.added[0].Content)
	require.Equal(t, model.MessageRoleAssistant, convs.added[1].Role)
	require.Equal(t, "done", convs.added[1].Content)
}

func TestChatFallsBackWhenAgentConfigLookupFails(t *testing.T) {
	convs := &fakeConversations{conv: &model.Conversation{
		ID: "conv1", OrganizationID: "org1", AgentConfigID: "cfg1", IsActive: true,
	}}
	cfgs := &fakeAgentConfigs{err: errors.New("db down")}
	gen := &fakeGenerator{answer: "ok"}
	svc := newChatService(&fakeIndex{}, &fakeDocRepo{}, gen, convs, cfgs)

	result, err := svc.Chat(context.Background(), "org1", ChatInput{Query: "what is the plan", ConversationID: "conv1"})
	require.NoError(t, err)
	require.Equal(t, "ok", result.Answer)
	require.Equal(t, "default-model", gen.lastModel)
	require.Empty(t, gen.lastReq.SystemPrompt)
	require.Zero(t, gen.lastReq.Temperature)
	require.Zero(t, gen.lastReq.MaxTokens)
}

func TestChatKeepsUserMessageWhenGenerationFails(t *testing.T) {
	docs := &fakeDocRepo{docs: []model.Document{
		{ID: "d1", OrganizationID: "org1", Title: "Plan", Content: "the plan body", IsActive: true},
	}}
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "d1", OrganizationID: "org1", Score: 0.9},
	}}
	convs := &fakeConversations{conv: &model.Conversation{ID: "conv1", OrganizationID: "org1", IsActive: true}}
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	svc := newChatService(index, docs, gen, convs, &fakeAgentConfigs{})

	result, err := svc.Chat(context.Background(), "org1", ChatInput{Query: "what is the plan", ConversationID: "conv1"})
	require.Error(t, err)
	require.ErrorIs(t, err, appErr.ErrInternal)
	require.NotNil(t, result)
	require.True(t, result.ContextUsed)
	require.Len(t, result.Context.Documents, 1)
	require.Equal(t, "d1", result.Context.Documents[0].ID)

	// the question stays in the transcript for retry, no assistant message
	require.Len(t, convs.added, 1)
	require.Equal(t, model.MessageRoleUser, convs.added[0].Role)
}

func TestChatUnknownConversation(t *testing.T) {
	svc := newChatService(&fakeIndex{}, &fakeDocRepo{}, &fakeGenerator{answer: "x"}, &fakeConversations{}, &fakeAgentConfigs{})

	_, err := svc.Chat(context.Background(), "org1", ChatInput{Query: "what is the plan", ConversationID: "missing"})
	require.Error(t, err)
	require.True(t, appErr.IsInvalid(err))
}
