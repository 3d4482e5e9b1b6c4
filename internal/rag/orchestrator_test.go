package rag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentbase/agentbase/internal/model"
	errs "github.com/agentbase/agentbase/internal/pkg/errors"
)

func testConfig() OrchestratorConfig {
	return OrchestratorConfig{
		DocumentLimit:     5,
		MessageLimit:      5,
		ScoreThreshold:    0.7,
		RetrievalTimeout:  time.Second,
		GenerationTimeout: time.Second,
		DefaultModel:      "test-model",
	}
}

func newOrchestrator(embedder *fakeEmbedder, index *fakeIndex, docs *fakeDocStore, msgs *fakeMsgStore, gen *fakeGenerator) *Orchestrator {
	retriever := NewSemanticRetriever(NewEmbeddingGateway(embedder), index, docs, msgs)
	assembler := NewContextAssembler(DefaultMaxDocChars, DefaultMaxMessageChars)
	return NewOrchestrator(retriever, assembler, gen, testConfig())
}

func TestRunRejectsInvalidInput(t *testing.T) {
	orch := newOrchestrator(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{}, &fakeDocStore{}, &fakeMsgStore{}, &fakeGenerator{answer: "ok"})

	_, err := orch.Run(context.Background(), "x", "org-a", Options{})
	require.ErrorIs(t, err, errs.ErrInvalid)

	_, err = orch.Run(context.Background(), "valid query", "", Options{})
	require.ErrorIs(t, err, errs.ErrInvalid)

	_, err = orch.Run(context.Background(), "valid query", "org-a", Options{DocumentLimit: 500})
	require.ErrorIs(t, err, errs.ErrInvalid)

	_, err = orch.Run(context.Background(), "valid query", "org-a", Options{ScoreThreshold: 1.5})
	require.ErrorIs(t, err, errs.ErrInvalid)
}

func TestRunIncludesMatchingDocumentsInScoreOrder(t *testing.T) {
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "doc-1", Score: 0.92, OrganizationID: "org-t1"},
		{ID: "doc-2", Score: 0.81, OrganizationID: "org-t1"},
		{ID: "doc-3", Score: 0.55, OrganizationID: "org-t1"},
	}}
	docs := &fakeDocStore{docs: []model.Document{
		{ID: "doc-1", OrganizationID: "org-t1", Title: "Refund Policy", Content: "Refunds within 30 days.", IsActive: true},
		{ID: "doc-2", OrganizationID: "org-t1", Title: "Refund FAQ", Content: "Common refund questions.", IsActive: true},
		{ID: "doc-3", OrganizationID: "org-t1", Title: "Unrelated", Content: "Nothing here.", IsActive: true},
	}}
	gen := &fakeGenerator{answer: "You have 30 days."}
	orch := newOrchestrator(&fakeEmbedder{vector: []float32{1}}, index, docs, &fakeMsgStore{}, gen)

	res, err := orch.Run(context.Background(), "refund policy", "org-t1", Options{IncludeDocuments: true})
	require.NoError(t, err)
	require.True(t, res.ContextUsed)
	require.Len(t, res.Context.Documents, 2)
	require.Equal(t, "doc-1", res.Context.Documents[0].ID)
	require.Equal(t, 0.92, res.Context.Documents[0].Score)
	require.Equal(t, "doc-2", res.Context.Documents[1].ID)
	require.Equal(t, "You have 30 days.", res.Answer)
	require.Contains(t, gen.lastReq.SystemPrompt, "Refund Policy")
	require.Less(t,
		strings.Index(gen.lastReq.SystemPrompt, "Refund Policy"),
		strings.Index(gen.lastReq.SystemPrompt, "Refund FAQ"))
	require.GreaterOrEqual(t, res.Timings.Total, res.Timings.Generate)
}

func TestRunDegradesToBasePromptWhenEmbeddingDown(t *testing.T) {
	gen := &fakeGenerator{answer: "best effort"}
	orch := newOrchestrator(&fakeEmbedder{err: errProviderDown}, &fakeIndex{}, &fakeDocStore{}, &fakeMsgStore{}, gen)

	res, err := orch.Run(context.Background(), "refund policy", "org-t1", Options{
		IncludeDocuments: true,
		IncludeMessages:  true,
		SystemPrompt:     "Base prompt.",
	})
	require.NoError(t, err)
	require.False(t, res.ContextUsed)
	require.Empty(t, res.Context.Documents)
	require.Empty(t, res.Context.Messages)
	require.Equal(t, "Base prompt.", gen.lastReq.SystemPrompt)
	require.Equal(t, "best effort", res.Answer)
}

func TestRunRetrievalFailureDoesNotAbort(t *testing.T) {
	gen := &fakeGenerator{answer: "still answered"}
	orch := newOrchestrator(&fakeEmbedder{vector: []float32{1}}, &fakeIndex{err: errProviderDown}, &fakeDocStore{}, &fakeMsgStore{}, gen)

	res, err := orch.Run(context.Background(), "refund policy", "org-t1", Options{IncludeDocuments: true, IncludeMessages: true})
	require.NoError(t, err)
	require.False(t, res.ContextUsed)
	require.Equal(t, "still answered", res.Answer)
}

func TestRunGenerationTimeoutKeepsRetrievedContext(t *testing.T) {
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "doc-1", Score: 0.9, OrganizationID: "org-t1"},
	}}
	docs := &fakeDocStore{docs: []model.Document{
		{ID: "doc-1", OrganizationID: "org-t1", Title: "Refund Policy", Content: "Refunds within 30 days.", IsActive: true},
	}}
	gen := &fakeGenerator{waitCtx: true}
	retriever := NewSemanticRetriever(NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}}), index, docs, &fakeMsgStore{})
	cfg := testConfig()
	cfg.GenerationTimeout = 10 * time.Millisecond
	orch := NewOrchestrator(retriever, NewContextAssembler(DefaultMaxDocChars, DefaultMaxMessageChars), gen, cfg)

	res, err := orch.Run(context.Background(), "refund policy", "org-t1", Options{IncludeDocuments: true})
	require.Error(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Context.Documents, 1)
	require.Equal(t, "doc-1", res.Context.Documents[0].ID)
	require.True(t, res.ContextUsed)
	require.Empty(t, res.Answer)
}

func TestRunFiltersMessagesByConversation(t *testing.T) {
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "msg-1", Score: 0.9, OrganizationID: "org-t1"},
		{ID: "msg-2", Score: 0.85, OrganizationID: "org-t1"},
	}}
	msgs := &fakeMsgStore{msgs: []model.Message{
		{ID: "msg-1", OrganizationID: "org-t1", ConversationID: "conv-1", Role: model.MessageRoleUser, Content: "mine", IsActive: true},
		{ID: "msg-2", OrganizationID: "org-t1", ConversationID: "conv-2", Role: model.MessageRoleUser, Content: "other", IsActive: true},
	}}
	gen := &fakeGenerator{answer: "ok"}
	orch := newOrchestrator(&fakeEmbedder{vector: []float32{1}}, index, &fakeDocStore{}, msgs, gen)

	res, err := orch.Run(context.Background(), "what did I say", "org-t1", Options{
		IncludeMessages: true,
		ConversationID:  "conv-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Context.Messages, 1)
	require.Equal(t, "msg-1", res.Context.Messages[0].ID)
	require.Equal(t, "conv-1", res.Context.Messages[0].ConversationID)
}
