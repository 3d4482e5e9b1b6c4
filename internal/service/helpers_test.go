package service

import (
	"context"
	"fmt"

	"github.com/agentbase/agentbase/internal/ai"
	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/rag"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedding" }

type fakeIndex struct {
	hits []model.VectorHit
	err  error
}

func (f *fakeIndex) Search(ctx context.Context, collection string, vector []float32, orgID string, limit int, scoreThreshold float64) ([]model.VectorHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.VectorHit, 0, len(f.hits))
	for _, hit := range f.hits {
		if hit.Score < scoreThreshold {
			continue
		}
		out = append(out, hit)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeIndex) Upsert(ctx context.Context, entry *model.VectorEntry) error { return nil }

func (f *fakeIndex) Delete(ctx context.Context, collection, id, orgID string) error { return nil }

// fakeDocRepo backs both the CRUD store and the retriever's id lookup.
type fakeDocRepo struct {
	docs []model.Document
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *model.Document) error {
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeDocRepo) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id && f.docs[i].OrganizationID == orgID && f.docs[i].IsActive {
			doc := f.docs[i]
			return &doc, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeDocRepo) ListByOrg(ctx context.Context, orgID, documentType string, activeOnly bool, offset, limit int) ([]model.Document, error) {
	var out []model.Document
	for _, doc := range f.docs {
		if doc.OrganizationID != orgID {
			continue
		}
		if activeOnly && !doc.IsActive {
			continue
		}
		if documentType != "" && doc.DocumentType != documentType {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeDocRepo) ListActiveByOrg(ctx context.Context, orgID string) ([]model.Document, error) {
	return f.ListByOrg(ctx, orgID, "", true, 0, len(f.docs))
}

func (f *fakeDocRepo) Update(ctx context.Context, doc *model.Document) error {
	for i := range f.docs {
		if f.docs[i].ID == doc.ID {
			f.docs[i] = *doc
			return nil
		}
	}
	return appErr.ErrNotFound
}

func (f *fakeDocRepo) Delete(ctx context.Context, orgID, id string, now int64) error {
	for i := range f.docs {
		if f.docs[i].ID == id && f.docs[i].OrganizationID == orgID {
			f.docs[i].IsActive = false
			f.docs[i].Mtime = now
			return nil
		}
	}
	return appErr.ErrNotFound
}

func (f *fakeDocRepo) GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Document, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Document
	for _, doc := range f.docs {
		if !want[doc.ID] || doc.OrganizationID != orgID {
			continue
		}
		if activeOnly && !doc.IsActive {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

type fakeMsgStore struct {
	msgs []model.Message
}

func (f *fakeMsgStore) GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Message, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Message
	for _, msg := range f.msgs {
		if !want[msg.ID] || msg.OrganizationID != orgID {
			continue
		}
		if activeOnly && !msg.IsActive {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

type fakeQueue struct {
	entries []string
}

func (f *fakeQueue) Enqueue(ctx context.Context, kind, op, refID, orgID string) error {
	f.entries = append(f.entries, fmt.Sprintf("%s/%s/%s", kind, op, refID))
	return nil
}

type fakeGenerator struct {
	answer    string
	err       error
	lastModel string
	lastReq   ai.GenerateRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, model string, req ai.GenerateRequest) (string, error) {
	f.lastModel = model
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// fakeConversations records every persisted message in call order.
type fakeConversations struct {
	conv  *model.Conversation
	added []model.Message
}

func (f *fakeConversations) Get(ctx context.Context, orgID, id string) (*model.Conversation, error) {
	if f.conv != nil && f.conv.ID == id && f.conv.OrganizationID == orgID {
		conv := *f.conv
		return &conv, nil
	}
	return nil, appErr.ErrNotFound
}

func (f *fakeConversations) AddMessage(ctx context.Context, orgID, conversationID, role, content string) (*model.Message, error) {
	msg := model.Message{
		ID:             fmt.Sprintf("m%d", len(f.added)+1),
		ConversationID: conversationID,
		OrganizationID: orgID,
		Role:           role,
		Content:        content,
		IsActive:       true,
	}
	f.added = append(f.added, msg)
	return &msg, nil
}

type fakeAgentConfigs struct {
	cfg *model.AgentConfig
	err error
}

func (f *fakeAgentConfigs) Get(ctx context.Context, orgID, id string) (*model.AgentConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, appErr.ErrNotFound
	}
	cfg := *f.cfg
	return &cfg, nil
}

func newTestRetriever(embedder ai.IEmbedder, index rag.VectorIndex, docs rag.DocumentStore, msgs rag.MessageStore) *rag.SemanticRetriever {
	return rag.NewSemanticRetriever(rag.NewEmbeddingGateway(embedder), index, docs, msgs)
}
