package rag

import (
	"context"
	"errors"

	"github.com/agentbase/agentbase/internal/ai"
	"github.com/agentbase/agentbase/internal/model"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	f.calls++
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

type fakeDocStore struct {
	docs []model.Document
}

func (f *fakeDocStore) GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Document, error) {
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

type fakeGenerator struct {
	answer  string
	err     error
	lastReq ai.GenerateRequest
	waitCtx bool
}

func (f *fakeGenerator) Generate(ctx context.Context, modelName string, req ai.GenerateRequest) (string, error) {
	f.lastReq = req
	if f.waitCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

var errProviderDown = errors.New("provider down")
