package rag

import (
	"context"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
)

const (
	TaskTypeQuery    = "retrieval_query"
	TaskTypeDocument = "retrieval_document"
)

type VectorIndex interface {
	Search(ctx context.Context, collection string, vector []float32, orgID string, limit int, scoreThreshold float64) ([]model.VectorHit, error)
	Upsert(ctx context.Context, entry *model.VectorEntry) error
	Delete(ctx context.Context, collection, id, orgID string) error
}

type DocumentStore interface {
	GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Document, error)
}

type MessageStore interface {
	GetByIDs(ctx context.Context, ids []string, orgID string, activeOnly bool) ([]model.Message, error)
}

// SemanticRetriever runs one tenant-scoped nearest-neighbor search and
// resolves the hits against the relational store. The index may be stale
// relative to the store, so hits with no active backing record are dropped
// without comment.
type SemanticRetriever struct {
	gateway  *EmbeddingGateway
	index    VectorIndex
	docs     DocumentStore
	messages MessageStore
}

func NewSemanticRetriever(gateway *EmbeddingGateway, index VectorIndex, docs DocumentStore, messages MessageStore) *SemanticRetriever {
	return &SemanticRetriever{gateway: gateway, index: index, docs: docs, messages: messages}
}

func (r *SemanticRetriever) Retrieve(ctx context.Context, queryText, orgID string, kind SourceKind, limit int, scoreThreshold float64) RetrievalResult {
	vector := r.gateway.Embed(ctx, queryText, TaskTypeQuery)
	if len(vector) == 0 {
		return RetrievalResult{Status: RetrievalDegraded}
	}
	hits, err := r.index.Search(ctx, kind.Collection(), vector, orgID, limit, scoreThreshold)
	if err != nil {
		return RetrievalResult{Status: RetrievalFailed, Err: err}
	}
	hits = dropForeignTenants(ctx, hits, orgID)
	if len(hits) == 0 {
		return RetrievalResult{Status: RetrievalOK}
	}
	if kind == SourceMessages {
		return r.resolveMessages(ctx, hits, orgID)
	}
	return r.resolveDocuments(ctx, hits, orgID)
}

// The index query is already tenant-filtered; a hit claiming another tenant
// means a broken invariant somewhere, and we fail closed by dropping it.
func dropForeignTenants(ctx context.Context, hits []model.VectorHit, orgID string) []model.VectorHit {
	kept := hits[:0]
	for _, hit := range hits {
		if hit.OrganizationID != orgID {
			logutil.GetLogger(ctx).Error("dropping cross-tenant vector hit",
				zap.String("hit_id", hit.ID),
				zap.String("hit_org", hit.OrganizationID),
				zap.String("want_org", orgID))
			continue
		}
		kept = append(kept, hit)
	}
	return kept
}

func (r *SemanticRetriever) resolveDocuments(ctx context.Context, hits []model.VectorHit, orgID string) RetrievalResult {
	ids := hitIDs(hits)
	records, err := r.docs.GetByIDs(ctx, ids, orgID, true)
	if err != nil {
		return RetrievalResult{Status: RetrievalFailed, Err: err}
	}
	byID := make(map[string]model.Document, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	res := RetrievalResult{Status: RetrievalOK}
	for _, hit := range hits {
		rec, ok := byID[hit.ID]
		if !ok {
			continue
		}
		res.Candidates = append(res.Candidates, Candidate{ID: hit.ID, Score: hit.Score, Kind: SourceDocuments, Payload: hit.Metadata})
		res.Documents = append(res.Documents, rec)
	}
	return res
}

func (r *SemanticRetriever) resolveMessages(ctx context.Context, hits []model.VectorHit, orgID string) RetrievalResult {
	ids := hitIDs(hits)
	records, err := r.messages.GetByIDs(ctx, ids, orgID, true)
	if err != nil {
		return RetrievalResult{Status: RetrievalFailed, Err: err}
	}
	byID := make(map[string]model.Message, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	res := RetrievalResult{Status: RetrievalOK}
	for _, hit := range hits {
		rec, ok := byID[hit.ID]
		if !ok {
			continue
		}
		res.Candidates = append(res.Candidates, Candidate{ID: hit.ID, Score: hit.Score, Kind: SourceMessages, Payload: hit.Metadata})
		res.Messages = append(res.Messages, rec)
	}
	return res
}

func hitIDs(hits []model.VectorHit) []string {
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
