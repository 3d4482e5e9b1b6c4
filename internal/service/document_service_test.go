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

func newSearchService(docs *fakeDocRepo, index rag.VectorIndex) *DocumentService {
	retriever := newTestRetriever(&fakeEmbedder{vector: []float32{0.1}}, index, docs, &fakeMsgStore{})
	return NewDocumentService(docs, &fakeQueue{}, retriever, nil)
}

func TestHybridSearchFallsBackToKeywordOnly(t *testing.T) {
	docs := &fakeDocRepo{docs: []model.Document{
		{ID: "d1", OrganizationID: "org1", Title: "Alpha launch checklist", IsActive: true},
		{ID: "d2", OrganizationID: "org1", Title: "Quarterly report", IsActive: true},
	}}
	svc := newSearchService(docs, &fakeIndex{err: errors.New("index down")})

	res, err := svc.HybridSearch(context.Background(), "org1", HybridSearchInput{Query: "alpha"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "d1", res[0].Document.ID)
	require.Zero(t, res[0].SemanticScore)
	require.InDelta(t, 0.5, res[0].KeywordScore, 1e-9)
	require.InDelta(t, 0.5*rag.DefaultKeywordWeight, res[0].CombinedScore, 1e-9)
}

func TestHybridSearchAppliesLimitAfterRanking(t *testing.T) {
	docs := &fakeDocRepo{docs: []model.Document{
		{ID: "d1", OrganizationID: "org1", Title: "Deploy notes", IsActive: true},
		{ID: "d2", OrganizationID: "org1", Title: "Ops handbook", IsActive: true},
		{ID: "d3", OrganizationID: "org1", Title: "Migration runbook", IsActive: true},
	}}
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "d1", OrganizationID: "org1", Score: 0.9},
		{ID: "d2", OrganizationID: "org1", Score: 0.8},
	}}
	svc := newSearchService(docs, index)

	res, err := svc.HybridSearch(context.Background(), "org1", HybridSearchInput{Query: "migration", Limit: 2})
	require.NoError(t, err)
	// d3 matched by keyword only but ranks below both semantic hits
	require.Len(t, res, 2)
	require.Equal(t, "d1", res[0].Document.ID)
	require.Equal(t, "d2", res[1].Document.ID)
	require.Greater(t, res[0].CombinedScore, res[1].CombinedScore)
}

func TestHybridSearchRejectsBadWeights(t *testing.T) {
	svc := newSearchService(&fakeDocRepo{}, &fakeIndex{})

	_, err := svc.HybridSearch(context.Background(), "org1", HybridSearchInput{Query: "alpha", SemanticWeight: 1.5})
	require.Error(t, err)
	require.True(t, appErr.IsInvalid(err))
}

func TestSemanticSearchBreaksTiesByID(t *testing.T) {
	docs := &fakeDocRepo{docs: []model.Document{
		{ID: "a", OrganizationID: "org1", Title: "A", IsActive: true},
		{ID: "b", OrganizationID: "org1", Title: "B", IsActive: true},
	}}
	index := &fakeIndex{hits: []model.VectorHit{
		{ID: "b", OrganizationID: "org1", Score: 0.8},
		{ID: "a", OrganizationID: "org1", Score: 0.8},
	}}
	svc := newSearchService(docs, index)

	res, err := svc.SemanticSearch(context.Background(), "org1", "alpha", 10, 0.5)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, "a", res[0].Document.ID)
	require.Equal(t, "b", res[1].Document.ID)
	require.Equal(t, res[0].SemanticScore, res[0].CombinedScore)
}

func TestSemanticSearchDegradedReturnsEmpty(t *testing.T) {
	docs := &fakeDocRepo{docs: []model.Document{
		{ID: "d1", OrganizationID: "org1", Title: "Plan", IsActive: true},
	}}
	retriever := newTestRetriever(&fakeEmbedder{err: errors.New("provider down")}, &fakeIndex{}, docs, &fakeMsgStore{})
	svc := NewDocumentService(docs, &fakeQueue{}, retriever, nil)

	res, err := svc.SemanticSearch(context.Background(), "org1", "alpha", 10, 0.5)
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestCreateAndDeleteEnqueueIndexWork(t *testing.T) {
	docs := &fakeDocRepo{}
	queue := &fakeQueue{}
	retriever := newTestRetriever(&fakeEmbedder{vector: []float32{0.1}}, &fakeIndex{}, docs, &fakeMsgStore{})
	svc := NewDocumentService(docs, queue, retriever, nil)

	doc, err := svc.Create(context.Background(), "org1", DocumentCreateInput{Title: "Notes"})
	require.NoError(t, err)
	require.Len(t, queue.entries, 1)
	require.Equal(t, "document/upsert/"+doc.ID, queue.entries[0])

	require.NoError(t, svc.Delete(context.Background(), "org1", doc.ID))
	require.Len(t, queue.entries, 2)
	require.Equal(t, "document/delete/"+doc.ID, queue.entries[1])
}
