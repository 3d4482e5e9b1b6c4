package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentbase/agentbase/internal/model"
)

func TestRetrieveNeverLeaksAcrossTenants(t *testing.T) {
	tenants := []string{"org-a", "org-b", "org-c"}
	var hits []model.VectorHit
	var docs []model.Document
	for ti, tenant := range tenants {
		for i := 0; i < 4; i++ {
			id := fmt.Sprintf("doc-%s-%d", tenant, i)
			hits = append(hits, model.VectorHit{ID: id, Score: 0.9 - float64(ti)*0.01 - float64(i)*0.01, OrganizationID: tenant})
			docs = append(docs, model.Document{ID: id, OrganizationID: tenant, Title: id, Content: "body", IsActive: true})
		}
	}
	// An index deliberately ignoring the tenant filter to exercise the
	// fail-closed drop.
	retriever := NewSemanticRetriever(
		NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}}),
		&fakeIndex{hits: hits},
		&fakeDocStore{docs: docs},
		&fakeMsgStore{},
	)

	for _, tenant := range tenants {
		res := retriever.Retrieve(context.Background(), "query", tenant, SourceDocuments, 50, 0)
		require.Equal(t, RetrievalOK, res.Status)
		require.NotEmpty(t, res.Candidates)
		for _, doc := range res.Documents {
			require.Equal(t, tenant, doc.OrganizationID)
		}
	}
}

func TestRetrieveDegradedWithoutEmbedding(t *testing.T) {
	retriever := NewSemanticRetriever(
		NewEmbeddingGateway(&fakeEmbedder{err: errProviderDown}),
		&fakeIndex{hits: []model.VectorHit{{ID: "doc-1", Score: 0.9, OrganizationID: "org-a"}}},
		&fakeDocStore{},
		&fakeMsgStore{},
	)

	res := retriever.Retrieve(context.Background(), "query", "org-a", SourceDocuments, 5, 0.7)
	require.Equal(t, RetrievalDegraded, res.Status)
	require.Empty(t, res.Candidates)
	require.NoError(t, res.Err)
}

func TestRetrieveFailedOnIndexError(t *testing.T) {
	retriever := NewSemanticRetriever(
		NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}}),
		&fakeIndex{err: errProviderDown},
		&fakeDocStore{},
		&fakeMsgStore{},
	)

	res := retriever.Retrieve(context.Background(), "query", "org-a", SourceDocuments, 5, 0.7)
	require.Equal(t, RetrievalFailed, res.Status)
	require.Error(t, res.Err)
}

func TestRetrieveDropsStaleAndInactiveRecords(t *testing.T) {
	retriever := NewSemanticRetriever(
		NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}}),
		&fakeIndex{hits: []model.VectorHit{
			{ID: "doc-live", Score: 0.95, OrganizationID: "org-a"},
			{ID: "doc-deleted", Score: 0.90, OrganizationID: "org-a"},
			{ID: "doc-inactive", Score: 0.85, OrganizationID: "org-a"},
		}},
		&fakeDocStore{docs: []model.Document{
			{ID: "doc-live", OrganizationID: "org-a", Title: "live", IsActive: true},
			{ID: "doc-inactive", OrganizationID: "org-a", Title: "inactive", IsActive: false},
		}},
		&fakeMsgStore{},
	)

	res := retriever.Retrieve(context.Background(), "query", "org-a", SourceDocuments, 5, 0.7)
	require.Equal(t, RetrievalOK, res.Status)
	require.Len(t, res.Candidates, 1)
	require.Equal(t, "doc-live", res.Candidates[0].ID)
}

func TestRetrieveMessagesKeepsIndexOrder(t *testing.T) {
	retriever := NewSemanticRetriever(
		NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}}),
		&fakeIndex{hits: []model.VectorHit{
			{ID: "msg-2", Score: 0.9, OrganizationID: "org-a"},
			{ID: "msg-1", Score: 0.8, OrganizationID: "org-a"},
		}},
		&fakeDocStore{},
		&fakeMsgStore{msgs: []model.Message{
			{ID: "msg-1", OrganizationID: "org-a", ConversationID: "conv-1", Role: model.MessageRoleUser, Content: "first", IsActive: true},
			{ID: "msg-2", OrganizationID: "org-a", ConversationID: "conv-1", Role: model.MessageRoleAssistant, Content: "second", IsActive: true},
		}},
	)

	res := retriever.Retrieve(context.Background(), "query", "org-a", SourceMessages, 5, 0.7)
	require.Equal(t, RetrievalOK, res.Status)
	require.Len(t, res.Messages, 2)
	require.Equal(t, "msg-2", res.Messages[0].ID)
	require.Equal(t, "msg-1", res.Messages[1].ID)
	require.Equal(t, 0.9, res.Candidates[0].Score)
}
