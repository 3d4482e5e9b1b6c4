package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedBlankInputSkipsProvider(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	gateway := NewEmbeddingGateway(embedder)

	require.Empty(t, gateway.Embed(context.Background(), "", TaskTypeQuery))
	require.Empty(t, gateway.Embed(context.Background(), "   \t\n", TaskTypeQuery))
	require.Zero(t, embedder.calls)
}

func TestEmbedProviderErrorReturnsEmpty(t *testing.T) {
	gateway := NewEmbeddingGateway(&fakeEmbedder{err: errProviderDown})

	require.Empty(t, gateway.Embed(context.Background(), "hello", TaskTypeQuery))
}

func TestEmbedBatchKeepsInputAlignment(t *testing.T) {
	gateway := NewEmbeddingGateway(&fakeEmbedder{vector: []float32{1}})

	out := gateway.EmbedBatch(context.Background(), []string{"a", "", "b", "  "}, TaskTypeDocument)
	require.Len(t, out, 4)
	require.NotEmpty(t, out[0])
	require.Empty(t, out[1])
	require.NotEmpty(t, out[2])
	require.Empty(t, out[3])
}

func TestEmbedBatchProviderErrorLeavesAllEmpty(t *testing.T) {
	gateway := NewEmbeddingGateway(&fakeEmbedder{err: errProviderDown})

	out := gateway.EmbedBatch(context.Background(), []string{"a", "b"}, TaskTypeDocument)
	require.Len(t, out, 2)
	require.Empty(t, out[0])
	require.Empty(t, out[1])
}
