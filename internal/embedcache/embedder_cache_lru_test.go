package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls      int
	batchCalls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return []float32{float32(len(text))}, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	c.batchCalls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text))}
	}
	return out, nil
}

func (c *countingEmbedder) ModelName() string { return "counting" }

func TestLruEmbedderCachesByContent(t *testing.T) {
	inner := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	first, err := embedder.Embed(context.Background(), "hello", "retrieval_query")
	require.NoError(t, err)
	second, err := embedder.Embed(context.Background(), "hello", "retrieval_query")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	_, err = embedder.Embed(context.Background(), "other", "retrieval_query")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLruEmbedderTaskTypeIsPartOfKey(t *testing.T) {
	inner := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := embedder.Embed(context.Background(), "hello", "retrieval_query")
	require.NoError(t, err)
	_, err = embedder.Embed(context.Background(), "hello", "retrieval_document")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLruEmbedderBatchOnlyFetchesMisses(t *testing.T) {
	inner := &countingEmbedder{}
	embedder := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := embedder.Embed(context.Background(), "a", "retrieval_document")
	require.NoError(t, err)

	out, err := embedder.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"}, "retrieval_document")
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, []float32{1}, out[0])
	require.Equal(t, []float32{2}, out[1])
	require.Equal(t, []float32{3}, out[2])
	require.Equal(t, 1, inner.batchCalls)

	// Everything is warm now; a second batch hits the provider zero times.
	_, err = embedder.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"}, "retrieval_document")
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)
}

func TestWrapLruDisabledPassesThrough(t *testing.T) {
	inner := &countingEmbedder{}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
}
