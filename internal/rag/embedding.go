package rag

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/ai"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
)

// EmbeddingGateway converts text to vectors. An empty vector is the single
// "embedding unavailable" signal: blank input and provider failure both
// produce it, and retrieval treats it as "no semantic candidates".
type EmbeddingGateway struct {
	embedder ai.IEmbedder
}

func NewEmbeddingGateway(embedder ai.IEmbedder) *EmbeddingGateway {
	return &EmbeddingGateway{embedder: embedder}
}

func (g *EmbeddingGateway) Embed(ctx context.Context, text string, taskType string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if g.embedder == nil {
		return nil
	}
	values, err := g.embedder.Embed(ctx, text, taskType)
	if err != nil {
		logutil.GetLogger(ctx).Warn("embedding provider failed", zap.String("task_type", taskType), zap.Error(err))
		return nil
	}
	return values
}

// EmbedBatch keeps output[i] aligned with texts[i]. Blank inputs get an
// empty vector without a provider call; on provider failure every slot is
// empty.
func (g *EmbeddingGateway) EmbedBatch(ctx context.Context, texts []string, taskType string) [][]float32 {
	results := make([][]float32, len(texts))
	if g.embedder == nil {
		return results
	}
	idx := make([]int, 0, len(texts))
	batch := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		idx = append(idx, i)
		batch = append(batch, text)
	}
	if len(batch) == 0 {
		return results
	}
	values, err := g.embedder.EmbedBatch(ctx, batch, taskType)
	if err != nil {
		logutil.GetLogger(ctx).Warn("batch embedding failed", zap.Int("count", len(batch)), zap.Error(err))
		return results
	}
	for j, i := range idx {
		if j >= len(values) {
			break
		}
		results[i] = values[j]
	}
	return results
}
