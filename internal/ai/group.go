package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/pkg/logutil"
)

// ProviderEntry is one member of a failover chain. Model and EmbedModel,
// when set, replace the caller-requested model for this entry; providers
// in a chain rarely share model names.
type ProviderEntry struct {
	Name       string
	Provider   IProvider
	Model      string
	EmbedModel string
}

type groupProvider struct {
	items []ProviderEntry
}

// NewGroupProvider tries each provider in order until one succeeds.
func NewGroupProvider(items []ProviderEntry) IProvider {
	if len(items) == 0 {
		return nil
	}
	return &groupProvider{items: items}
}

func (g *groupProvider) Name() string {
	return "group"
}

func (g *groupProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Provider == nil {
			continue
		}
		useModel := model
		if item.Model != "" {
			useModel = item.Model
		}
		res, err := item.Provider.Generate(ctx, useModel, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("provider generate failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
	}
	if lastErr == nil {
		return "", fmt.Errorf("no provider configured")
	}
	return "", lastErr
}

func (g *groupProvider) Embed(ctx context.Context, model string, texts []string, taskType string) ([][]float32, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Provider == nil {
			continue
		}
		useModel := model
		if item.EmbedModel != "" {
			useModel = item.EmbedModel
		}
		res, err := item.Provider.Embed(ctx, useModel, texts, taskType)
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("provider embed failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
	}
	if lastErr == nil {
		return nil, fmt.Errorf("no provider configured")
	}
	return nil, lastErr
}
