package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name      string
	err       error
	lastModel string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	s.lastModel = model
	if s.err != nil {
		return "", s.err
	}
	return "answer from " + s.name, nil
}

func (s *stubProvider) Embed(ctx context.Context, model string, texts []string, taskType string) ([][]float32, error) {
	s.lastModel = model
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func TestGroupProviderFallsBackOnError(t *testing.T) {
	primary := &stubProvider{name: "a", err: errors.New("quota exceeded")}
	secondary := &stubProvider{name: "b"}
	group := NewGroupProvider([]ProviderEntry{
		{Name: "a", Provider: primary},
		{Name: "b", Provider: secondary, Model: "b-model"},
	})

	res, err := group.Generate(context.Background(), "a-model", GenerateRequest{Prompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "answer from b", res)
	require.Equal(t, "a-model", primary.lastModel)
	require.Equal(t, "b-model", secondary.lastModel)
}

func TestGroupProviderReturnsLastError(t *testing.T) {
	wantErr := errors.New("also down")
	group := NewGroupProvider([]ProviderEntry{
		{Name: "a", Provider: &stubProvider{name: "a", err: errors.New("down")}},
		{Name: "b", Provider: &stubProvider{name: "b", err: wantErr}},
	})

	_, err := group.Generate(context.Background(), "m", GenerateRequest{Prompt: "hi"})
	require.ErrorIs(t, err, wantErr)

	_, err = group.Embed(context.Background(), "m", []string{"x"}, "retrieval_query")
	require.ErrorIs(t, err, wantErr)
}

func TestGroupProviderEmbedModelOverride(t *testing.T) {
	primary := &stubProvider{name: "a", err: errors.New("down")}
	secondary := &stubProvider{name: "b"}
	group := NewGroupProvider([]ProviderEntry{
		{Name: "a", Provider: primary},
		{Name: "b", Provider: secondary, EmbedModel: "b-embed"},
	})

	vecs, err := group.Embed(context.Background(), "a-embed", []string{"x", "y"}, "retrieval_document")
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Equal(t, "b-embed", secondary.lastModel)
}
