package rag

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentbase/agentbase/internal/model"
)

func TestKeywordScoreFieldContributions(t *testing.T) {
	doc := &model.Document{
		Title:   "Refund Policy",
		Summary: "How refunds are processed",
		Content: "Customers may request a refund within 30 days.",
	}

	require.Equal(t, 1.0, KeywordScore("refund", doc))
	require.Equal(t, 0.5, KeywordScore("policy", doc))
	require.Equal(t, 0.2, KeywordScore("30 days", doc))
	require.Equal(t, 0.0, KeywordScore("shipping", doc))
	require.Equal(t, 0.0, KeywordScore("   ", doc))
	require.Equal(t, 1.0, KeywordScore("REFUND", doc))
}

func TestRankCombinedScoreIsExactWeightedSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	weights := [][2]float64{{0.7, 0.3}, {0.5, 0.5}, {1, 0}, {0, 1}, {0.9, 0.4}}

	for _, w := range weights {
		ranker := NewHybridRanker(w[0], w[1])
		var semantic, keyword []Candidate
		for i := 0; i < 20; i++ {
			id := fmt.Sprintf("doc-%02d", i)
			if rng.Intn(3) != 0 {
				semantic = append(semantic, Candidate{ID: id, Kind: SourceDocuments, Score: rng.Float64()})
			}
			if rng.Intn(3) != 0 {
				keyword = append(keyword, Candidate{ID: id, Kind: SourceDocuments, Score: rng.Float64()})
			}
		}
		semByID := scoresByID(semantic)
		kwByID := scoresByID(keyword)

		ranked := ranker.Rank(semantic, keyword, 0)
		require.Len(t, ranked, len(unionIDs(semantic, keyword)))
		for i, rc := range ranked {
			require.Equal(t, semByID[rc.ID]*w[0]+kwByID[rc.ID]*w[1], rc.CombinedScore)
			if i > 0 {
				require.GreaterOrEqual(t, ranked[i-1].CombinedScore, rc.CombinedScore)
			}
		}
	}
}

func TestRankTiesBrokenByIDAscending(t *testing.T) {
	ranker := NewHybridRanker(1, 0)
	semantic := []Candidate{
		{ID: "doc-c", Score: 0.8},
		{ID: "doc-a", Score: 0.8},
		{ID: "doc-b", Score: 0.8},
	}

	ranked := ranker.Rank(semantic, nil, 0)
	require.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, rankedIDs(ranked))
}

func TestRankFiltersBelowMinCombinedScore(t *testing.T) {
	ranker := NewHybridRanker(DefaultSemanticWeight, DefaultKeywordWeight)

	// Matched only by title keyword, never retrieved semantically:
	// combined = 0*0.7 + 0.5*0.3 = 0.15.
	keyword := []Candidate{{ID: "doc-kw", Kind: SourceDocuments, Score: titleMatchScore}}

	ranked := ranker.Rank(nil, keyword, 0.1)
	require.Len(t, ranked, 1)
	require.InDelta(t, 0.15, ranked[0].CombinedScore, 1e-9)
	require.Equal(t, 0.0, ranked[0].SemanticScore)

	require.Empty(t, ranker.Rank(nil, keyword, 0.2))
}

func TestRankSemanticOnlyUsesSemanticAsCombined(t *testing.T) {
	ranked := RankSemanticOnly([]Candidate{
		{ID: "m-1", Score: 0.6},
		{ID: "m-2", Score: 0.9},
	})

	require.Equal(t, []string{"m-2", "m-1"}, rankedIDs(ranked))
	require.Equal(t, 0.9, ranked[0].CombinedScore)
	require.Equal(t, ranked[0].SemanticScore, ranked[0].CombinedScore)
	require.Zero(t, ranked[0].KeywordScore)
}

func scoresByID(candidates []Candidate) map[string]float64 {
	out := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		out[c.ID] = c.Score
	}
	return out
}

func unionIDs(lists ...[]Candidate) map[string]bool {
	out := make(map[string]bool)
	for _, list := range lists {
		for _, c := range list {
			out[c.ID] = true
		}
	}
	return out
}

func rankedIDs(ranked []RankedCandidate) []string {
	out := make([]string, 0, len(ranked))
	for _, rc := range ranked {
		out = append(out, rc.ID)
	}
	return out
}
