package rag

import (
	"sort"
	"strings"

	"github.com/agentbase/agentbase/internal/model"
)

const (
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3

	titleMatchScore   = 0.5
	summaryMatchScore = 0.3
	contentMatchScore = 0.2
)

// KeywordScore is a case-insensitive substring check against the three
// document fields. The per-field contributions sum to exactly 1.0 so the
// result stays in [0, 1] without clamping.
func KeywordScore(query string, doc *model.Document) float64 {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return 0
	}
	var score float64
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		score += titleMatchScore
	}
	if strings.Contains(strings.ToLower(doc.Summary), needle) {
		score += summaryMatchScore
	}
	if strings.Contains(strings.ToLower(doc.Content), needle) {
		score += contentMatchScore
	}
	return score
}

// HybridRanker blends semantic similarity with keyword matching. Weights
// are caller-supplied and not required to sum to 1.
type HybridRanker struct {
	SemanticWeight float64
	KeywordWeight  float64
}

func NewHybridRanker(semanticWeight, keywordWeight float64) *HybridRanker {
	return &HybridRanker{SemanticWeight: semanticWeight, KeywordWeight: keywordWeight}
}

// Rank unions both candidate lists by id, scores each id with a missing-side
// score of zero, drops everything under minCombinedScore, and orders by
// combined score descending with id-ascending tie-breaks.
func (h *HybridRanker) Rank(semantic []Candidate, keyword []Candidate, minCombinedScore float64) []RankedCandidate {
	merged := make(map[string]*RankedCandidate)
	for _, c := range semantic {
		merged[c.ID] = &RankedCandidate{ID: c.ID, Kind: c.Kind, SemanticScore: c.Score}
	}
	for _, c := range keyword {
		if existing, ok := merged[c.ID]; ok {
			existing.KeywordScore = c.Score
			continue
		}
		merged[c.ID] = &RankedCandidate{ID: c.ID, Kind: c.Kind, KeywordScore: c.Score}
	}
	ranked := make([]RankedCandidate, 0, len(merged))
	for _, rc := range merged {
		rc.CombinedScore = rc.SemanticScore*h.SemanticWeight + rc.KeywordScore*h.KeywordWeight
		if rc.CombinedScore < minCombinedScore {
			continue
		}
		ranked = append(ranked, *rc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// RankSemanticOnly is the pure-semantic path: combined score is the
// semantic score, keyword scoring skipped. Ordering matches Rank, including
// the id-ascending tie-break.
func RankSemanticOnly(semantic []Candidate) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(semantic))
	for _, c := range semantic {
		ranked = append(ranked, RankedCandidate{
			ID:            c.ID,
			Kind:          c.Kind,
			SemanticScore: c.Score,
			CombinedScore: c.Score,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CombinedScore != ranked[j].CombinedScore {
			return ranked[i].CombinedScore > ranked[j].CombinedScore
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
