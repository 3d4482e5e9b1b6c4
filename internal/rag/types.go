package rag

import (
	"time"

	"github.com/agentbase/agentbase/internal/model"
)

type SourceKind string

const (
	SourceDocuments SourceKind = "documents"
	SourceMessages  SourceKind = "messages"
)

func (s SourceKind) Collection() string {
	if s == SourceMessages {
		return model.CollectionMessages
	}
	return model.CollectionDocuments
}

// Candidate is an index hit resolved against its backing store. Payload
// keeps the raw index metadata for callers that need provider fields.
type Candidate struct {
	ID      string
	Score   float64
	Kind    SourceKind
	Payload map[string]string
}

type RankedCandidate struct {
	ID            string
	Kind          SourceKind
	SemanticScore float64
	KeywordScore  float64
	CombinedScore float64
}

type RetrievalStatus string

const (
	// RetrievalOK means the search ran and returned whatever matched,
	// possibly nothing.
	RetrievalOK RetrievalStatus = "ok"
	// RetrievalDegraded means no embedding was available so the search
	// was skipped entirely.
	RetrievalDegraded RetrievalStatus = "degraded"
	// RetrievalFailed means the index or store call errored.
	RetrievalFailed RetrievalStatus = "failed"
)

// RetrievalResult makes the degrade-vs-fail decision an explicit branch for
// the orchestrator instead of a swallowed exception. Documents or Messages
// (depending on the source kind) hold the resolved records, index-aligned
// with Candidates.
type RetrievalResult struct {
	Status     RetrievalStatus
	Candidates []Candidate
	Documents  []model.Document
	Messages   []model.Message
	Err        error
}

type RetrievedDocument struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Preview string  `json:"preview"`
	Score   float64 `json:"score"`
}

type RetrievedMessage struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	Score          float64 `json:"score"`
}

// ContextBlock is the assembled provenance: which snippets went into the
// prompt and in what order. Immutable once built.
type ContextBlock struct {
	Documents []RetrievedDocument `json:"documents"`
	Messages  []RetrievedMessage  `json:"messages"`
}

func (c ContextBlock) Empty() bool {
	return len(c.Documents) == 0 && len(c.Messages) == 0
}

// Options carries the caller-tunable knobs for one pipeline run. Zero
// values are replaced by configured defaults before validation.
type Options struct {
	IncludeDocuments bool
	IncludeMessages  bool
	ConversationID   string
	DocumentLimit    int
	MessageLimit     int
	ScoreThreshold   float64
	SystemPrompt     string
	Model            string
	Temperature      float64
	MaxTokens        int
}

type Timings struct {
	RetrieveDocs time.Duration `json:"retrieve_docs"`
	RetrieveMsgs time.Duration `json:"retrieve_msgs"`
	Assemble     time.Duration `json:"assemble"`
	Generate     time.Duration `json:"generate"`
	Total        time.Duration `json:"total"`
}

// Result is returned even alongside a generation error so the caller can
// inspect what was retrieved and retry deterministically.
type Result struct {
	Answer      string       `json:"answer"`
	Context     ContextBlock `json:"context"`
	ContextUsed bool         `json:"context_used"`
	Timings     Timings      `json:"timings"`
}
