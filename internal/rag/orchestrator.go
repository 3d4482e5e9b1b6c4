package rag

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/ai"
	errs "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
)

const (
	minQueryRunes  = 2
	maxSourceLimit = 100
)

// TextGenerator is the LLM boundary. Failure here is fatal to the request,
// unlike retrieval.
type TextGenerator interface {
	Generate(ctx context.Context, model string, req ai.GenerateRequest) (string, error)
}

type OrchestratorConfig struct {
	DocumentLimit     int
	MessageLimit      int
	ScoreThreshold    float64
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	DefaultModel      string
}

// Orchestrator drives one stateless pipeline run: retrieve both sources
// concurrently, assemble the bounded context, call the model. Retrieval is
// best-effort enrichment; generation is not.
type Orchestrator struct {
	retriever *SemanticRetriever
	assembler *ContextAssembler
	generator TextGenerator
	cfg       OrchestratorConfig
}

func NewOrchestrator(retriever *SemanticRetriever, assembler *ContextAssembler, generator TextGenerator, cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{retriever: retriever, assembler: assembler, generator: generator, cfg: cfg}
}

func (o *Orchestrator) Run(ctx context.Context, query, orgID string, opts Options) (*Result, error) {
	opts = o.applyDefaults(opts)
	if err := validate(query, orgID, opts); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{}

	docRes, msgRes := o.retrieveConcurrently(ctx, query, orgID, opts, &result.Timings)
	logDegraded(ctx, SourceDocuments, docRes)
	logDegraded(ctx, SourceMessages, msgRes)

	assembleStart := time.Now()
	docEntries := documentEntries(docRes)
	msgEntries := messageEntries(msgRes, opts.ConversationID)
	block, prompt := o.assembler.Assemble(docEntries, msgEntries, opts.SystemPrompt)
	result.Context = block
	result.ContextUsed = !block.Empty()
	result.Timings.Assemble = time.Since(assembleStart)

	genStart := time.Now()
	answer, err := o.generate(ctx, query, prompt, opts)
	result.Timings.Generate = time.Since(genStart)
	result.Timings.Total = time.Since(start)
	if err != nil {
		// The retrieved context rides along with the error so the caller
		// can inspect it or retry deterministically.
		return result, fmt.Errorf("%w: generation failed: %v", errs.ErrInternal, err)
	}
	result.Answer = answer
	return result, nil
}

func (o *Orchestrator) applyDefaults(opts Options) Options {
	if opts.DocumentLimit == 0 {
		opts.DocumentLimit = o.cfg.DocumentLimit
	}
	if opts.MessageLimit == 0 {
		opts.MessageLimit = o.cfg.MessageLimit
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = o.cfg.ScoreThreshold
	}
	if opts.Model == "" {
		opts.Model = o.cfg.DefaultModel
	}
	return opts
}

func validate(query, orgID string, opts Options) error {
	if utf8.RuneCountInString(query) < minQueryRunes {
		return fmt.Errorf("%w: query must be at least %d characters", errs.ErrInvalid, minQueryRunes)
	}
	if orgID == "" {
		return fmt.Errorf("%w: organization id is required", errs.ErrInvalid)
	}
	if opts.DocumentLimit < 1 || opts.DocumentLimit > maxSourceLimit {
		return fmt.Errorf("%w: document limit must be between 1 and %d", errs.ErrInvalid, maxSourceLimit)
	}
	if opts.MessageLimit < 1 || opts.MessageLimit > maxSourceLimit {
		return fmt.Errorf("%w: message limit must be between 1 and %d", errs.ErrInvalid, maxSourceLimit)
	}
	if opts.ScoreThreshold < 0 || opts.ScoreThreshold > 1 {
		return fmt.Errorf("%w: score threshold must be within [0, 1]", errs.ErrInvalid)
	}
	return nil
}

// retrieveConcurrently runs both sources in parallel with independent
// failure domains: a timeout or error on one side never cancels the other.
func (o *Orchestrator) retrieveConcurrently(ctx context.Context, query, orgID string, opts Options, timings *Timings) (RetrievalResult, RetrievalResult) {
	docRes := RetrievalResult{Status: RetrievalOK}
	msgRes := RetrievalResult{Status: RetrievalOK}
	var wg sync.WaitGroup
	if opts.IncludeDocuments {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			docRes = o.retrieveWithTimeout(ctx, query, orgID, SourceDocuments, opts.DocumentLimit, opts.ScoreThreshold)
			timings.RetrieveDocs = time.Since(start)
		}()
	}
	if opts.IncludeMessages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			msgRes = o.retrieveWithTimeout(ctx, query, orgID, SourceMessages, opts.MessageLimit, opts.ScoreThreshold)
			timings.RetrieveMsgs = time.Since(start)
		}()
	}
	wg.Wait()
	return docRes, msgRes
}

func (o *Orchestrator) retrieveWithTimeout(ctx context.Context, query, orgID string, kind SourceKind, limit int, threshold float64) RetrievalResult {
	if o.cfg.RetrievalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RetrievalTimeout)
		defer cancel()
	}
	return o.retriever.Retrieve(ctx, query, orgID, kind, limit, threshold)
}

func (o *Orchestrator) generate(ctx context.Context, query, prompt string, opts Options) (string, error) {
	if o.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.GenerationTimeout)
		defer cancel()
	}
	return o.generator.Generate(ctx, opts.Model, ai.GenerateRequest{
		Prompt:       query,
		SystemPrompt: prompt,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
	})
}

func documentEntries(res RetrievalResult) []DocumentEntry {
	if res.Status != RetrievalOK {
		return nil
	}
	entries := make([]DocumentEntry, 0, len(res.Documents))
	for i, doc := range res.Documents {
		entries = append(entries, DocumentEntry{Doc: doc, Score: res.Candidates[i].Score})
	}
	return entries
}

func messageEntries(res RetrievalResult, conversationID string) []MessageEntry {
	if res.Status != RetrievalOK {
		return nil
	}
	entries := make([]MessageEntry, 0, len(res.Messages))
	for i, msg := range res.Messages {
		if conversationID != "" && msg.ConversationID != conversationID {
			continue
		}
		entries = append(entries, MessageEntry{Msg: msg, Score: res.Candidates[i].Score})
	}
	return entries
}

func logDegraded(ctx context.Context, kind SourceKind, res RetrievalResult) {
	switch res.Status {
	case RetrievalDegraded:
		logutil.GetLogger(ctx).Warn("retrieval degraded, no embedding available", zap.String("source", string(kind)))
	case RetrievalFailed:
		logutil.GetLogger(ctx).Warn("retrieval failed, continuing without context", zap.String("source", string(kind)), zap.Error(res.Err))
	}
}
