package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/filestore"
	"github.com/agentbase/agentbase/internal/model"
	appErr "github.com/agentbase/agentbase/internal/pkg/errors"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
	"github.com/agentbase/agentbase/internal/rag"
)

type documentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, orgID, id string) (*model.Document, error)
	ListByOrg(ctx context.Context, orgID, documentType string, activeOnly bool, offset, limit int) ([]model.Document, error)
	ListActiveByOrg(ctx context.Context, orgID string) ([]model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, orgID, id string, now int64) error
}

type indexQueue interface {
	Enqueue(ctx context.Context, kind, op, refID, orgID string) error
}

type DocumentService struct {
	docs      documentStore
	queue     indexQueue
	retriever *rag.SemanticRetriever
	files     filestore.Store
}

func NewDocumentService(docs documentStore, queue indexQueue, retriever *rag.SemanticRetriever, files filestore.Store) *DocumentService {
	return &DocumentService{docs: docs, queue: queue, retriever: retriever, files: files}
}

type DocumentCreateInput struct {
	ProjectID    string `json:"project_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Summary      string `json:"summary"`
	DocumentType string `json:"document_type"`
}

func (s *DocumentService) Create(ctx context.Context, orgID string, input DocumentCreateInput) (*model.Document, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", appErr.ErrInvalid)
	}
	now := time.Now().Unix()
	doc := &model.Document{
		ID:             newID(),
		OrganizationID: orgID,
		ProjectID:      input.ProjectID,
		Title:          strings.TrimSpace(input.Title),
		Content:        input.Content,
		Summary:        input.Summary,
		DocumentType:   input.DocumentType,
		IsActive:       true,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.enqueue(ctx, model.IndexOpUpsert, doc.ID, orgID)
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	return s.docs.Get(ctx, orgID, id)
}

func (s *DocumentService) List(ctx context.Context, orgID, documentType string, offset, limit int) ([]model.Document, error) {
	return s.docs.ListByOrg(ctx, orgID, documentType, true, offset, normalizeLimit(limit))
}

type DocumentUpdateInput struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Summary      string `json:"summary"`
	DocumentType string `json:"document_type"`
}

func (s *DocumentService) Update(ctx context.Context, orgID, id string, input DocumentUpdateInput) (*model.Document, error) {
	doc, err := s.docs.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", appErr.ErrInvalid)
	}
	doc.Title = strings.TrimSpace(input.Title)
	doc.Content = input.Content
	doc.Summary = input.Summary
	doc.DocumentType = input.DocumentType
	doc.Mtime = time.Now().Unix()
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.enqueue(ctx, model.IndexOpUpsert, doc.ID, orgID)
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, orgID, id string) error {
	if err := s.docs.Delete(ctx, orgID, id, time.Now().Unix()); err != nil {
		return err
	}
	s.enqueue(ctx, model.IndexOpDelete, id, orgID)
	return nil
}

// AttachFile stores the uploaded file and records its location on the
// document. The file key is server-generated, never the client file name.
func (s *DocumentService) AttachFile(ctx context.Context, orgID, id, fileName, mimeType string, r io.ReadSeeker, size int64) (*model.Document, error) {
	doc, err := s.docs.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	key := newID()
	if err := s.files.Save(ctx, key, r, size); err != nil {
		return nil, err
	}
	doc.FileName = fileName
	doc.FileKey = key
	doc.FileSize = size
	doc.MimeType = mimeType
	doc.Mtime = time.Now().Unix()
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) OpenFile(ctx context.Context, orgID, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.docs.Get(ctx, orgID, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.FileKey == "" {
		return nil, nil, appErr.ErrNotFound
	}
	r, err := s.files.Open(ctx, doc.FileKey)
	if err != nil {
		return nil, nil, err
	}
	return r, doc, nil
}

type DocumentSearchResult struct {
	Document      model.Document `json:"document"`
	SemanticScore float64        `json:"semantic_score"`
	KeywordScore  float64        `json:"keyword_score"`
	CombinedScore float64        `json:"combined_score"`
}

// SemanticSearch is the pure vector path: index similarity is the final
// score. A degraded embedding yields an empty result, not an error.
func (s *DocumentService) SemanticSearch(ctx context.Context, orgID, query string, limit int, threshold float64) ([]DocumentSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", appErr.ErrInvalid)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: score threshold must be within [0, 1]", appErr.ErrInvalid)
	}
	res := s.retriever.Retrieve(ctx, query, orgID, rag.SourceDocuments, normalizeLimit(limit), threshold)
	if res.Status == rag.RetrievalFailed {
		return nil, res.Err
	}
	byID := make(map[string]model.Document, len(res.Documents))
	for _, doc := range res.Documents {
		byID[doc.ID] = doc
	}
	out := make([]DocumentSearchResult, 0, len(res.Candidates))
	for _, rc := range rag.RankSemanticOnly(res.Candidates) {
		doc, ok := byID[rc.ID]
		if !ok {
			continue
		}
		out = append(out, DocumentSearchResult{
			Document:      doc,
			SemanticScore: rc.SemanticScore,
			CombinedScore: rc.CombinedScore,
		})
	}
	return out, nil
}

type HybridSearchInput struct {
	Query            string  `json:"query"`
	Limit            int     `json:"limit"`
	ScoreThreshold   float64 `json:"score_threshold"`
	SemanticWeight   float64 `json:"semantic_weight"`
	KeywordWeight    float64 `json:"keyword_weight"`
	MinCombinedScore float64 `json:"min_combined_score"`
}

// HybridSearch unions semantic hits with a keyword scan over the tenant's
// active documents and ranks by the weighted blend.
func (s *DocumentService) HybridSearch(ctx context.Context, orgID string, input HybridSearchInput) ([]DocumentSearchResult, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", appErr.ErrInvalid)
	}
	if input.SemanticWeight < 0 || input.SemanticWeight > 1 || input.KeywordWeight < 0 || input.KeywordWeight > 1 {
		return nil, fmt.Errorf("%w: weights must be within [0, 1]", appErr.ErrInvalid)
	}
	if input.ScoreThreshold < 0 || input.ScoreThreshold > 1 {
		return nil, fmt.Errorf("%w: score threshold must be within [0, 1]", appErr.ErrInvalid)
	}
	if input.SemanticWeight == 0 && input.KeywordWeight == 0 {
		input.SemanticWeight = rag.DefaultSemanticWeight
		input.KeywordWeight = rag.DefaultKeywordWeight
	}
	limit := normalizeLimit(input.Limit)

	semRes := s.retriever.Retrieve(ctx, input.Query, orgID, rag.SourceDocuments, limit, input.ScoreThreshold)
	if semRes.Status == rag.RetrievalFailed {
		logutil.GetLogger(ctx).Warn("semantic side of hybrid search failed, keyword only", zap.Error(semRes.Err))
		semRes = rag.RetrievalResult{Status: rag.RetrievalOK}
	}
	byID := make(map[string]model.Document, len(semRes.Documents))
	for _, doc := range semRes.Documents {
		byID[doc.ID] = doc
	}

	active, err := s.docs.ListActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var keyword []rag.Candidate
	for _, doc := range active {
		score := rag.KeywordScore(input.Query, &doc)
		if score == 0 {
			continue
		}
		keyword = append(keyword, rag.Candidate{ID: doc.ID, Score: score, Kind: rag.SourceDocuments})
		byID[doc.ID] = doc
	}

	ranker := rag.NewHybridRanker(input.SemanticWeight, input.KeywordWeight)
	ranked := ranker.Rank(semRes.Candidates, keyword, input.MinCombinedScore)
	out := make([]DocumentSearchResult, 0, len(ranked))
	for _, rc := range ranked {
		doc, ok := byID[rc.ID]
		if !ok {
			continue
		}
		out = append(out, DocumentSearchResult{
			Document:      doc,
			SemanticScore: rc.SemanticScore,
			KeywordScore:  rc.KeywordScore,
			CombinedScore: rc.CombinedScore,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *DocumentService) enqueue(ctx context.Context, op, id, orgID string) {
	if err := s.queue.Enqueue(ctx, model.IndexKindDocument, op, id, orgID); err != nil {
		logutil.GetLogger(ctx).Warn("failed to enqueue document indexing",
			zap.String("document_id", id),
			zap.String("op", op),
			zap.Error(err))
	}
}
