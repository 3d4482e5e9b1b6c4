package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/ai"
	"github.com/agentbase/agentbase/internal/model"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
	"github.com/agentbase/agentbase/internal/rag"
	"github.com/agentbase/agentbase/internal/repo"
)

// IndexerService drains the index queue and keeps the vector index in sync
// with the relational store. Each task is retried until its attempts run
// out; the writes are idempotent upserts, so at-least-once delivery is
// safe.
type IndexerService struct {
	queue       *repo.IndexQueueRepo
	docs        *repo.DocumentRepo
	messages    *repo.MessageRepo
	index       rag.VectorIndex
	embedder    ai.IEmbedder
	maxAttempts int
}

func NewIndexerService(queue *repo.IndexQueueRepo, docs *repo.DocumentRepo, messages *repo.MessageRepo, index rag.VectorIndex, embedder ai.IEmbedder, maxAttempts int) *IndexerService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &IndexerService{
		queue:       queue,
		docs:        docs,
		messages:    messages,
		index:       index,
		embedder:    embedder,
		maxAttempts: maxAttempts,
	}
}

func (s *IndexerService) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	tasks, err := s.queue.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		if err := s.process(ctx, &task); err != nil {
			logutil.GetLogger(ctx).Warn("index task failed",
				zap.Int64("task_id", task.ID),
				zap.String("kind", task.Kind),
				zap.String("op", task.Op),
				zap.Int("attempts", task.Attempts),
				zap.Error(err))
			if err := s.queue.MarkFailed(ctx, task.ID, s.maxAttempts); err != nil {
				return processed, err
			}
			continue
		}
		if err := s.queue.MarkDone(ctx, task.ID); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (s *IndexerService) process(ctx context.Context, task *model.IndexTask) error {
	switch task.Kind {
	case model.IndexKindDocument:
		if task.Op == model.IndexOpDelete {
			return s.index.Delete(ctx, model.CollectionDocuments, task.RefID, task.OrganizationID)
		}
		return s.indexDocument(ctx, task)
	case model.IndexKindMessage:
		if task.Op == model.IndexOpDelete {
			return s.index.Delete(ctx, model.CollectionMessages, task.RefID, task.OrganizationID)
		}
		return s.indexMessage(ctx, task)
	default:
		return fmt.Errorf("unknown index task kind: %s", task.Kind)
	}
}

func (s *IndexerService) indexDocument(ctx context.Context, task *model.IndexTask) error {
	docs, err := s.docs.GetByIDs(ctx, []string{task.RefID}, task.OrganizationID, true)
	if err != nil {
		return err
	}
	// Deleted or deactivated since the task was queued: converge by
	// removing the stale index entry.
	if len(docs) == 0 {
		return s.index.Delete(ctx, model.CollectionDocuments, task.RefID, task.OrganizationID)
	}
	doc := docs[0]
	text := documentEmbedText(&doc)
	vector, err := s.embedder.Embed(ctx, text, rag.TaskTypeDocument)
	if err != nil {
		return err
	}
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding for document %s", doc.ID)
	}
	return s.index.Upsert(ctx, &model.VectorEntry{
		Collection:     model.CollectionDocuments,
		ID:             doc.ID,
		OrganizationID: doc.OrganizationID,
		ProjectID:      doc.ProjectID,
		Embedding:      vector,
		Metadata: map[string]string{
			"title":         doc.Title,
			"document_type": doc.DocumentType,
		},
		Ctime: time.Now().Unix(),
	})
}

func (s *IndexerService) indexMessage(ctx context.Context, task *model.IndexTask) error {
	msgs, err := s.messages.GetByIDs(ctx, []string{task.RefID}, task.OrganizationID, true)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return s.index.Delete(ctx, model.CollectionMessages, task.RefID, task.OrganizationID)
	}
	msg := msgs[0]
	vector, err := s.embedder.Embed(ctx, msg.Content, rag.TaskTypeDocument)
	if err != nil {
		return err
	}
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding for message %s", msg.ID)
	}
	return s.index.Upsert(ctx, &model.VectorEntry{
		Collection:     model.CollectionMessages,
		ID:             msg.ID,
		OrganizationID: msg.OrganizationID,
		Embedding:      vector,
		Metadata: map[string]string{
			"conversation_id": msg.ConversationID,
			"role":            msg.Role,
		},
		Ctime: time.Now().Unix(),
	})
}

func (s *IndexerService) CleanupDone(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().Add(-keep).Unix()
	return s.queue.DeleteDoneBefore(ctx, cutoff)
}

// documentEmbedText flattens the document into the text that gets
// embedded. Markdown syntax is stripped so formatting does not perturb
// similarity.
func documentEmbedText(doc *model.Document) string {
	parts := make([]string, 0, 3)
	if doc.Title != "" {
		parts = append(parts, doc.Title)
	}
	if doc.Summary != "" {
		parts = append(parts, doc.Summary)
	}
	if doc.Content != "" {
		parts = append(parts, ai.MarkdownToText(doc.Content))
	}
	return strings.Join(parts, "\n")
}
