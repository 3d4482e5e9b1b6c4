package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/agentbase/agentbase/internal/model"
)

// EmbeddingCacheRepo persists provider embeddings keyed by
// (model_name, task_type, content_hash) so restarts keep the cache warm.
type EmbeddingCacheRepo struct {
	db *sql.DB
}

func NewEmbeddingCacheRepo(db *sql.DB) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{db: db}
}

func (r *EmbeddingCacheRepo) Lookup(ctx context.Context, modelName, taskType, contentHash string) ([]float32, bool, error) {
	if contentHash == "" {
		return nil, false, fmt.Errorf("content_hash is required")
	}
	const query = `
		SELECT embedding FROM embedding_cache
		WHERE content_hash = $1 AND model_name = $2 AND task_type = $3
	`
	var vec pgvector.Vector
	err := r.db.QueryRowContext(ctx, query, contentHash, modelName, taskType).Scan(&vec)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return vec.Slice(), true, nil
}

func (r *EmbeddingCacheRepo) Save(ctx context.Context, item *model.EmbeddingCache) error {
	if item.ContentHash == "" {
		return fmt.Errorf("content_hash is required")
	}
	ctime := item.Ctime
	if ctime == 0 {
		ctime = time.Now().Unix()
	}
	const query = `
		INSERT INTO embedding_cache (model_name, task_type, content_hash, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (model_name, task_type, content_hash)
		DO UPDATE SET embedding = EXCLUDED.embedding, ctime = EXCLUDED.ctime
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ModelName, item.TaskType, item.ContentHash,
		pgvector.NewVector(item.Embedding), ctime)
	return err
}

func (r *EmbeddingCacheRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM embedding_cache WHERE ctime < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
