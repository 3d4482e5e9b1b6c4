package job

import (
	"context"
	"time"

	"github.com/agentbase/agentbase/internal/repo"
	"github.com/agentbase/agentbase/internal/service"
)

// CleanupJob expires stale embedding-cache rows and prunes completed index
// tasks so neither table grows without bound.
type CleanupJob struct {
	cache      *repo.EmbeddingCacheRepo
	indexer    *service.IndexerService
	maxAgeDays int
}

func NewCleanupJob(cache *repo.EmbeddingCacheRepo, indexer *service.IndexerService, maxAgeDays int) *CleanupJob {
	return &CleanupJob{cache: cache, indexer: indexer, maxAgeDays: maxAgeDays}
}

func (j *CleanupJob) Name() string {
	return "cleanup"
}

func (j *CleanupJob) Run(ctx context.Context) error {
	maxAgeDays := j.maxAgeDays
	if maxAgeDays <= 0 {
		maxAgeDays = 30
	}
	keep := time.Duration(maxAgeDays) * 24 * time.Hour
	if j.cache != nil {
		if _, err := j.cache.DeleteBefore(ctx, time.Now().Add(-keep).Unix()); err != nil {
			return err
		}
	}
	if j.indexer != nil {
		if _, err := j.indexer.CleanupDone(ctx, keep); err != nil {
			return err
		}
	}
	return nil
}
