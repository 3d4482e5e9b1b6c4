package job

import (
	"context"

	"github.com/agentbase/agentbase/internal/service"
)

// IndexQueueJob drains pending vector-index tasks on every tick.
type IndexQueueJob struct {
	indexer   *service.IndexerService
	batchSize int
}

func NewIndexQueueJob(indexer *service.IndexerService, batchSize int) *IndexQueueJob {
	return &IndexQueueJob{indexer: indexer, batchSize: batchSize}
}

func (j *IndexQueueJob) Name() string {
	return "index_queue"
}

func (j *IndexQueueJob) Run(ctx context.Context) error {
	if j.indexer == nil {
		return nil
	}
	_, err := j.indexer.ProcessPending(ctx, j.batchSize)
	return err
}
