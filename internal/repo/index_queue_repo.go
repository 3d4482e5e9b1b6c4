package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentbase/agentbase/internal/model"
)

// IndexQueueRepo is the persistent work queue behind background vector
// indexing. Rows stay pending until marked done, so a crashed worker
// re-delivers the task on the next drain (at-least-once).
type IndexQueueRepo struct {
	db *sql.DB
}

func NewIndexQueueRepo(db *sql.DB) *IndexQueueRepo {
	return &IndexQueueRepo{db: db}
}

func (r *IndexQueueRepo) Enqueue(ctx context.Context, kind, op, refID, orgID string) error {
	now := time.Now().Unix()
	const query = `
		INSERT INTO index_queue (kind, op, ref_id, organization_id, attempts, state, ctime, mtime)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $6)
	`
	_, err := r.db.ExecContext(ctx, query, kind, op, refID, orgID, model.IndexStatePending, now)
	return err
}

func (r *IndexQueueRepo) ListPending(ctx context.Context, limit int) ([]model.IndexTask, error) {
	const query = `
		SELECT id, kind, op, ref_id, organization_id, attempts, state, ctime, mtime
		FROM index_queue
		WHERE state = $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, model.IndexStatePending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []model.IndexTask
	for rows.Next() {
		var task model.IndexTask
		if err := rows.Scan(&task.ID, &task.Kind, &task.Op, &task.RefID, &task.OrganizationID, &task.Attempts, &task.State, &task.Ctime, &task.Mtime); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *IndexQueueRepo) MarkDone(ctx context.Context, id int64) error {
	const query = `UPDATE index_queue SET state = $1, mtime = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, model.IndexStateDone, time.Now().Unix(), id)
	return err
}

// MarkFailed bumps the attempt counter; the task stays pending until
// maxAttempts is reached, then it is parked as failed.
func (r *IndexQueueRepo) MarkFailed(ctx context.Context, id int64, maxAttempts int) error {
	const query = `
		UPDATE index_queue
		SET attempts = attempts + 1,
		    state = CASE WHEN attempts + 1 >= $1 THEN $2 ELSE $3 END,
		    mtime = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, maxAttempts, model.IndexStateFailed, model.IndexStatePending, time.Now().Unix(), id)
	return err
}

func (r *IndexQueueRepo) DeleteDoneBefore(ctx context.Context, cutoff int64) (int64, error) {
	const query = `DELETE FROM index_queue WHERE state = $1 AND mtime < $2`
	res, err := r.db.ExecContext(ctx, query, model.IndexStateDone, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
