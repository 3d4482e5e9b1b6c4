package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/agentbase/agentbase/internal/model"
)

// VectorIndexRepo stores embeddings in Postgres with pgvector and serves
// cosine-similarity nearest-neighbor search. The tenant filter is part of
// every search and delete statement; there is no unscoped variant.
type VectorIndexRepo struct {
	db *sql.DB
}

func NewVectorIndexRepo(db *sql.DB) *VectorIndexRepo {
	return &VectorIndexRepo{db: db}
}

func (r *VectorIndexRepo) Upsert(ctx context.Context, entry *model.VectorEntry) error {
	if entry.Collection == "" || entry.ID == "" {
		return fmt.Errorf("vector entry collection and id are required")
	}
	if entry.OrganizationID == "" {
		return fmt.Errorf("vector entry organization_id is required")
	}
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	blob, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	ctime := entry.Ctime
	if ctime == 0 {
		ctime = time.Now().Unix()
	}
	const query = `
		INSERT INTO vector_entries (collection, id, organization_id, project_id, embedding, metadata, ctime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (collection, id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			project_id = EXCLUDED.project_id,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			ctime = EXCLUDED.ctime
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.Collection,
		entry.ID,
		entry.OrganizationID,
		entry.ProjectID,
		pgvector.NewVector(entry.Embedding),
		blob,
		ctime,
	)
	return err
}

func (r *VectorIndexRepo) Search(ctx context.Context, collection string, vector []float32, orgID string, limit int, scoreThreshold float64) ([]model.VectorHit, error) {
	if orgID == "" {
		return nil, fmt.Errorf("organization_id is required for vector search")
	}
	if len(vector) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, organization_id, project_id, metadata, 1 - (embedding <=> $1) AS score
		FROM vector_entries
		WHERE collection = $2 AND organization_id = $3 AND 1 - (embedding <=> $1) >= $4
		ORDER BY embedding <=> $1
		LIMIT $5
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(vector), collection, orgID, scoreThreshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var hits []model.VectorHit
	for rows.Next() {
		var hit model.VectorHit
		var blob []byte
		if err := rows.Scan(&hit.ID, &hit.OrganizationID, &hit.ProjectID, &blob, &hit.Score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &hit.Metadata); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (r *VectorIndexRepo) Delete(ctx context.Context, collection, id, orgID string) error {
	if orgID == "" {
		return fmt.Errorf("organization_id is required for vector delete")
	}
	const query = `DELETE FROM vector_entries WHERE collection = $1 AND id = $2 AND organization_id = $3`
	_, err := r.db.ExecContext(ctx, query, collection, id, orgID)
	return err
}
