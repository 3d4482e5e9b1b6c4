package model

const (
	IndexKindDocument = "document"
	IndexKindMessage  = "message"

	IndexOpUpsert = "upsert"
	IndexOpDelete = "delete"

	IndexStatePending = 1
	IndexStateDone    = 2
	IndexStateFailed  = 3
)

// IndexTask is one unit of background vector-index work. Tasks are retried
// until attempts run out, giving at-least-once delivery.
type IndexTask struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Op             string `json:"op"`
	RefID          string `json:"ref_id"`
	OrganizationID string `json:"organization_id"`
	Attempts       int    `json:"attempts"`
	State          int    `json:"state"`
	Ctime          int64  `json:"ctime"`
	Mtime          int64  `json:"mtime"`
}
