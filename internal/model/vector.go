package model

const (
	CollectionDocuments = "documents"
	CollectionMessages  = "conversations"
)

// VectorEntry is one point in the vector index. The validated core fields
// (id, tenant, project) are explicit columns; everything provider-specific
// lives in Metadata.
type VectorEntry struct {
	Collection     string            `json:"collection"`
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	ProjectID      string            `json:"project_id"`
	Embedding      []float32         `json:"embedding"`
	Metadata       map[string]string `json:"metadata"`
	Ctime          int64             `json:"ctime"`
}

// VectorHit is a nearest-neighbor search result before record lookup.
type VectorHit struct {
	ID             string            `json:"id"`
	Score          float64           `json:"score"`
	OrganizationID string            `json:"organization_id"`
	ProjectID      string            `json:"project_id"`
	Metadata       map[string]string `json:"metadata"`
}
