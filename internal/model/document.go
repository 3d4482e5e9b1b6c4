package model

type Document struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	ProjectID      string `json:"project_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Summary        string `json:"summary"`
	DocumentType   string `json:"document_type"`
	FileName       string `json:"file_name"`
	FileKey        string `json:"file_key"`
	FileSize       int64  `json:"file_size"`
	MimeType       string `json:"mime_type"`
	IsActive       bool   `json:"is_active"`
	Ctime          int64  `json:"ctime"`
	Mtime          int64  `json:"mtime"`
}
