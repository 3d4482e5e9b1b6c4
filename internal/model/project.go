package model

type Project struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	CreatedBy      string `json:"created_by"`
	IsActive       bool   `json:"is_active"`
	Ctime          int64  `json:"ctime"`
	Mtime          int64  `json:"mtime"`
}
