package model

type Role struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Permissions    []string `json:"permissions"`
	IsActive       bool     `json:"is_active"`
	Ctime          int64    `json:"ctime"`
	Mtime          int64    `json:"mtime"`
}
