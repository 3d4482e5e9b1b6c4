package model

type AgentConfig struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	ProjectID      string  `json:"project_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Model          string  `json:"model"`
	SystemPrompt   string  `json:"system_prompt"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	IsActive       bool    `json:"is_active"`
	Ctime          int64   `json:"ctime"`
	Mtime          int64   `json:"mtime"`
}
