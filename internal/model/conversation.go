package model

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

type Conversation struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	ProjectID      string `json:"project_id"`
	AgentConfigID  string `json:"agent_config_id"`
	Title          string `json:"title"`
	MessageCount   int    `json:"message_count"`
	IsArchived     bool   `json:"is_archived"`
	IsActive       bool   `json:"is_active"`
	Ctime          int64  `json:"ctime"`
	Mtime          int64  `json:"mtime"`
}

type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	TokensUsed     int    `json:"tokens_used"`
	IsActive       bool   `json:"is_active"`
	Ctime          int64  `json:"ctime"`
}
