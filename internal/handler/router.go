package handler

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/agentbase/agentbase/internal/middleware"
)

type RouterDeps struct {
	Auth          *AuthHandler
	Organizations *OrganizationHandler
	Users         *UserHandler
	Roles         *RoleHandler
	Projects      *ProjectHandler
	AgentConfigs  *AgentConfigHandler
	Conversations *ConversationHandler
	Documents     *DocumentHandler
	Search        *SearchHandler
	Chat          *ChatHandler
	JWTSecret     []byte
	CORSOrigins   []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(deps.CORSOrigins))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	api := engine.Group("/api/v1")
	RegisterRoutes(api, deps)
	return engine
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.GET("/organization", deps.Organizations.Get)

	adminGroup := authGroup.Group("")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.PUT("/organization", deps.Organizations.Update)
	adminGroup.DELETE("/organization", deps.Organizations.Deactivate)
	adminGroup.POST("/users", deps.Users.Create)
	adminGroup.PUT("/users/:id", deps.Users.Update)
	adminGroup.DELETE("/users/:id", deps.Users.Deactivate)
	adminGroup.POST("/roles", deps.Roles.Create)
	adminGroup.PUT("/roles/:id", deps.Roles.Update)
	adminGroup.DELETE("/roles/:id", deps.Roles.Delete)

	authGroup.GET("/users", deps.Users.List)
	authGroup.GET("/users/:id", deps.Users.Get)
	authGroup.GET("/roles", deps.Roles.List)
	authGroup.GET("/roles/:id", deps.Roles.Get)

	authGroup.POST("/projects", deps.Projects.Create)
	authGroup.GET("/projects", deps.Projects.List)
	authGroup.GET("/projects/:id", deps.Projects.Get)
	authGroup.PUT("/projects/:id", deps.Projects.Update)
	authGroup.DELETE("/projects/:id", deps.Projects.Delete)

	authGroup.POST("/agent-configs", deps.AgentConfigs.Create)
	authGroup.GET("/agent-configs", deps.AgentConfigs.List)
	authGroup.GET("/agent-configs/:id", deps.AgentConfigs.Get)
	authGroup.PUT("/agent-configs/:id", deps.AgentConfigs.Update)
	authGroup.DELETE("/agent-configs/:id", deps.AgentConfigs.Delete)

	authGroup.POST("/conversations", deps.Conversations.Create)
	authGroup.GET("/conversations", deps.Conversations.List)
	authGroup.GET("/conversations/:id", deps.Conversations.Get)
	authGroup.PUT("/conversations/:id/archive", deps.Conversations.SetArchived)
	authGroup.DELETE("/conversations/:id", deps.Conversations.Delete)
	authGroup.POST("/conversations/:id/messages", deps.Conversations.AddMessage)
	authGroup.GET("/conversations/:id/messages", deps.Conversations.ListMessages)
	authGroup.DELETE("/conversations/:id/messages/:mid", deps.Conversations.DeleteMessage)

	authGroup.POST("/documents", deps.Documents.Create)
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.PUT("/documents/:id", deps.Documents.Update)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)
	authGroup.POST("/documents/:id/file", deps.Documents.Upload)
	authGroup.GET("/documents/:id/file", deps.Documents.Download)

	authGroup.POST("/search/semantic", deps.Search.SemanticSearch)
	authGroup.POST("/search/hybrid", deps.Search.HybridSearch)
	authGroup.POST("/search/messages", deps.Search.SearchMessages)

	authGroup.POST("/chat", deps.Chat.Chat)
}
