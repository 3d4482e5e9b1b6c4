package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentbase/agentbase/internal/ai"
	"github.com/agentbase/agentbase/internal/config"
	"github.com/agentbase/agentbase/internal/db"
	"github.com/agentbase/agentbase/internal/embedcache"
	"github.com/agentbase/agentbase/internal/filestore"
	"github.com/agentbase/agentbase/internal/handler"
	"github.com/agentbase/agentbase/internal/job"
	"github.com/agentbase/agentbase/internal/pkg/logutil"
	"github.com/agentbase/agentbase/internal/rag"
	"github.com/agentbase/agentbase/internal/repo"
	"github.com/agentbase/agentbase/internal/schedule"
	"github.com/agentbase/agentbase/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "agentbase",
		Short: "agentbase backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run agentbase server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := logutil.Init(cfg.Log.Level, cfg.Log.Console); err != nil {
				return err
			}
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("file_store", cfg.FileStore.Type),
	)

	orgRepo := repo.NewOrganizationRepo(conn)
	userRepo := repo.NewUserRepo(conn)
	roleRepo := repo.NewRoleRepo(conn)
	projectRepo := repo.NewProjectRepo(conn)
	agentConfigRepo := repo.NewAgentConfigRepo(conn)
	conversationRepo := repo.NewConversationRepo(conn)
	messageRepo := repo.NewMessageRepo(conn)
	documentRepo := repo.NewDocumentRepo(conn)
	vectorRepo := repo.NewVectorIndexRepo(conn)
	cacheRepo := repo.NewEmbeddingCacheRepo(conn)
	queueRepo := repo.NewIndexQueueRepo(conn)

	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	if len(cfg.AI.Fallbacks) > 0 {
		entries := []ai.ProviderEntry{{Name: cfg.AI.Provider, Provider: aiProvider}}
		for _, fb := range cfg.AI.Fallbacks {
			p, err := ai.NewProvider(fb.Provider, fb.Data)
			if err != nil {
				return fmt.Errorf("init fallback provider %s: %w", fb.Provider, err)
			}
			entries = append(entries, ai.ProviderEntry{
				Name:       fb.Provider,
				Provider:   p,
				Model:      fb.Model,
				EmbedModel: fb.EmbedModel,
			})
		}
		aiProvider = ai.NewGroupProvider(entries)
	}
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel)
	embedder = embedcache.WrapDBCacheToEmbedder(embedder, cacheRepo)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder, cfg.AI.EmbedCacheSize, time.Duration(cfg.AI.EmbedCacheTTL)*time.Second)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	gateway := rag.NewEmbeddingGateway(embedder)
	retriever := rag.NewSemanticRetriever(gateway, vectorRepo, documentRepo, messageRepo)
	assembler := rag.NewContextAssembler(cfg.RAG.MaxDocChars, cfg.RAG.MaxMessageChars)
	orchestrator := rag.NewOrchestrator(retriever, assembler, aiProvider, rag.OrchestratorConfig{
		DocumentLimit:     cfg.RAG.DocumentLimit,
		MessageLimit:      cfg.RAG.MessageLimit,
		ScoreThreshold:    cfg.RAG.ScoreThreshold,
		RetrievalTimeout:  time.Duration(cfg.RAG.RetrievalTimeout) * time.Second,
		GenerationTimeout: time.Duration(cfg.RAG.GenerationTimeout) * time.Second,
		DefaultModel:      cfg.AI.Model,
	})

	jwtSecret := []byte(cfg.JWTSecret)
	jwtTTL := time.Hour * time.Duration(cfg.JWTTTLHours)
	authService := service.NewAuthService(orgRepo, userRepo, jwtSecret, jwtTTL)
	orgService := service.NewOrganizationService(orgRepo)
	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(roleRepo)
	projectService := service.NewProjectService(projectRepo)
	agentConfigService := service.NewAgentConfigService(agentConfigRepo)
	conversationService := service.NewConversationService(conversationRepo, messageRepo, queueRepo)
	documentService := service.NewDocumentService(documentRepo, queueRepo, retriever, store)
	ragService := service.NewRAGService(orchestrator, retriever, conversationService, agentConfigService)
	indexerService := service.NewIndexerService(queueRepo, documentRepo, messageRepo, vectorRepo, embedder, 3)

	engine := handler.NewRouter(handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Organizations: handler.NewOrganizationHandler(orgService),
		Users:         handler.NewUserHandler(userService),
		Roles:         handler.NewRoleHandler(roleService),
		Projects:      handler.NewProjectHandler(projectService),
		AgentConfigs:  handler.NewAgentConfigHandler(agentConfigService),
		Conversations: handler.NewConversationHandler(conversationService),
		Documents:     handler.NewDocumentHandler(documentService),
		Search:        handler.NewSearchHandler(documentService, ragService),
		Chat:          handler.NewChatHandler(ragService),
		JWTSecret:     jwtSecret,
		CORSOrigins:   cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewIndexQueueJob(indexerService, 50), cfg.IndexJobSpec); err != nil {
		return fmt.Errorf("schedule index job: %w", err)
	}
	if err := scheduler.AddJob(job.NewCleanupJob(cacheRepo, indexerService, 30), cfg.CacheJobSpec); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: engine}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
