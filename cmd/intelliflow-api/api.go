// Package main provides the IntelliFlow API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/cache"
	"github.com/manishsingh1309/ai-planet/pkg/documents"
	"github.com/manishsingh1309/ai-planet/pkg/eventbus"
	"github.com/manishsingh1309/ai-planet/pkg/events"
	"github.com/manishsingh1309/ai-planet/pkg/persistence"
	"github.com/manishsingh1309/ai-planet/pkg/registry"
	"github.com/manishsingh1309/ai-planet/pkg/services"
	"github.com/manishsingh1309/ai-planet/pkg/validation"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
	"github.com/manishsingh1309/ai-planet/pkg/web"
	"github.com/manishsingh1309/ai-planet/pkg/workflow"
)

type API struct {
	logger       *slog.Logger
	persistence  persistence.Persistence
	vectors      vectorstore.Store
	llm          ai.LLM
	embedder     ai.Embedder
	searcher     ai.Searcher
	sessions     cache.SessionCache
	eventBus     eventbus.EventBus
	aiConfigured bool
	validate     *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	vectors vectorstore.Store,
	llm ai.LLM,
	embedder ai.Embedder,
	searcher ai.Searcher,
	sessions cache.SessionCache,
	eventBus eventbus.EventBus,
	aiConfigured bool,
) *API {
	return &API{
		logger:       logger,
		persistence:  persistence,
		vectors:      vectors,
		llm:          llm,
		embedder:     embedder,
		searcher:     searcher,
		sessions:     sessions,
		eventBus:     eventBus,
		aiConfigured: aiConfigured,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	ingestor := documents.NewIngestor(a.embedder, a.vectors, a.logger)
	executor := workflow.NewExecutor(a.llm, a.persistence, a.eventBus, a.logger)

	workflowService := services.NewWorkflow(a.persistence, executor, ingestor, a.searcher, a.llm, a.logger)
	chatService := services.NewChat(a.persistence, ingestor, a.llm, a.sessions, a.logger)
	documentService := services.NewDocument(a.persistence, ingestor, a.vectors, a.eventBus, a.logger)

	aiCheck := func() (string, bool) {
		if a.aiConfigured {
			return "healthy", true
		}

		return "partially_available", false
	}

	handlers := web.NewAPIHandlers(
		workflowService,
		chatService,
		documentService,
		validation.NewValidator(),
		a.validate,
		registry.NewRegistry(),
		aiCheck,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: services.MaxUploadSize + 1024*1024,
	})
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", handlers.Root)
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	components := api.Group("/components")
	components.Post("/validate", handlers.ValidateComponent)
	components.Get("/types", handlers.GetComponentTypes)

	workflows := api.Group("/workflows")
	workflows.Get("/", handlers.GetWorkflows)
	workflows.Post("/", handlers.CreateWorkflow)
	workflows.Get("/:id", handlers.GetWorkflow)
	workflows.Put("/:id", handlers.UpdateWorkflow)
	workflows.Delete("/:id", handlers.DeleteWorkflow)
	workflows.Post("/:id/execute", handlers.ExecuteWorkflow)
	workflows.Post("/:id/execute-enhanced", handlers.ExecuteWorkflowEnhanced)

	docs := api.Group("/documents")
	docs.Post("/upload", handlers.UploadDocument)
	docs.Get("/", handlers.GetDocuments)
	docs.Delete("/:id", handlers.DeleteDocument)

	chat := api.Group("/chat")
	chat.Post("/", handlers.Chat)
	chat.Get("/history/:session_id", handlers.GetChatHistory)
	chat.Delete("/history/:session_id", handlers.DeleteChatHistory)

	// Backward-compatible aliases for early frontends.
	app.Post("/upload", handlers.LegacyUpload)
	app.Post("/chat", handlers.LegacyChat)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}

// subscribeLifecycleLogger logs every lifecycle event that crosses the bus.
func subscribeLifecycleLogger(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	eventLogger := logger.With("module", "events")

	logEvent := func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case *events.ExecutionStarted:
			eventLogger.InfoContext(ctx, "Execution started",
				"execution_id", e.ExecutionID, "workflow_id", e.WorkflowID, "workflow_name", e.WorkflowName)
		case *events.ExecutionCompleted:
			eventLogger.InfoContext(ctx, "Execution completed",
				"execution_id", e.ExecutionID, "duration_ms", e.DurationMs)
		case *events.ExecutionFailed:
			eventLogger.WarnContext(ctx, "Execution failed",
				"execution_id", e.ExecutionID, "error", e.Error)
		case *events.DocumentIngested:
			eventLogger.InfoContext(ctx, "Document ingested",
				"document_id", e.DocumentID, "chunks", e.ChunkCount)
		}

		return nil
	}

	for _, eventType := range []events.EventType{
		events.ExecutionStartedEvent,
		events.ExecutionCompletedEvent,
		events.ExecutionFailedEvent,
		events.DocumentIngestedEvent,
	} {
		if err := bus.Handle(eventType, logEvent); err != nil {
			return err
		}
	}

	return bus.Subscribe(ctx)
}
