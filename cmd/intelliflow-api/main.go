package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/manishsingh1309/ai-planet/pkg/ai"
	"github.com/manishsingh1309/ai-planet/pkg/cache"
	"github.com/manishsingh1309/ai-planet/pkg/cmd"
	"github.com/manishsingh1309/ai-planet/pkg/log"
	"github.com/manishsingh1309/ai-planet/pkg/maintenance"
	"github.com/manishsingh1309/ai-planet/pkg/vectorstore"
)

const defaultPort = 8000

func main() {
	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "intelliflow-api",
		Usage:                 "Build, validate and execute no-code AI workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL (postgres://... or file://...)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "Google Gemini API key for generation and embeddings",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "serpapi-api-key",
				Usage:   "SerpAPI key for web search",
				Sources: cli.EnvVars("SERPAPI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the chat session cache (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.IntFlag{
				Name:    "chat-retention-days",
				Usage:   "Days to keep chat history, 0 disables the sweep",
				Value:   30,
				Sources: cli.EnvVars("CHAT_RETENTION_DAYS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing IntelliFlow API")

			persistence, db, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			var vectors vectorstore.Store
			if db != nil {
				vectors, err = vectorstore.NewPgVectorStore(ctx, logger, db, ai.EmbeddingDim)
				if err != nil {
					return err
				}
			} else {
				vectors = vectorstore.NewMemoryStore()
			}

			var (
				llm      ai.LLM
				embedder ai.Embedder
			)

			gemini := ai.NewGeminiClient(command.String("gemini-api-key"))
			if gemini.Configured() {
				llm = gemini
				embedder = gemini
			} else {
				logger.WarnContext(ctx, "Gemini API key not set, using stub AI providers")

				llm = ai.NewStubLLM()
				embedder = ai.NewStubEmbedder()
			}

			searcher := ai.NewSerpAPIClient(command.String("serpapi-api-key"))

			sessions, err := newSessionCache(ctx, command.String("redis-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := sessions.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close session cache", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := subscribeLifecycleLogger(ctx, eventBus, logger); err != nil {
				return err
			}

			retention := maintenance.NewRetention(persistence, command.Int("chat-retention-days"), logger)
			if err := retention.Start(); err != nil {
				return err
			}
			defer retention.Stop()

			api := NewAPI(
				logger,
				persistence,
				vectors,
				llm,
				embedder,
				searcher,
				sessions,
				eventBus,
				gemini.Configured(),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func newSessionCache(ctx context.Context, redisURL string) (cache.SessionCache, error) {
	if redisURL == "" {
		return cache.NewNoop(), nil
	}

	return cache.NewRedisCache(ctx, redisURL, cache.DefaultTTL)
}
