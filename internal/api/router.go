package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mwidjaja/taskchat/internal/agent"
	"github.com/mwidjaja/taskchat/internal/api/handler"
	customMiddleware "github.com/mwidjaja/taskchat/internal/api/middleware"
	"github.com/mwidjaja/taskchat/internal/config"
	"github.com/mwidjaja/taskchat/internal/llm"
	"github.com/mwidjaja/taskchat/internal/llm/gemini"
	"github.com/mwidjaja/taskchat/internal/llm/openai"
	"github.com/mwidjaja/taskchat/internal/repository/postgres"
	"github.com/mwidjaja/taskchat/internal/repository/redis"
	"github.com/mwidjaja/taskchat/internal/security"
	"github.com/mwidjaja/taskchat/internal/service"
	"github.com/mwidjaja/taskchat/internal/tool"
	"github.com/mwidjaja/taskchat/internal/tool/tasks"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Per-user limiter for chat turns; other endpoints are not limited
	chatLimiter := redis.NewRateLimiter(
		redisClient,
		"chat",
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// LLM router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Groq.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewGroqProvider(cfg.LLM.Groq.APIKey, cfg.LLM.Groq.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}

	// Tool registry; tools are registered once at startup
	registry := tool.NewRegistry(cfg.Agent.ToolTimeout)
	if err := tasks.New(taskRepo).RegisterAll(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to register task tools")
	}

	// Orchestrator
	maxRetries := uint64(cfg.Agent.MaxRetries)
	orchestrator := agent.New(llmRouter, registry, conversationRepo, messageRepo, agent.Config{
		HistoryWindow: cfg.Agent.HistoryWindow,
		ModelTimeout:  cfg.Agent.ModelTimeout,
		MaxRetries:    &maxRetries,
		Temperature:   &cfg.Agent.Temperature,
		MaxTokens:     cfg.Agent.MaxTokens,
	})

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	taskService := service.NewTaskService(taskRepo)
	chatService := service.NewChatService(orchestrator, conversationRepo, messageRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	chatHandler := handler.NewChatHandler(chatService)
	conversationHandler := handler.NewConversationHandler(chatService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(chatLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

			// Chat, with its own per-user rate budget
			r.With(rateLimitMiddleware.Limit).Post("/chat", chatHandler.Send)

			// Conversations
			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)

				r.Route("/{conversationID}", func(r chi.Router) {
					r.Get("/", conversationHandler.Get)
					r.Get("/messages", conversationHandler.Messages)
					r.Delete("/", conversationHandler.Delete)
				})
			})

			// Tasks
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Post("/toggle", taskHandler.Toggle)
					r.Delete("/", taskHandler.Delete)
				})
			})
		})
	})

	return r
}
