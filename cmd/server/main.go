package main

import (
	"context"
	"log"
	"time"

	"prepwise-backend/config"
	"prepwise-backend/handlers"
	"prepwise-backend/repository"
	"prepwise-backend/service"
	"prepwise-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg := config.Load()

	// Repositories: Postgres when DATABASE_URL is set, otherwise in-memory.
	// Sessions always live in memory.
	var (
		userRepo      repository.UserRepository
		profileRepo   repository.ProfileRepository
		interviewRepo repository.InterviewRepository
		questionRepo  repository.QuestionRepository
		analyticsRepo repository.AnalyticsRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := initPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to initialize Postgres:", err)
		}
		defer db.Close()

		userRepo = repository.NewPostgresUserRepository(db)
		profileRepo = repository.NewPostgresProfileRepository(db)
		interviewRepo = repository.NewPostgresInterviewRepository(db)
		questionRepo = repository.NewPostgresQuestionRepository(db)
		analyticsRepo = repository.NewPostgresAnalyticsRepository(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory storage")
		userRepo = repository.NewMemoryUserRepository()
		profileRepo = repository.NewMemoryProfileRepository()
		interviewRepo = repository.NewMemoryInterviewRepository()
		questionRepo = repository.NewMemoryQuestionRepository()
		analyticsRepo = repository.NewMemoryAnalyticsRepository()
	}
	sessionRepo := repository.NewMemorySessionRepository()

	// Initialize storage for profile photos
	avatarStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Println("Storage initialized")

	// Initialize Gemini client
	geminiClient, err := initGemini(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}
	generator := service.NewGeminiGenerator(geminiClient, service.DefaultGeminiModel)

	// Initialize services
	accountService := service.NewAccountService(
		service.AccountWithUserRepository(userRepo),
		service.AccountWithProfileRepository(profileRepo),
		service.AccountWithAnalyticsRepository(analyticsRepo),
		service.AccountWithSessionRepository(sessionRepo),
		service.AccountWithInterviewRepository(interviewRepo),
		service.AccountWithQuestionRepository(questionRepo),
		service.AccountWithAvatarStorage(avatarStorage),
		service.AccountWithBcryptCost(cfg.BcryptCost),
	)

	interviewService := service.NewInterviewService(
		service.WithInterviewRepository(interviewRepo),
		service.WithQuestionRepository(questionRepo),
		service.WithAnalyticsRepository(analyticsRepo),
		service.WithProfileRepository(profileRepo),
	)

	aiService := service.NewAIService(
		service.AIWithGenerator(generator),
		service.AIWithInterviewRepository(interviewRepo),
		service.AIWithQuestionRepository(questionRepo),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, sessionRepo, cfg)
	profileHandler := handlers.NewProfileHandler(profileRepo, accountService, avatarStorage)
	interviewHandler := handlers.NewInterviewHandler(interviewService)
	aiHandler := handlers.NewAIHandler(aiService)
	webhookHandler := handlers.NewWebhookHandler(interviewService, cfg)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	health := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
	r.GET("/health", health)
	r.GET("/api/health", health)

	// Serve locally stored avatars
	if local, ok := avatarStorage.(*storage.LocalStorage); ok {
		r.Static("/uploads", local.BasePath())
	}

	requireSession := handlers.RequireSession(cfg, sessionRepo)

	// API routes
	api := r.Group("/api")
	{
		// Auth endpoints
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)
		api.GET("/auth/google", authHandler.OAuth("google"))
		api.GET("/auth/github", authHandler.OAuth("github"))
		api.PUT("/auth/password", requireSession, authHandler.ChangePassword)
		api.DELETE("/auth/account", requireSession, authHandler.DeleteAccount)

		// Profile endpoints
		api.GET("/profile/:id", requireSession, profileHandler.GetProfile)
		api.PUT("/profile/:id", requireSession, profileHandler.UpdateProfile)
		api.POST("/profile/:id/photo", requireSession, profileHandler.UploadPhoto)
		api.GET("/privacy", requireSession, profileHandler.GetPrivacy)
		api.PUT("/privacy", requireSession, profileHandler.UpdatePrivacy)
		api.GET("/account/export", requireSession, profileHandler.ExportData)

		// Interview endpoints
		api.GET("/interviews", requireSession, interviewHandler.ListInterviews)
		api.POST("/interviews", requireSession, interviewHandler.CreateInterview)
		api.PUT("/interviews/:id", requireSession, interviewHandler.UpdateInterview)
		api.GET("/interviews/:id/questions", requireSession, interviewHandler.ListQuestions)
		api.POST("/interviews/:id/questions", requireSession, interviewHandler.CreateQuestion)
		api.PUT("/questions/:id", requireSession, interviewHandler.UpdateQuestion)
		api.GET("/analytics", requireSession, interviewHandler.GetAnalytics)

		// AI endpoints
		api.POST("/ai/questions", requireSession, aiHandler.GenerateQuestions)
		api.POST("/ai/feedback", requireSession, aiHandler.Feedback)

		// Voice vendor endpoints
		api.POST("/vapi/webhook", webhookHandler.HandleWebhook)
		api.POST("/vapi/token", requireSession, webhookHandler.GetToken)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}

func initGemini(apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
