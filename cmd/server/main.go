package main

import (
	"log"

	"github.com/boatnoah/lumo/internal/config"
	"github.com/boatnoah/lumo/internal/database"
	"github.com/boatnoah/lumo/internal/handlers"
	"github.com/boatnoah/lumo/internal/logging"
	"github.com/boatnoah/lumo/internal/middleware"
	"github.com/boatnoah/lumo/internal/services"
	"github.com/boatnoah/lumo/internal/storage"
	"github.com/boatnoah/lumo/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Lumo API
// @version         1.0
// @description     API for live classroom sessions: prompts, answers, chat and slides
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("database migrated")

	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}

	hub := ws.NewHub(logger)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	profileService := services.NewProfileService(db)
	eventService := services.NewEventService(db, hub, logger)
	sessionService := services.NewSessionService(db, store, eventService, logger)
	promptService := services.NewPromptService(db, eventService)
	memberService := services.NewMemberService(db, eventService)
	answerService := services.NewAnswerService(db, eventService)
	messageService := services.NewMessageService(db, eventService)
	slideService := services.NewSlideService(db, store, eventService, logger, cfg.MaxPDFPages)

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	sessionHandler := handlers.NewSessionHandler(sessionService, eventService, memberService)
	joinHandler := handlers.NewJoinHandler(memberService)
	promptHandler := handlers.NewPromptHandler(promptService, answerService)
	answerHandler := handlers.NewAnswerHandler(answerService)
	messageHandler := handlers.NewMessageHandler(messageService)
	uploadHandler := handlers.NewUploadHandler(slideService)
	wsHandler := handlers.NewWSHandler(hub, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", cfg.UploadDir)
	r.GET("/ws/session/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		profile := api.Group("/profile")
		profile.Use(middleware.JWTAuth(authService))
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(authService))
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id/state", sessionHandler.GetState)
			sessions.GET("/:id/events", sessionHandler.ListEvents)
			sessions.GET("/:id/members", sessionHandler.ListMembers)
			sessions.PATCH("/:id", sessionHandler.UpdateSession)
			sessions.PATCH("/:id/status", sessionHandler.UpdateStatus)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.POST("/:id/leave", joinHandler.Leave)
			sessions.GET("/:id/messages", messageHandler.ListMessages)
			sessions.POST("/:id/messages", messageHandler.PostMessage)
		}

		api.POST("/join/:code", middleware.JWTAuth(authService), joinHandler.Join)

		prompts := api.Group("/prompts")
		prompts.Use(middleware.JWTAuth(authService))
		{
			prompts.GET("", promptHandler.ListPrompts)
			prompts.POST("", promptHandler.CreatePrompt)
			prompts.POST("/reorder", promptHandler.ReorderPrompts)
			prompts.GET("/:id/answers", promptHandler.ListAnswers)
			prompts.PATCH("/:id", promptHandler.PatchPrompt)
			prompts.DELETE("/:id", promptHandler.DeletePrompt)
		}

		api.POST("/answers", middleware.JWTAuth(authService), answerHandler.SubmitAnswer)

		uploads := api.Group("")
		uploads.Use(middleware.JWTAuth(authService))
		{
			uploads.POST("/slides/upload", uploadHandler.UploadSlides)
			uploads.POST("/uploads", uploadHandler.UploadSlides)
		}
	}

	logger.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
