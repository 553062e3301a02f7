package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"studytracker/internal/auth"
	"studytracker/internal/cache"
	"studytracker/internal/config"
	"studytracker/internal/database"
	"studytracker/internal/handlers"
	"studytracker/internal/mailer"
	"studytracker/internal/middleware"
	"studytracker/internal/repository"
	"studytracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Redis-backed reset-code store
	redisPool := cache.NewRedisPool(cfg.RedisHost + ":" + cfg.RedisPort)
	defer redisPool.Close()
	resetStore := cache.NewRedisResetStore(redisPool)

	// Outbound mail
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	// Token manager
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	taskRepo := repository.NewSubjectTaskRepository(db)
	personalTaskRepo := repository.NewPersonalTaskRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, tokens, resetStore, smtpMailer)
	subjectService := services.NewSubjectService(subjectRepo, taskRepo, cfg.SubscribeBackfillStatuses)
	taskService := services.NewTaskService(taskRepo, subjectRepo, subjectService, cfg.TaskEditOwnerOnly)
	personalTaskService := services.NewPersonalTaskService(personalTaskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	subjectHandler := handlers.NewSubjectHandler(subjectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	personalTaskHandler := handlers.NewPersonalTaskHandler(personalTaskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Study Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/reset/request", authHandler.RequestPasswordReset)
			authRoutes.POST("/reset/verify", authHandler.VerifyResetCode)
			authRoutes.POST("/reset/confirm", authHandler.ConfirmPasswordReset)
		}

		// Subject routes (protected)
		subjects := api.Group("/subjects")
		subjects.Use(middleware.RequireAuth(tokens))
		{
			subjects.POST("", subjectHandler.CreateSubject)
			subjects.GET("", subjectHandler.ListSubjects)
			subjects.GET("/:id", subjectHandler.GetSubject)
			subjects.DELETE("/:id", subjectHandler.DeleteSubject)
			subjects.POST("/:id/subscribe", subjectHandler.Subscribe)

			// Shared task routes, gated on subject membership
			tasks := subjects.Group("/:id/tasks")
			tasks.Use(middleware.RequireSubjectAccess(subjectService))
			{
				tasks.POST("", taskHandler.CreateTask)
				tasks.GET("", taskHandler.ListTasks)
				tasks.PUT("/:taskId/done", taskHandler.SetDone)
				tasks.PUT("/:taskId/pass", taskHandler.SetPassed)
				tasks.PUT("/:taskId", taskHandler.UpdateTask)
				tasks.DELETE("/:taskId", taskHandler.DeleteTask)
			}
		}

		// Personal task routes (protected)
		personal := api.Group("/personal-tasks")
		personal.Use(middleware.RequireAuth(tokens))
		{
			personal.GET("", personalTaskHandler.ListTasks)
			personal.POST("", personalTaskHandler.CreateTask)
			personal.GET("/:taskId", personalTaskHandler.GetTask)
			personal.PUT("/:taskId", personalTaskHandler.UpdateTask)
			personal.PUT("/:taskId/done", personalTaskHandler.SetDone)
			personal.DELETE("/:taskId", personalTaskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
