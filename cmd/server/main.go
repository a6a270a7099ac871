package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/magnus-copo/investor-api/internal/config"
	"github.com/magnus-copo/investor-api/internal/constants"
	"github.com/magnus-copo/investor-api/internal/database"
	"github.com/magnus-copo/investor-api/internal/handlers"
	"github.com/magnus-copo/investor-api/internal/middleware"
	"github.com/magnus-copo/investor-api/internal/notify"
	"github.com/magnus-copo/investor-api/internal/repository"
	"github.com/magnus-copo/investor-api/internal/services"
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

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	spendingRepo := repository.NewSpendingRepository(db)
	modRepo := repository.NewModificationRepository(db)

	// Notification sink; push delivery lives outside this service
	notifier := notify.LogNotifier{}

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier)
	spendingService := services.NewSpendingService(spendingRepo, projectRepo, notifier)
	modService := services.NewModificationService(modRepo, projectRepo, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, authService)
	spendingHandler := handlers.NewSpendingHandler(spendingService)
	modHandler := handlers.NewModificationHandler(modService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Investor Project API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectAdmin(), projectHandler.DeleteProject)
			projects.POST("/:id/members", middleware.RequireProjectAccess(), middleware.RequireProjectAdmin(), projectHandler.AddMember)
			projects.DELETE("/:id/members/:user_id", middleware.RequireProjectAccess(), middleware.RequireProjectAdmin(), projectHandler.RemoveMember)
			projects.POST("/:id/members/:user_id/promote", middleware.RequireProjectAccess(), middleware.RequireProjectAdmin(), projectHandler.PromoteMember)
			projects.POST("/:id/leave", middleware.RequireProjectAccess(), projectHandler.Leave)
			projects.GET("/:id/spendings", middleware.RequireProjectAccess(), spendingHandler.ListSpendings)
			projects.POST("/:id/spendings", middleware.RequireProjectAccess(), spendingHandler.ProposeSpending)
			projects.GET("/:id/modifications", middleware.RequireProjectAccess(), modHandler.ListModifications)
			projects.POST("/:id/modifications", middleware.RequireProjectAccess(), modHandler.ProposeModification)
		}

		// Spending routes (protected)
		spendings := api.Group("/spendings")
		spendings.Use(middleware.RequireAuth())
		{
			spendings.GET("/:id", middleware.RequireSpendingAccess(), spendingHandler.GetSpending)
			spendings.POST("/:id/approve", middleware.RequireSpendingAccess(), spendingHandler.ApproveSpending)
			spendings.POST("/:id/reject", middleware.RequireSpendingAccess(), spendingHandler.RejectSpending)
			spendings.POST("/:id/note", middleware.RequireSpendingAccess(), spendingHandler.AttachNote)
		}

		// Modification routes (protected)
		modifications := api.Group("/modifications")
		modifications.Use(middleware.RequireAuth())
		{
			modifications.GET("/:id", middleware.RequireModificationAccess(), modHandler.GetModification)
			modifications.POST("/:id/vote", middleware.RequireModificationAccess(), modHandler.CastVote)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
