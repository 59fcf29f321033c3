package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/employeest/employeest-api/internal/chart"
	"github.com/employeest/employeest-api/internal/config"
	"github.com/employeest/employeest-api/internal/database"
	"github.com/employeest/employeest-api/internal/middleware"
	"github.com/employeest/employeest-api/internal/repository"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
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

	// Setup session store with Redis
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
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workLogRepo := repository.NewWorkLogRepository(db)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, "")
	} else {
		log.Println("OPENAI_API_KEY not set, task drafts are disabled")
	}

	chartClient := chart.NewClient(
		chart.WithBaseURL(cfg.ChartServiceURL),
		chart.WithTimeout(cfg.ChartTimeout),
		chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
	)

	deps := routerDeps{
		db:                db,
		sessionStore:      store,
		jwtService:        utils.NewJWTService(cfg.JWTSecret, cfg.JWTTTL),
		authService:       services.NewAuthService(userRepo),
		userService:       services.NewUserService(userRepo),
		teamService:       services.NewTeamService(teamRepo, userRepo),
		projectService:    services.NewProjectService(projectRepo, teamRepo),
		taskService:       services.NewTaskService(taskRepo, projectRepo, userRepo, aiService),
		workLogService:    services.NewWorkLogService(workLogRepo, taskRepo, projectRepo),
		statisticsService: services.NewStatisticsService(taskRepo, projectRepo, chartClient),
		dashboardService:  services.NewDashboardService(userRepo, projectRepo, taskRepo),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(newRouter(deps), cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}
