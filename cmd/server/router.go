package main

import (
	"github.com/employeest/employeest-api/internal/constants"
	"github.com/employeest/employeest-api/internal/handlers"
	"github.com/employeest/employeest-api/internal/middleware"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type routerDeps struct {
	db                *gorm.DB
	sessionStore      sessions.Store
	jwtService        *utils.JWTService
	authService       *services.AuthService
	userService       *services.UserService
	teamService       *services.TeamService
	projectService    *services.ProjectService
	taskService       *services.TaskService
	workLogService    *services.WorkLogService
	statisticsService *services.StatisticsService
	dashboardService  *services.DashboardService
}

func newRouter(deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.authService, deps.jwtService)
	userHandler := handlers.NewUserHandler(deps.userService)
	teamHandler := handlers.NewTeamHandler(deps.teamService)
	projectHandler := handlers.NewProjectHandler(deps.projectService)
	taskHandler := handlers.NewTaskHandler(deps.taskService)
	workLogHandler := handlers.NewWorkLogHandler(deps.workLogService)
	statisticsHandler := handlers.NewStatisticsHandler(deps.statisticsService)
	dashboardHandler := handlers.NewDashboardHandler(deps.dashboardService)

	requireAuth := middleware.RequireAuth(deps.jwtService)
	resolveCaller := middleware.ResolveCaller(deps.userService)

	// Health check endpoint
	r.GET("/health", handlers.Health(deps.db))

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Everything below needs an authenticated, existing user
		protected := api.Group("")
		protected.Use(requireAuth, resolveCaller)

		users := protected.Group("/users")
		{
			users.GET("/", userHandler.ListUsers)
			users.GET("/:id/", userHandler.GetUser)
			users.DELETE("/:id/", userHandler.DeleteUser)
		}

		teams := protected.Group("/teams")
		{
			teams.POST("/", teamHandler.CreateTeam)
			teams.GET("/", teamHandler.ListTeams)
			teams.POST("/join", teamHandler.JoinTeam)
			teams.GET("/:id/", teamHandler.GetTeam)
			teams.PUT("/:id/", teamHandler.UpdateTeam)
			teams.PATCH("/:id/", teamHandler.UpdateTeam)
			teams.DELETE("/:id/", teamHandler.DeleteTeam)
			teams.POST("/:id/regenerate-code", teamHandler.RegenerateInviteCode)
			teams.DELETE("/:id/members/:user_id/", teamHandler.RemoveMember)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("/", projectHandler.ListProjects)
			projects.POST("/", projectHandler.CreateProject)
			projects.GET("/:id/", projectHandler.GetProject)
			projects.PUT("/:id/", projectHandler.UpdateProject)
			projects.PATCH("/:id/", projectHandler.UpdateProject)
			projects.DELETE("/:id/", projectHandler.DeleteProject)
			projects.GET("/:id/task-status-chart/", statisticsHandler.ProjectTaskStatusChart)
			projects.GET("/:id/velocity-chart/", statisticsHandler.ProjectVelocityChart)
			projects.POST("/:id/task-drafts", taskHandler.GenerateDrafts)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.GET("/:id/", taskHandler.GetTask)
			tasks.PUT("/:id/", taskHandler.UpdateTask)
			tasks.PATCH("/:id/", taskHandler.UpdateTask)
			tasks.DELETE("/:id/", taskHandler.DeleteTask)
			tasks.POST("/:id/start-progress/", taskHandler.StartProgress)
			tasks.POST("/:id/mark-as-done/", taskHandler.MarkAsDone)
		}

		workLogs := protected.Group("/worklogs")
		{
			workLogs.GET("/", workLogHandler.ListWorkLogs)
			workLogs.POST("/", workLogHandler.CreateWorkLog)
			workLogs.GET("/:id/", workLogHandler.GetWorkLog)
			workLogs.PUT("/:id/", workLogHandler.UpdateWorkLog)
			workLogs.PATCH("/:id/", workLogHandler.UpdateWorkLog)
			workLogs.DELETE("/:id/", workLogHandler.DeleteWorkLog)
		}

		protected.GET("/statistics/business/story-points-monthly/", statisticsHandler.BusinessStoryPointsMonthly)
		protected.GET("/me/statistics/task-completion-chart/", statisticsHandler.PersonalTaskCompletionChart)

		dashboards := protected.Group("/dashboards")
		{
			dashboards.GET("/owner/", dashboardHandler.Owner)
			dashboards.GET("/employee/", dashboardHandler.Employee)
		}

		// Administrative routes
		admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/tasks/status", taskHandler.OverwriteStatus)
			admin.PUT("/users/:id/role", userHandler.SetRole)
		}
	}

	return r
}
