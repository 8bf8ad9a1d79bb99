package router

import (
	"voice_admin_backend/internal/database"
	"voice_admin_backend/internal/handlers"
	"voice_admin_backend/internal/middleware"
	"voice_admin_backend/internal/repositories"
	"voice_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, store *database.Store) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(store)
	auditRepo := repositories.NewAuditLogRepository(store)
	settingsRepo := repositories.NewSettingsRepository(store, auditRepo)
	agentRepo := repositories.NewAgentRepository(store)
	orgRepo := repositories.NewOrganizationRepository(store)
	callRepo := repositories.NewCallRepository(store)

	// Initialize Services
	authService := services.NewAuthService(authRepo, store.DB())
	historyService := services.NewHistoryService(auditRepo)
	settingsService := services.NewSettingsService(settingsRepo, historyService)
	agentService := services.NewAgentService(agentRepo, store.DB())
	orgService := services.NewOrganizationService(orgRepo)
	callService := services.NewCallService(callRepo)
	dashboardService := services.NewDashboardService(orgRepo, agentRepo, callRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, historyService)
	agentHandler := handlers.NewAgentHandler(agentService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	callHandler := handlers.NewCallHandler(callService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupSettingsRoutes(authenticated, settingsHandler)
		SetupAgentRoutes(authenticated, agentHandler)
		SetupOrganizationRoutes(authenticated, orgHandler)
		SetupCallRoutes(authenticated, callHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
	}
}

// SetupPublicAuthRoutes sets up routes that require no token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up token-gated auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
