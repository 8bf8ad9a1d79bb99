package router

import (
	"voice_admin_backend/internal/handlers"
	"voice_admin_backend/internal/middleware"
	"voice_admin_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupSettingsRoutes sets up the platform settings and audit history routes.
// Reads are open to every role; the write is admin/editor only, so read-only
// viewers are rejected before request validation runs.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingsHandler *handlers.SettingsHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		settingsRoutes.GET("", settingsHandler.GetSettings)
		settingsRoutes.GET("/history", settingsHandler.GetSettingsHistory)
		settingsRoutes.GET("/history/meta", settingsHandler.GetSettingsHistoryMeta)
	}

	settingsWriteRoutes := authenticatedGroup.Group("/settings")
	settingsWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor))
	{
		settingsWriteRoutes.PATCH("", settingsHandler.UpdateSettings)
	}
}

// SetupAgentRoutes sets up the agent routes.
func SetupAgentRoutes(authenticatedGroup *gin.RouterGroup, agentHandler *handlers.AgentHandler) {
	agentReadRoutes := authenticatedGroup.Group("/agents")
	agentReadRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		agentReadRoutes.GET("", agentHandler.GetAgents)
	}

	agentWriteRoutes := authenticatedGroup.Group("/agents")
	agentWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor))
	{
		agentWriteRoutes.POST("", agentHandler.CreateAgent)
		agentWriteRoutes.PATCH("/:id", agentHandler.UpdateAgent)
		agentWriteRoutes.DELETE("/:id", agentHandler.DeleteAgent)
	}
}

// SetupOrganizationRoutes sets up the organization routes.
func SetupOrganizationRoutes(authenticatedGroup *gin.RouterGroup, orgHandler *handlers.OrganizationHandler) {
	orgRoutes := authenticatedGroup.Group("/organizations")
	orgRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		orgRoutes.GET("", orgHandler.GetOrganizations)
	}
}

// SetupCallRoutes sets up the call log routes.
func SetupCallRoutes(authenticatedGroup *gin.RouterGroup, callHandler *handlers.CallHandler) {
	callRoutes := authenticatedGroup.Group("/calls")
	callRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		callRoutes.GET("", callHandler.GetCalls)
	}
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		dashboardRoutes.GET("/overview", dashboardHandler.GetOverview)
		dashboardRoutes.GET("/usage", dashboardHandler.GetUsage)
	}
}
