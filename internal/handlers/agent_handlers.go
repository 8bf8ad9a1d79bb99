package handlers

import (
	"errors"
	"net/http"

	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AgentHandler holds the agent service.
type AgentHandler struct {
	agentService services.AgentService
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(as services.AgentService) *AgentHandler {
	return &AgentHandler{agentService: as}
}

// GetAgents handles listing agents with optional filters.
func (h *AgentHandler) GetAgents(c *gin.Context) {
	var status, organizationName *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	if v := c.Query("organizationName"); v != "" {
		organizationName = &v
	}

	agents, err := h.agentService.GetAgents(c.Request.Context(), status, organizationName)
	if err != nil {
		if errors.Is(err, services.ErrAgentValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetAgents: Error from agentService.GetAgents")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch agents.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, agents)
}

// CreateAgent handles the creation of a new agent.
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req services.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateAgent: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateAgent: Error from agentService.CreateAgent")
		if errors.Is(err, services.ErrAgentValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrAgentExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Agent id already exists.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create agent.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, agent)
}

// UpdateAgent handles a partial agent edit.
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	agentID := c.Param("id")

	var req services.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateAgent: Failed to bind JSON for "+agentID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), agentID, req)
	if err != nil {
		utils.LogError(err, "UpdateAgent: Error from agentService.UpdateAgent for "+agentID)
		if errors.Is(err, services.ErrAgentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Agent not found.", err.Error()))
		} else if errors.Is(err, services.ErrAgentValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update agent.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, agent)
}

// DeleteAgent handles agent removal, returning the deleted agent.
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	agentID := c.Param("id")

	agent, err := h.agentService.DeleteAgent(c.Request.Context(), agentID)
	if err != nil {
		utils.LogError(err, "DeleteAgent: Error from agentService.DeleteAgent for "+agentID)
		if errors.Is(err, services.ErrAgentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Agent not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete agent.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, agent)
}
