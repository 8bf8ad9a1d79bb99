package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CallHandler holds the call service.
type CallHandler struct {
	callService services.CallService
}

// NewCallHandler creates a new CallHandler.
func NewCallHandler(cs services.CallService) *CallHandler {
	return &CallHandler{callService: cs}
}

// GetCalls handles listing call sessions with optional filters.
func (h *CallHandler) GetCalls(c *gin.Context) {
	var status, agentName *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	if v := c.Query("agentName"); v != "" {
		agentName = &v
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultCallPageSize)))

	calls, err := h.callService.GetCalls(c.Request.Context(), status, agentName, limit)
	if err != nil {
		if errors.Is(err, services.ErrCallValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetCalls: Error from callService.GetCalls")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch call sessions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, calls)
}
