package handlers

import (
	"errors"
	"net/http"

	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler holds the organization service.
type OrganizationHandler struct {
	orgService services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(os services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: os}
}

// GetOrganizations handles listing client organizations.
func (h *OrganizationHandler) GetOrganizations(c *gin.Context) {
	var subscriptionStatus *string
	if v := c.Query("subscriptionStatus"); v != "" {
		subscriptionStatus = &v
	}

	organizations, err := h.orgService.GetOrganizations(c.Request.Context(), subscriptionStatus)
	if err != nil {
		if errors.Is(err, services.ErrOrganizationValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetOrganizations: Error from orgService.GetOrganizations")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch organizations.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, organizations)
}
