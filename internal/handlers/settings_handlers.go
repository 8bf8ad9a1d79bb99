package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"voice_admin_backend/internal/metrics"
	"voice_admin_backend/internal/repositories"
	"voice_admin_backend/internal/services"
	"voice_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingsHandler holds the settings and history services.
type SettingsHandler struct {
	settingsService services.SettingsService
	historyService  services.HistoryService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ss services.SettingsService, hs services.HistoryService) *SettingsHandler {
	return &SettingsHandler{settingsService: ss, historyService: hs}
}

// GetSettings handles fetching the current platform settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingsService.GetSettings")
		if errors.Is(err, services.ErrSettingsNotSeeded) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Platform settings not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch platform settings.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles a settings edit with audit attribution. The caller's
// active history filter may be passed as query parameters; on success the
// response carries the updated settings plus the refreshed first history page.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateSettings: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	filter, err := parseHistoryFilter(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid history filter: "+err.Error(), err.Error()))
		return
	}

	result, err := h.settingsService.UpdateSettings(c.Request.Context(), req, filter)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			utils.RespondWithError(c, utils.NewFieldValidationError("One or more settings fields are invalid.", validationErr.Fields))
			return
		}
		utils.LogError(err, "UpdateSettings: Error from settingsService.UpdateSettings")
		if errors.Is(err, services.ErrSettingsNotSeeded) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Platform settings not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update platform settings.", "Internal error"))
		}
		return
	}
	metrics.Global().SettingsUpdates.Inc()
	c.JSON(http.StatusOK, result)
}

// GetSettingsHistory handles the filtered, paginated audit log listing.
func (h *SettingsHandler) GetSettingsHistory(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid history filter: "+err.Error(), err.Error()))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.historyService.Query(c.Request.Context(), services.HistoryQuery{
		Filter: filter,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInvalidDateRange, "fromDate must not be after toDate.", err.Error()))
			return
		}
		utils.LogError(err, "GetSettingsHistory: Error from historyService.Query")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSettingsHistoryMeta handles the filter-option metadata for the history
// screen.
func (h *SettingsHandler) GetSettingsHistoryMeta(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid history filter: "+err.Error(), err.Error()))
		return
	}

	meta, err := h.historyService.Metadata(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInvalidDateRange, "fromDate must not be after toDate.", err.Error()))
			return
		}
		utils.LogError(err, "GetSettingsHistoryMeta: Error from historyService.Metadata")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch settings history metadata.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, meta)
}

// parseHistoryFilter reads the shared history filter query parameters.
// fromDate/toDate accept either a calendar day (YYYY-MM-DD), expanded to the
// inclusive whole-day range, or an RFC3339 timestamp.
func parseHistoryFilter(c *gin.Context) (repositories.HistoryFilter, error) {
	filter := repositories.HistoryFilter{}

	if actor := c.Query("actor"); actor != "" {
		filter.Actor = &actor
	}
	if field := c.Query("changedField"); field != "" {
		filter.ChangedField = &field
	}

	if raw := c.Query("fromDate"); raw != "" {
		from, err := parseHistoryTime(raw, false)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := c.Query("toDate"); raw != "" {
		to, err := parseHistoryTime(raw, true)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}

func parseHistoryTime(value string, endOfDay bool) (time.Time, error) {
	if day, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			return day.Add(24*time.Hour - time.Millisecond), nil
		}
		return day, nil
	}
	return time.Parse(time.RFC3339, value)
}
