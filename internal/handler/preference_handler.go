package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkermclaren/advisor-mvp/internal/dto"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
	"github.com/parkermclaren/advisor-mvp/pkg/response"
)

type studentPreferenceService interface {
	Get(ctx context.Context, studentID string) (*models.StudentPreferences, error)
	Update(ctx context.Context, studentID string, req dto.UpdatePreferencesRequest) (*models.StudentPreferences, error)
}

// PreferenceHandler exposes a student's stored scheduling preferences.
type PreferenceHandler struct {
	service studentPreferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(service studentPreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Get godoc
// @Summary Get scheduling preferences of a student
// @Tags Preferences
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		return
	}
	prefs, err := h.service.Get(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs)
}

// Update godoc
// @Summary Replace scheduling preferences of a student
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdatePreferencesRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		return
	}
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	prefs, err := h.service.Update(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs)
}
