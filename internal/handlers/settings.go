package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/auth"
	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/notifications"
	"example.com/safetospend/backend/internal/repository"
)

type SettingsHandler struct {
	Settings *repository.SettingsRepository
	Notifier *notifications.Hub
}

// NewSettingsHandler создает обработчик пользовательских настроек.
func NewSettingsHandler(settings *repository.SettingsRepository, notifier *notifications.Hub) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Notifier: notifier}
}

type SettingsRequest struct {
	Timezone                       *string `json:"timezone" validate:"omitempty,timezone"`
	PlannedSavingsCentsPerPaycheck *int64  `json:"planned_savings_cents_per_paycheck" validate:"omitempty,gte=0"`
}

type SettingsResponse struct {
	Timezone                       string `json:"timezone"`
	PlannedSavingsCentsPerPaycheck int64  `json:"planned_savings_cents_per_paycheck"`
}

// Get возвращает настройки пользователя или значения по умолчанию.
func (h *SettingsHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	settings, err := h.Settings.GetOrDefault(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// Patch частично обновляет настройки.
func (h *SettingsHandler) Patch(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	settings, err := h.Settings.Upsert(c.Request().Context(), userID, req.Timezone, req.PlannedSavingsCentsPerPaycheck)
	if err != nil {
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "settings_changed")
	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(settings models.Settings) SettingsResponse {
	return SettingsResponse{
		Timezone:                       settings.Timezone,
		PlannedSavingsCentsPerPaycheck: settings.PlannedSavingsCentsPerPaycheck,
	}
}
