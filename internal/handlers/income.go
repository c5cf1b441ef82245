package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/auth"
	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/notifications"
	"example.com/safetospend/backend/internal/repository"
	"example.com/safetospend/backend/internal/safetospend"
)

const dateLayout = "2006-01-02"

type IncomeHandler struct {
	Income    *repository.IncomeRepository
	Notifier  *notifications.Hub
	MaxActive int
}

// NewIncomeHandler создает обработчик источников дохода.
func NewIncomeHandler(income *repository.IncomeRepository, notifier *notifications.Hub, maxActive int) *IncomeHandler {
	return &IncomeHandler{Income: income, Notifier: notifier, MaxActive: maxActive}
}

type IncomeRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	AmountCents int64               `json:"amount_cents" validate:"gt=0"`
	Cadence     safetospend.Cadence `json:"cadence" validate:"required,oneof=WEEKLY BIWEEKLY MONTHLY CUSTOM"`
	NextPayDate string              `json:"next_pay_date" validate:"required"`
	Active      *bool               `json:"active"`
}

type IncomeResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	AmountCents int64               `json:"amount_cents"`
	Cadence     safetospend.Cadence `json:"cadence"`
	NextPayDate string              `json:"next_pay_date"`
	Active      bool                `json:"active"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// List возвращает источники дохода пользователя.
func (h *IncomeHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	sources, err := h.Income.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]IncomeResponse, 0, len(sources))
	for _, source := range sources {
		response = append(response, toIncomeResponse(source))
	}

	return c.JSON(http.StatusOK, map[string][]IncomeResponse{"income_sources": response})
}

// Create добавляет источник дохода.
func (h *IncomeHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req, nextPayDate, err := h.bindIncomeRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	source, err := h.Income.Create(c.Request().Context(), userID, strings.TrimSpace(req.Name), req.AmountCents, req.Cadence, nextPayDate, active, h.MaxActive)
	if err != nil {
		if errors.Is(err, repository.ErrLimitExceeded) {
			return forbidden(c)
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "income_changed")
	return c.JSON(http.StatusCreated, toIncomeResponse(source))
}

// Update изменяет источник дохода.
func (h *IncomeHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid income source id")
	}

	req, nextPayDate, err := h.bindIncomeRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	source, err := h.Income.Update(c.Request().Context(), userID, id, strings.TrimSpace(req.Name), req.AmountCents, req.Cadence, nextPayDate, active, h.MaxActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income source not found")
		}
		if errors.Is(err, repository.ErrLimitExceeded) {
			return forbidden(c)
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "income_changed")
	return c.JSON(http.StatusOK, toIncomeResponse(source))
}

// Delete удаляет источник дохода.
func (h *IncomeHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid income source id")
	}

	if err := h.Income.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "income source not found")
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "income_changed")
	return c.NoContent(http.StatusNoContent)
}

func (h *IncomeHandler) bindIncomeRequest(c echo.Context) (IncomeRequest, time.Time, error) {
	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, time.Time{}, errors.New("validation failed")
	}

	if strings.TrimSpace(req.Name) == "" {
		return req, time.Time{}, errors.New("name is required")
	}

	nextPayDate, err := parseDateKey(req.NextPayDate)
	if err != nil {
		return req, time.Time{}, errors.New("next_pay_date must be a YYYY-MM-DD date")
	}

	return req, nextPayDate, nil
}

func toIncomeResponse(source models.IncomeSource) IncomeResponse {
	return IncomeResponse{
		ID:          source.ID,
		Name:        source.Name,
		AmountCents: source.AmountCents,
		Cadence:     source.Cadence,
		NextPayDate: source.NextPayDate.Format(dateLayout),
		Active:      source.Active,
		CreatedAt:   source.CreatedAt.Format(timeLayout),
		UpdatedAt:   source.UpdatedAt.Format(timeLayout),
	}
}

// parseDateKey разбирает голую календарную дату YYYY-MM-DD.
// Хранится как дата без времени; таймзона применяется только при расчете.
func parseDateKey(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
