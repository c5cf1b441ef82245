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

type BillHandler struct {
	Bills     *repository.BillRepository
	Notifier  *notifications.Hub
	MaxActive int
}

// NewBillHandler создает обработчик счетов.
func NewBillHandler(bills *repository.BillRepository, notifier *notifications.Hub, maxActive int) *BillHandler {
	return &BillHandler{Bills: bills, Notifier: notifier, MaxActive: maxActive}
}

type BillRequest struct {
	Name          string              `json:"name" validate:"required,max=200"`
	AmountCents   int64               `json:"amount_cents" validate:"gt=0"`
	Cadence       safetospend.Cadence `json:"cadence" validate:"required,oneof=WEEKLY BIWEEKLY MONTHLY CUSTOM"`
	DueDayOfMonth *int                `json:"due_day_of_month" validate:"omitempty,min=1,max=31"`
	NextDueDate   *string             `json:"next_due_date"`
	Active        *bool               `json:"active"`
}

type BillResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	AmountCents   int64               `json:"amount_cents"`
	Cadence       safetospend.Cadence `json:"cadence"`
	DueDayOfMonth *int                `json:"due_day_of_month,omitempty"`
	NextDueDate   *string             `json:"next_due_date,omitempty"`
	Active        bool                `json:"active"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

// List возвращает счета пользователя.
func (h *BillHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	bills, err := h.Bills.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		response = append(response, toBillResponse(bill))
	}

	return c.JSON(http.StatusOK, map[string][]BillResponse{"bills": response})
}

// Create добавляет счет.
func (h *BillHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req, nextDueDate, err := h.bindBillRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	bill, err := h.Bills.Create(c.Request().Context(), userID, strings.TrimSpace(req.Name), req.AmountCents, req.Cadence, req.DueDayOfMonth, nextDueDate, active, h.MaxActive)
	if err != nil {
		if errors.Is(err, repository.ErrLimitExceeded) {
			return forbidden(c)
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "bills_changed")
	return c.JSON(http.StatusCreated, toBillResponse(bill))
}

// Update изменяет счет.
func (h *BillHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid bill id")
	}

	req, nextDueDate, err := h.bindBillRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	bill, err := h.Bills.Update(c.Request().Context(), userID, id, strings.TrimSpace(req.Name), req.AmountCents, req.Cadence, req.DueDayOfMonth, nextDueDate, active, h.MaxActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "bill not found")
		}
		if errors.Is(err, repository.ErrLimitExceeded) {
			return forbidden(c)
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "bills_changed")
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// Delete удаляет счет.
func (h *BillHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid bill id")
	}

	if err := h.Bills.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "bill not found")
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "bills_changed")
	return c.NoContent(http.StatusNoContent)
}

func (h *BillHandler) bindBillRequest(c echo.Context) (BillRequest, *time.Time, error) {
	var req BillRequest
	if err := c.Bind(&req); err != nil {
		return req, nil, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, nil, errors.New("validation failed")
	}

	if strings.TrimSpace(req.Name) == "" {
		return req, nil, errors.New("name is required")
	}

	var nextDueDate *time.Time
	if req.NextDueDate != nil && strings.TrimSpace(*req.NextDueDate) != "" {
		parsed, err := parseDateKey(*req.NextDueDate)
		if err != nil {
			return req, nil, errors.New("next_due_date must be a YYYY-MM-DD date")
		}
		nextDueDate = &parsed
	}

	return req, nextDueDate, nil
}

func toBillResponse(bill models.Bill) BillResponse {
	var nextDueDate *string
	if bill.NextDueDate != nil {
		formatted := bill.NextDueDate.Format(dateLayout)
		nextDueDate = &formatted
	}

	return BillResponse{
		ID:            bill.ID,
		Name:          bill.Name,
		AmountCents:   bill.AmountCents,
		Cadence:       bill.Cadence,
		DueDayOfMonth: bill.DueDayOfMonth,
		NextDueDate:   nextDueDate,
		Active:        bill.Active,
		CreatedAt:     bill.CreatedAt.Format(timeLayout),
		UpdatedAt:     bill.UpdatedAt.Format(timeLayout),
	}
}
