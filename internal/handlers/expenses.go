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
)

type ExpenseHandler struct {
	Expenses *repository.ExpenseRepository
	Bills    *repository.BillRepository
	Notifier *notifications.Hub
}

// NewExpenseHandler создает обработчик трат.
func NewExpenseHandler(expenses *repository.ExpenseRepository, bills *repository.BillRepository, notifier *notifications.Hub) *ExpenseHandler {
	return &ExpenseHandler{Expenses: expenses, Bills: bills, Notifier: notifier}
}

type ExpenseRequest struct {
	AmountCents int64   `json:"amount_cents" validate:"gt=0"`
	Date        string  `json:"date" validate:"required"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Note        *string `json:"note" validate:"omitempty,max=500"`
}

type ExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"`
	Category    *string   `json:"category,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// List возвращает траты пользователя, опционально за интервал дат from/to.
func (h *ExpenseHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	from, to, err := parseExpenseRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expenses, err := h.Expenses.List(c.Request().Context(), userID, from, to)
	if err != nil {
		return serverError(c)
	}

	response := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		response = append(response, toExpenseResponse(expense))
	}

	return c.JSON(http.StatusOK, map[string][]ExpenseResponse{"expenses": response})
}

// Create добавляет трату.
func (h *ExpenseHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req, date, err := bindExpenseRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Create(c.Request().Context(), userID, req.AmountCents, date, normalizeLabel(req.Category), normalizeLabel(req.Note))
	if err != nil {
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "expenses_changed")
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// Update изменяет трату.
func (h *ExpenseHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	req, date, err := bindExpenseRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	expense, err := h.Expenses.Update(c.Request().Context(), userID, id, req.AmountCents, date, normalizeLabel(req.Category), normalizeLabel(req.Note))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "expenses_changed")
	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// Delete удаляет трату.
func (h *ExpenseHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid expense id")
	}

	if err := h.Expenses.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "expense not found")
		}
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "expenses_changed")
	return c.NoContent(http.StatusNoContent)
}

func bindExpenseRequest(c echo.Context) (ExpenseRequest, time.Time, error) {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, errors.New("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, time.Time{}, errors.New("validation failed")
	}

	// Принимаем и голую дату, и полный RFC3339-инстант.
	date, err := parseDateOrInstant(req.Date)
	if err != nil {
		return req, time.Time{}, errors.New("date must be YYYY-MM-DD or RFC3339")
	}

	return req, date, nil
}

func parseDateOrInstant(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed, nil
	}
	return parseDateKey(trimmed)
}

func parseExpenseRange(c echo.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := parseDateKey(raw)
		if err != nil {
			return nil, nil, errors.New("invalid from date")
		}
		from = &parsed
	}

	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := parseDateKey(raw)
		if err != nil {
			return nil, nil, errors.New("invalid to date")
		}
		// Верхняя граница включает весь день.
		end := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("to must not be before from")
	}

	return from, to, nil
}

func normalizeLabel(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func toExpenseResponse(expense models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		AmountCents: expense.AmountCents,
		Date:        expense.Date.Format(timeLayout),
		Category:    expense.Category,
		Note:        expense.Note,
		CreatedAt:   expense.CreatedAt.Format(timeLayout),
		UpdatedAt:   expense.UpdatedAt.Format(timeLayout),
	}
}
