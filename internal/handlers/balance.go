package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/auth"
	"example.com/safetospend/backend/internal/notifications"
	"example.com/safetospend/backend/internal/repository"
)

type BalanceHandler struct {
	Balance  *repository.BalanceRepository
	Notifier *notifications.Hub
}

// NewBalanceHandler создает обработчик снимков баланса.
func NewBalanceHandler(balance *repository.BalanceRepository, notifier *notifications.Hub) *BalanceHandler {
	return &BalanceHandler{Balance: balance, Notifier: notifier}
}

type BalanceRequest struct {
	// Баланс может быть отрицательным: овердрафт — валидное состояние.
	BalanceCents int64 `json:"balance_cents"`
}

type BalanceResponse struct {
	BalanceCents int64  `json:"balance_cents"`
	AsOf         string `json:"as_of"`
}

// Get возвращает последний снимок баланса.
func (h *BalanceHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	snapshot, err := h.Balance.Latest(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, BalanceResponse{BalanceCents: 0})
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		BalanceCents: snapshot.BalanceCents,
		AsOf:         snapshot.CreatedAt.Format(timeLayout),
	})
}

// Put добавляет новый снимок баланса.
func (h *BalanceHandler) Put(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req BalanceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	snapshot, err := h.Balance.Create(c.Request().Context(), userID, req.BalanceCents)
	if err != nil {
		return serverError(c)
	}

	notifySummaryStale(h.Notifier, userID, "balance_changed")
	return c.JSON(http.StatusOK, BalanceResponse{
		BalanceCents: snapshot.BalanceCents,
		AsOf:         snapshot.CreatedAt.Format(timeLayout),
	})
}
