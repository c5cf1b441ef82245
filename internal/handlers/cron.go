package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/notifications"
	"example.com/safetospend/backend/internal/repository"
)

// CronHandler обслуживает внешний планировщик: эндпоинты дергаются по
// расписанию снаружи, авторизация — общим секретом в заголовке.
type CronHandler struct {
	Bills    *repository.BillRepository
	Notifier *notifications.Hub
	Secret   string
	Now      func() time.Time
}

func NewCronHandler(bills *repository.BillRepository, notifier *notifications.Hub, secret string) *CronHandler {
	return &CronHandler{Bills: bills, Notifier: notifier, Secret: secret, Now: time.Now}
}

type CronDailyResponse struct {
	BillsDueSoon int `json:"bills_due_soon"`
}

// Daily рассылает напоминания о счетах со списанием в ближайшие сутки.
func (h *CronHandler) Daily(c echo.Context) error {
	if !h.authorized(c) {
		return unauthorized(c)
	}

	now := h.Now().UTC()
	bills, err := h.Bills.ListDueBetween(c.Request().Context(), now, now.AddDate(0, 0, 1))
	if err != nil {
		return serverError(c)
	}

	for _, bill := range bills {
		notifyBillDue(h.Notifier, bill.UserID, bill.BillID, bill.Name, bill.AmountCents, bill.NextDueDate.Format(dateLayout))
	}

	slog.Info("cron daily completed", "bills_due_soon", len(bills))
	return c.JSON(http.StatusOK, CronDailyResponse{BillsDueSoon: len(bills)})
}

func (h *CronHandler) authorized(c echo.Context) bool {
	if h.Secret == "" {
		return false
	}

	provided := c.Request().Header.Get("X-Cron-Secret")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.Secret)) == 1
}
