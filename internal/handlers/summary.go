package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/safetospend/backend/internal/auth"
	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/repository"
	"example.com/safetospend/backend/internal/safetospend"
)

// SummaryHandler собирает финансовый снимок пользователя и прогоняет его
// через расчет дневного лимита.
type SummaryHandler struct {
	Income   *repository.IncomeRepository
	Bills    *repository.BillRepository
	Expenses *repository.ExpenseRepository
	Balance  *repository.BalanceRepository
	Settings *repository.SettingsRepository
	Now      func() time.Time
}

func NewSummaryHandler(
	income *repository.IncomeRepository,
	bills *repository.BillRepository,
	expenses *repository.ExpenseRepository,
	balance *repository.BalanceRepository,
	settings *repository.SettingsRepository,
) *SummaryHandler {
	return &SummaryHandler{
		Income:   income,
		Bills:    bills,
		Expenses: expenses,
		Balance:  balance,
		Settings: settings,
		Now:      time.Now,
	}
}

type SummaryResponse struct {
	Summary       safetospend.ComputeOutput `json:"summary"`
	BalanceCents  int64                     `json:"balance_cents"`
	BalanceAsOf   *time.Time                `json:"balance_as_of,omitempty"`
	IncomeSources []IncomeResponse          `json:"income_sources"`
	Bills         []BillResponse            `json:"bills"`
	Expenses      []ExpenseResponse         `json:"expenses"`
}

// Get возвращает сводку «сколько можно тратить» вместе с данными, на которых
// она посчитана. Расчет выполняется на каждый запрос: хранится только ввод.
func (h *SummaryHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	now := h.Now()

	settings, err := h.Settings.GetOrDefault(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	var balanceCents int64
	var balanceAsOf *time.Time
	snapshot, err := h.Balance.Latest(ctx, userID)
	switch {
	case err == nil:
		balanceCents = snapshot.BalanceCents
		balanceAsOf = &snapshot.CreatedAt
	case errors.Is(err, repository.ErrNotFound):
		// Баланс еще не вводился: считаем от нуля.
	default:
		return serverError(c)
	}

	incomes, err := h.Income.ListActive(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	bills, err := h.Bills.ListActive(ctx, userID)
	if err != nil {
		return serverError(c)
	}

	loc := locationOrUTC(settings.Timezone)
	from, to := expenseWindow(now, incomes, loc)
	expenses, err := h.Expenses.ListBetween(ctx, userID, from, to)
	if err != nil {
		return serverError(c)
	}

	input := safetospend.ComputeInput{
		Now:                            now,
		Timezone:                       settings.Timezone,
		BalanceCents:                   balanceCents,
		IncomeSources:                  toEngineIncome(incomes),
		Bills:                          toEngineBills(bills),
		Expenses:                       toEngineExpenses(expenses),
		PlannedSavingsCentsPerPaycheck: settings.PlannedSavingsCentsPerPaycheck,
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Summary:       safetospend.Compute(input),
		BalanceCents:  balanceCents,
		BalanceAsOf:   balanceAsOf,
		IncomeSources: toIncomeResponses(incomes),
		Bills:         toBillResponses(bills),
		Expenses:      toExpenseResponses(expenses),
	})
}

// expenseWindow ограничивает выборку трат: от начала недельного окна до дня
// зарплаты включительно (или до конца сегодняшнего дня, если зарплаты нет).
func expenseWindow(now time.Time, incomes []models.IncomeSource, loc *time.Location) (time.Time, time.Time) {
	todayStart := safetospend.StartOfZonedDay(now, loc)
	from := todayStart.AddDate(0, 0, -6)
	to := todayStart.AddDate(0, 0, 1)

	for _, income := range incomes {
		if !income.Active {
			continue
		}
		// День зарплаты хранится как календарная дата (полночь UTC);
		// границу окна строим из ее ключа в таймзоне пользователя, а не
		// из самого инстанта, иначе западнее UTC окно кончается на день раньше.
		payday, err := safetospend.ZonedMidnightFromDateKey(storedDateKey(income.NextPayDate), loc)
		if err != nil {
			break
		}
		if end := payday.AddDate(0, 0, 1); end.After(to) {
			to = end
		}
		break
	}

	return from, to
}

// locationOrUTC не скрывает невалидную таймзону от расчета: она остается в
// ComputeInput и превращается в предупреждение, UTC нужен только для выборки.
func locationOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// storedDateKey возвращает календарный ключ хранимой даты. Голые даты
// сохраняются полуночью UTC, поэтому ключ читается тоже в UTC: перевод в
// таймзону пользователя сдвинул бы дату на день для зон западнее UTC.
func storedDateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func toEngineIncome(sources []models.IncomeSource) []safetospend.IncomeSource {
	out := make([]safetospend.IncomeSource, 0, len(sources))
	for _, source := range sources {
		out = append(out, safetospend.IncomeSource{
			ID:          source.ID,
			Name:        source.Name,
			AmountCents: source.AmountCents,
			Cadence:     source.Cadence,
			NextPayDate: storedDateKey(source.NextPayDate),
			Active:      source.Active,
		})
	}
	return out
}

func toEngineBills(bills []models.Bill) []safetospend.Bill {
	out := make([]safetospend.Bill, 0, len(bills))
	for _, bill := range bills {
		var nextDueDate *string
		if bill.NextDueDate != nil {
			key := storedDateKey(*bill.NextDueDate)
			nextDueDate = &key
		}
		out = append(out, safetospend.Bill{
			ID:            bill.ID,
			Name:          bill.Name,
			AmountCents:   bill.AmountCents,
			Cadence:       bill.Cadence,
			DueDayOfMonth: bill.DueDayOfMonth,
			NextDueDate:   nextDueDate,
			Active:        bill.Active,
		})
	}
	return out
}

func toEngineExpenses(expenses []models.Expense) []safetospend.Expense {
	out := make([]safetospend.Expense, 0, len(expenses))
	for _, expense := range expenses {
		out = append(out, safetospend.Expense{
			ID:          expense.ID,
			AmountCents: expense.AmountCents,
			Date:        expense.Date,
			Category:    expense.Category,
			Note:        expense.Note,
		})
	}
	return out
}

func toIncomeResponses(sources []models.IncomeSource) []IncomeResponse {
	out := make([]IncomeResponse, 0, len(sources))
	for _, source := range sources {
		out = append(out, toIncomeResponse(source))
	}
	return out
}

func toBillResponses(bills []models.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		out = append(out, toBillResponse(bill))
	}
	return out
}

func toExpenseResponses(expenses []models.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		out = append(out, toExpenseResponse(expense))
	}
	return out
}
