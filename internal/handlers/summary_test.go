package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/safetospend"
)

// TestExpenseWindowWithoutIncome проверяет окно выборки без активного дохода.
func TestExpenseWindowWithoutIncome(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

	from, to := expenseWindow(now, nil, time.UTC)

	if got := from.Format(dateLayout); got != "2025-03-04" {
		t.Fatalf("unexpected from: %s", got)
	}
	if got := to.Format(dateLayout); got != "2025-03-11" {
		t.Fatalf("unexpected to: %s", got)
	}
}

// TestExpenseWindowExtendsToPayday проверяет расширение окна до дня зарплаты.
func TestExpenseWindowExtendsToPayday(t *testing.T) {
	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	incomes := []models.IncomeSource{
		{
			ID:          uuid.New(),
			AmountCents: 300000,
			Cadence:     safetospend.CadenceBiweekly,
			NextPayDate: time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
	}

	from, to := expenseWindow(now, incomes, time.UTC)

	if got := from.Format(dateLayout); got != "2025-03-04" {
		t.Fatalf("unexpected from: %s", got)
	}
	if got := to.Format(dateLayout); got != "2025-03-22" {
		t.Fatalf("unexpected to: %s", got)
	}
}

// TestLocationOrUTC проверяет запасную таймзону для выборки.
func TestLocationOrUTC(t *testing.T) {
	if loc := locationOrUTC("America/New_York"); loc.String() != "America/New_York" {
		t.Fatalf("unexpected location: %s", loc)
	}

	if loc := locationOrUTC("Mars/Olympus"); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", loc)
	}
}

// TestToEngineBills проверяет маппинг счетов во вход расчета.
func TestToEngineBills(t *testing.T) {
	dueDay := 5
	nextDue := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{ID: uuid.New(), Name: "Rent", AmountCents: 120000, Cadence: safetospend.CadenceMonthly, DueDayOfMonth: &dueDay, Active: true},
		{ID: uuid.New(), Name: "Gym", AmountCents: 4500, Cadence: safetospend.CadenceCustom, NextDueDate: &nextDue, Active: true},
	}

	mapped := toEngineBills(bills)
	if len(mapped) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(mapped))
	}

	if mapped[0].DueDayOfMonth == nil || *mapped[0].DueDayOfMonth != 5 {
		t.Fatalf("unexpected due day: %v", mapped[0].DueDayOfMonth)
	}
	if mapped[0].NextDueDate != nil {
		t.Fatal("expected no explicit due date for monthly bill")
	}

	if mapped[1].NextDueDate == nil || *mapped[1].NextDueDate != "2025-04-02" {
		t.Fatalf("unexpected next due date: %v", mapped[1].NextDueDate)
	}
}

// TestToEngineIncome проверяет маппинг дохода во вход расчета.
func TestToEngineIncome(t *testing.T) {
	sources := []models.IncomeSource{
		{
			ID:          uuid.New(),
			Name:        "Salary",
			AmountCents: 250000,
			Cadence:     safetospend.CadenceBiweekly,
			NextPayDate: time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
	}

	mapped := toEngineIncome(sources)
	if len(mapped) != 1 {
		t.Fatalf("expected 1 source, got %d", len(mapped))
	}

	if mapped[0].NextPayDate != "2025-03-21" {
		t.Fatalf("unexpected pay date: %s", mapped[0].NextPayDate)
	}
}

// TestStoredDateKeyWesternZoneStable проверяет, что хранимая календарная дата
// доходит до расчета без сдвига: полночь UTC западнее нуля — это еще
// предыдущий локальный день, и перевод в таймзону пользователя терял бы день.
func TestStoredDateKeyWesternZoneStable(t *testing.T) {
	stored := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	if got := storedDateKey(stored); got != "2025-01-31" {
		t.Fatalf("unexpected key: %s", got)
	}

	sources := []models.IncomeSource{
		{ID: uuid.New(), AmountCents: 250000, Cadence: safetospend.CadenceMonthly, NextPayDate: stored, Active: true},
	}
	if got := toEngineIncome(sources)[0].NextPayDate; got != "2025-01-31" {
		t.Fatalf("pay date shifted: %s", got)
	}

	nextDue := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{ID: uuid.New(), Name: "Gym", AmountCents: 4500, Cadence: safetospend.CadenceCustom, NextDueDate: &nextDue, Active: true},
	}
	mapped := toEngineBills(bills)
	if mapped[0].NextDueDate == nil || *mapped[0].NextDueDate != "2025-04-02" {
		t.Fatalf("due date shifted: %v", mapped[0].NextDueDate)
	}
}

// TestExpenseWindowWesternZonePayday проверяет, что конец окна выборки строится
// из календарной даты зарплаты в таймзоне пользователя, а не из UTC-инстанта.
func TestExpenseWindowWesternZonePayday(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	now := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	incomes := []models.IncomeSource{
		{
			ID:          uuid.New(),
			AmountCents: 300000,
			Cadence:     safetospend.CadenceBiweekly,
			NextPayDate: time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC),
			Active:      true,
		},
	}

	_, to := expenseWindow(now, incomes, loc)

	expected := time.Date(2025, time.March, 22, 0, 0, 0, 0, loc)
	if !to.Equal(expected) {
		t.Fatalf("unexpected window end: %s", to.Format(time.RFC3339))
	}
}
