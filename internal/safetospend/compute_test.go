package safetospend

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func baseInput() ComputeInput {
	return ComputeInput{
		Now:          time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC),
		Timezone:     "America/New_York",
		BalanceCents: 200000,
	}
}

func activeIncome(nextPayDate string) IncomeSource {
	return IncomeSource{
		ID:          uuid.New(),
		Name:        "Paycheck",
		AmountCents: 300000,
		Cadence:     CadenceBiweekly,
		NextPayDate: nextPayDate,
		Active:      true,
	}
}

func hasWarning(output ComputeOutput, code string) bool {
	for _, warning := range output.Warnings {
		if warning.Code == code {
			return true
		}
	}
	return false
}

// TestComputeNoIncome проверяет терминальный нулевой вывод без активного дохода.
func TestComputeNoIncome(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{
		{Name: "Old job", AmountCents: 100000, Cadence: CadenceMonthly, NextPayDate: "2025-01-31", Active: false},
	}

	output := Compute(input)

	if output.SafeTodayCents != 0 || output.SafePerDayCents != 0 || output.SafeUntilPaydayCents != 0 {
		t.Fatalf("expected zeroed money fields, got %+v", output)
	}
	if output.DaysLeftInclusive != 0 || output.NextPayday != "" {
		t.Fatalf("expected empty payday fields, got %+v", output)
	}
	if len(output.Warnings) != 1 || output.Warnings[0].Code != WarningNoIncome {
		t.Fatalf("expected exactly NO_INCOME, got %v", output.Warnings)
	}
}

// TestComputeMonthlyBillInWindow проверяет резервирование счета по дню месяца.
func TestComputeMonthlyBillInWindow(t *testing.T) {
	dueDay := 20
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-31")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Rent", AmountCents: 120000, Cadence: CadenceMonthly, DueDayOfMonth: &dueDay, Active: true},
	}

	output := Compute(input)

	if output.BillsReservedCents != 120000 {
		t.Fatalf("expected 120000 reserved, got %d", output.BillsReservedCents)
	}
	if output.NextPayday != "2025-01-31" {
		t.Fatalf("expected payday 2025-01-31, got %s", output.NextPayday)
	}
	if output.DaysLeftInclusive != 17 {
		t.Fatalf("expected 17 days inclusive, got %d", output.DaysLeftInclusive)
	}
}

// TestComputeMonthlyBillOutsideWindow проверяет, что счет вне окна не резервируется.
func TestComputeMonthlyBillOutsideWindow(t *testing.T) {
	dueDay := 10 // уже прошел: уедет на 10 февраля, за пределы окна
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-31")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Rent", AmountCents: 120000, Cadence: CadenceMonthly, DueDayOfMonth: &dueDay, Active: true},
	}

	output := Compute(input)

	if output.BillsReservedCents != 0 {
		t.Fatalf("expected nothing reserved, got %d", output.BillsReservedCents)
	}
}

// TestComputeCustomBillExplicitDueDate проверяет явную дату списания в окне.
func TestComputeCustomBillExplicitDueDate(t *testing.T) {
	dueDate := "2025-01-22"
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-25")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Loan", AmountCents: 45000, Cadence: CadenceWeekly, NextDueDate: &dueDate, Active: true},
	}

	output := Compute(input)

	if output.BillsReservedCents != 45000 {
		t.Fatalf("expected 45000 reserved, got %d", output.BillsReservedCents)
	}
}

// TestComputePastExplicitDueDateNotAdvanced проверяет, что прошедшая явная дата
// не сдвигается вперед и счет не резервируется.
func TestComputePastExplicitDueDateNotAdvanced(t *testing.T) {
	dueDate := "2025-01-10"
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-25")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Loan", AmountCents: 45000, Cadence: CadenceCustom, NextDueDate: &dueDate, Active: true},
	}

	output := Compute(input)

	if output.BillsReservedCents != 0 {
		t.Fatalf("expected nothing reserved, got %d", output.BillsReservedCents)
	}
}

// TestComputeBillWithoutStrategySkipped проверяет пропуск счета без даты.
func TestComputeBillWithoutStrategySkipped(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-31")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Mystery", AmountCents: 99999, Cadence: CadenceMonthly, Active: true},
		{ID: uuid.New(), Name: "Inactive", AmountCents: 88888, Cadence: CadenceMonthly, Active: false},
	}

	output := Compute(input)

	if output.BillsReservedCents != 0 {
		t.Fatalf("expected nothing reserved, got %d", output.BillsReservedCents)
	}
	if len(output.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", output.Warnings)
	}
}

// TestComputeOvercommitted проверяет предупреждение и зажимы при перерасходе.
func TestComputeOvercommitted(t *testing.T) {
	dueDate := "2025-01-18"
	input := baseInput()
	input.BalanceCents = 50000
	input.PlannedSavingsCentsPerPaycheck = 100000
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-20")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Subscription", AmountCents: 100000, Cadence: CadenceCustom, NextDueDate: &dueDate, Active: true},
	}

	output := Compute(input)

	if !hasWarning(output, WarningOvercommitted) {
		t.Fatalf("expected OVERCOMMITTED warning, got %v", output.Warnings)
	}
	if output.SafePerDayCents != 0 {
		t.Fatalf("expected clamped per-day rate, got %d", output.SafePerDayCents)
	}
	if output.SafeUntilPaydayCents != 0 {
		t.Fatalf("expected clamped safe-until-payday, got %d", output.SafeUntilPaydayCents)
	}
	if output.SavingsReservedCents != 100000 {
		t.Fatalf("expected savings reserved 100000, got %d", output.SavingsReservedCents)
	}
}

// TestComputeNegativeSavingsClamped проверяет, что отрицательные накопления
// не раздувают доступную сумму.
func TestComputeNegativeSavingsClamped(t *testing.T) {
	input := baseInput()
	input.PlannedSavingsCentsPerPaycheck = -50000
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")}

	output := Compute(input)

	if output.SavingsReservedCents != 0 {
		t.Fatalf("expected savings clamped to 0, got %d", output.SavingsReservedCents)
	}
}

// TestComputePerDayFloored проверяет округление дневного лимита вниз.
func TestComputePerDayFloored(t *testing.T) {
	input := baseInput()
	input.Timezone = "UTC"
	input.BalanceCents = 100000
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")} // 7 дней включительно

	output := Compute(input)

	if output.DaysLeftInclusive != 7 {
		t.Fatalf("expected 7 days, got %d", output.DaysLeftInclusive)
	}
	if output.SafePerDayCents != 14285 {
		t.Fatalf("expected floor(100000/7)=14285, got %d", output.SafePerDayCents)
	}
}

// TestComputeInvalidPayday проверяет невалидный день зарплаты без прерывания расчета.
func TestComputeInvalidPayday(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-10")}

	output := Compute(input)

	if !hasWarning(output, WarningInvalidPayday) {
		t.Fatalf("expected INVALID_PAYDAY warning, got %v", output.Warnings)
	}
	if output.DaysLeftInclusive > 0 {
		t.Fatalf("expected non-positive days left, got %d", output.DaysLeftInclusive)
	}
	if output.SafePerDayCents != 0 {
		t.Fatalf("expected zero per-day rate, got %d", output.SafePerDayCents)
	}
	if output.NextPayday != "2025-01-10" {
		t.Fatalf("expected payday key preserved, got %s", output.NextPayday)
	}
}

// TestComputePaydayToday проверяет, что сегодня считается тратным днем.
func TestComputePaydayToday(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-15")}

	output := Compute(input)

	if output.DaysLeftInclusive != 1 {
		t.Fatalf("expected 1 day inclusive, got %d", output.DaysLeftInclusive)
	}
	if hasWarning(output, WarningInvalidPayday) {
		t.Fatalf("expected no INVALID_PAYDAY, got %v", output.Warnings)
	}
}

// TestComputeTodaySpent проверяет уменьшение дневного лимита тратами за сегодня.
func TestComputeTodaySpent(t *testing.T) {
	input := baseInput()
	input.Timezone = "UTC"
	input.BalanceCents = 7000
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")} // per-day = 1000

	input.Expenses = []Expense{
		{ID: uuid.New(), AmountCents: 300, Date: time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)},
	}
	output := Compute(input)
	if output.SafePerDayCents != 1000 {
		t.Fatalf("expected per-day 1000, got %d", output.SafePerDayCents)
	}
	if output.SafeTodayCents != 700 {
		t.Fatalf("expected safe-today 700, got %d", output.SafeTodayCents)
	}

	// Перерасход за сегодня дает отрицательный остаток — это сигнал, не ошибка.
	input.Expenses[0].AmountCents = 1500
	output = Compute(input)
	if output.SafeTodayCents != -500 {
		t.Fatalf("expected safe-today -500, got %d", output.SafeTodayCents)
	}
	if output.TodaySpentCents != 1500 {
		t.Fatalf("expected today-spent 1500, got %d", output.TodaySpentCents)
	}
}

// TestComputeExpenseDayBoundary проверяет сравнение трат по локальному дню,
// а не по сырому UTC-инстанту.
func TestComputeExpenseDayBoundary(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")}
	input.Expenses = []Expense{
		// 03:00 UTC 16 января — вечер 15 января в Нью-Йорке: считается сегодняшней тратой.
		{ID: uuid.New(), AmountCents: 2500, Date: time.Date(2025, time.January, 16, 3, 0, 0, 0, time.UTC)},
	}

	output := Compute(input)

	if output.TodaySpentCents != 2500 {
		t.Fatalf("expected boundary expense counted today, got %d", output.TodaySpentCents)
	}
}

// TestComputeWeekWindow проверяет скользящее семидневное окно трат.
func TestComputeWeekWindow(t *testing.T) {
	input := baseInput()
	input.Timezone = "UTC"
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")}
	input.Expenses = []Expense{
		{ID: uuid.New(), AmountCents: 100, Date: time.Date(2025, time.January, 9, 10, 0, 0, 0, time.UTC)},  // ровно 6 дней назад
		{ID: uuid.New(), AmountCents: 200, Date: time.Date(2025, time.January, 8, 10, 0, 0, 0, time.UTC)},  // за окном
		{ID: uuid.New(), AmountCents: 400, Date: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)}, // сегодня
	}

	output := Compute(input)

	if output.WeekSpentCents != 500 {
		t.Fatalf("expected week-spent 500, got %d", output.WeekSpentCents)
	}
}

// TestComputeSafeUntilPayday проверяет вычет трат окна и зажим в ноль.
func TestComputeSafeUntilPayday(t *testing.T) {
	input := baseInput()
	input.Timezone = "UTC"
	input.BalanceCents = 10000
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")}
	input.Expenses = []Expense{
		{ID: uuid.New(), AmountCents: 4000, Date: time.Date(2025, time.January, 16, 10, 0, 0, 0, time.UTC)},
		// До начала окна: не учитывается в остатке до зарплаты.
		{ID: uuid.New(), AmountCents: 9999, Date: time.Date(2025, time.January, 12, 10, 0, 0, 0, time.UTC)},
	}

	output := Compute(input)

	if output.SafeUntilPaydayCents != 6000 {
		t.Fatalf("expected safe-until-payday 6000, got %d", output.SafeUntilPaydayCents)
	}

	input.Expenses[0].AmountCents = 15000
	output = Compute(input)
	if output.SafeUntilPaydayCents != 0 {
		t.Fatalf("expected clamped safe-until-payday, got %d", output.SafeUntilPaydayCents)
	}
}

// TestComputeFirstActiveIncomeOnly проверяет, что берется первый активный
// источник, а остальные не суммируются.
func TestComputeFirstActiveIncomeOnly(t *testing.T) {
	input := baseInput()
	input.IncomeSources = []IncomeSource{
		{Name: "Closed", AmountCents: 100000, Cadence: CadenceMonthly, NextPayDate: "2025-01-17", Active: false},
		activeIncome("2025-01-21"),
		activeIncome("2025-01-18"),
	}

	output := Compute(input)

	if output.NextPayday != "2025-01-21" {
		t.Fatalf("expected first active income payday, got %s", output.NextPayday)
	}
}

// TestComputeInvalidInput проверяет деградацию при невалидной таймзоне или дате.
func TestComputeInvalidInput(t *testing.T) {
	input := baseInput()
	input.Timezone = "Not/AZone"
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-21")}

	output := Compute(input)
	if len(output.Warnings) != 1 || output.Warnings[0].Code != WarningInvalidInput {
		t.Fatalf("expected exactly INVALID_INPUT, got %v", output.Warnings)
	}
	if output.SafePerDayCents != 0 || output.DaysLeftInclusive != 0 {
		t.Fatalf("expected zeroed output, got %+v", output)
	}

	input = baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("not-a-date")}
	output = Compute(input)
	if len(output.Warnings) != 1 || output.Warnings[0].Code != WarningInvalidInput {
		t.Fatalf("expected exactly INVALID_INPUT, got %v", output.Warnings)
	}
}

// TestComputeIdempotent проверяет побайтную воспроизводимость результата.
func TestComputeIdempotent(t *testing.T) {
	dueDay := 20
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-31")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Rent", AmountCents: 120000, Cadence: CadenceMonthly, DueDayOfMonth: &dueDay, Active: true},
	}
	input.Expenses = []Expense{
		{ID: uuid.New(), AmountCents: 300, Date: time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)},
	}

	first := Compute(input)
	second := Compute(input)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical outputs, got %+v and %+v", first, second)
	}
}

// TestComputeBillMonotonicity проверяет, что рост счета в окне уменьшает
// остаток до зарплаты ровно на дельту.
func TestComputeBillMonotonicity(t *testing.T) {
	dueDate := "2025-01-18"
	input := baseInput()
	input.IncomeSources = []IncomeSource{activeIncome("2025-01-20")}
	input.Bills = []Bill{
		{ID: uuid.New(), Name: "Utilities", AmountCents: 10000, Cadence: CadenceCustom, NextDueDate: &dueDate, Active: true},
	}

	before := Compute(input)

	input.Bills[0].AmountCents += 2500
	after := Compute(input)

	if before.SafeUntilPaydayCents-after.SafeUntilPaydayCents != 2500 {
		t.Fatalf("expected delta 2500, got %d", before.SafeUntilPaydayCents-after.SafeUntilPaydayCents)
	}
}

// TestCadenceValid проверяет закрытый набор каденций.
func TestCadenceValid(t *testing.T) {
	for _, cadence := range []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceCustom} {
		if !cadence.Valid() {
			t.Fatalf("expected %s to be valid", cadence)
		}
	}

	if Cadence("DAILY").Valid() {
		t.Fatal("expected DAILY to be invalid")
	}
}
