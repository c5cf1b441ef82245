package safetospend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Cadence string

const (
	CadenceWeekly   Cadence = "WEEKLY"
	CadenceBiweekly Cadence = "BIWEEKLY"
	CadenceMonthly  Cadence = "MONTHLY"
	CadenceCustom   Cadence = "CUSTOM"
)

// Valid сообщает, входит ли значение в закрытый набор каденций.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceCustom:
		return true
	}
	return false
}

type IncomeSource struct {
	ID          uuid.UUID
	Name        string
	AmountCents int64
	Cadence     Cadence
	NextPayDate string // календарная дата YYYY-MM-DD в таймзоне пользователя
	Active      bool
}

type Bill struct {
	ID            uuid.UUID
	Name          string
	AmountCents   int64
	Cadence       Cadence
	DueDayOfMonth *int
	NextDueDate   *string // календарная дата YYYY-MM-DD, не сдвигается автоматически
	Active        bool
}

type Expense struct {
	ID          uuid.UUID
	AmountCents int64
	Date        time.Time
	Category    *string
	Note        *string
}

// ComputeInput — единственный параметр расчета: снимок финансового состояния
// пользователя плюс авторитетные текущее время и таймзона.
type ComputeInput struct {
	Now                            time.Time
	Timezone                       string
	BalanceCents                   int64
	IncomeSources                  []IncomeSource
	Bills                          []Bill
	Expenses                       []Expense
	PlannedSavingsCentsPerPaycheck int64
}

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarningNoIncome      = "NO_INCOME"
	WarningInvalidPayday = "INVALID_PAYDAY"
	WarningOvercommitted = "OVERCOMMITTED"
	WarningInvalidInput  = "INVALID_INPUT"
)

type ComputeOutput struct {
	SafeTodayCents       int64     `json:"safe_today_cents"`
	SafePerDayCents      int64     `json:"safe_per_day_cents"`
	SafeUntilPaydayCents int64     `json:"safe_until_payday_cents"`
	DaysLeftInclusive    int       `json:"days_left_inclusive"`
	NextPayday           string    `json:"next_payday"`
	BillsReservedCents   int64     `json:"bills_reserved_cents"`
	SavingsReservedCents int64     `json:"savings_reserved_cents"`
	TodaySpentCents      int64     `json:"today_spent_cents"`
	WeekSpentCents       int64     `json:"week_spent_cents"`
	Warnings             []Warning `json:"warnings"`
}

// Compute выводит дневной лимит трат из баланса, зарплатного окна, счетов и
// накоплений. Чистая функция: не читает часы, не делает I/O, при одинаковом
// входе (включая Now) дает побайтно одинаковый результат. Бизнес-ошибки
// никогда не становятся error — всегда возвращается результат с предупреждениями.
func Compute(input ComputeInput) ComputeOutput {
	loc, err := time.LoadLocation(input.Timezone)
	if err != nil {
		return terminalOutput(Warning{
			Code:    WarningInvalidInput,
			Message: "Could not interpret the provided timezone or dates.",
		})
	}

	todayStart := StartOfZonedDay(input.Now, loc)

	income, ok := firstActiveIncome(input.IncomeSources)
	if !ok {
		return terminalOutput(Warning{
			Code:    WarningNoIncome,
			Message: "Add an active income source to calculate your safe-to-spend.",
		})
	}

	nextPayday, err := ZonedMidnightFromDateKey(income.NextPayDate, loc)
	if err != nil {
		return terminalOutput(Warning{
			Code:    WarningInvalidInput,
			Message: "Could not interpret the provided timezone or dates.",
		})
	}

	warnings := make([]Warning, 0, 2)

	paydayStart := StartOfZonedDay(nextPayday, loc)
	daysLeftInclusive := calendarDaysBetween(todayStart, paydayStart, loc) + 1
	if daysLeftInclusive <= 0 {
		warnings = append(warnings, Warning{
			Code:    WarningInvalidPayday,
			Message: "Your next payday looks invalid. Update your income schedule.",
		})
	}

	// Зарплатное окно: [сегодня, день зарплаты], обе границы включительно.
	windowStart, windowEnd := todayStart, paydayStart

	var billsReservedCents int64
	for _, bill := range input.Bills {
		if !bill.Active {
			continue
		}

		dueDate, ok := resolveBillDueDate(bill, todayStart, loc)
		if !ok {
			continue
		}

		if withinInclusive(dueDate, windowStart, windowEnd) {
			billsReservedCents += bill.AmountCents
		}
	}

	savingsReservedCents := input.PlannedSavingsCentsPerPaycheck
	if savingsReservedCents < 0 {
		savingsReservedCents = 0
	}

	available := input.BalanceCents - billsReservedCents - savingsReservedCents
	if available < 0 {
		warnings = append(warnings, Warning{
			Code:    WarningOvercommitted,
			Message: fmt.Sprintf("You are overcommitted by %d cents before payday.", -available),
		})
	}

	var safePerDayCents int64
	if daysLeftInclusive > 0 {
		spendable := available
		if spendable < 0 {
			spendable = 0
		}
		// Целочисленное деление округляет вниз: пользователю никогда не
		// показываем больше, чем есть.
		safePerDayCents = spendable / int64(daysLeftInclusive)
	}

	todayKey := DateKey(todayStart, loc)
	weekStart := todayStart.AddDate(0, 0, -6)

	var todaySpentCents, weekSpentCents, windowSpentCents int64
	for _, expense := range input.Expenses {
		if DateKey(expense.Date, loc) == todayKey {
			todaySpentCents += expense.AmountCents
		}

		expenseDay := StartOfZonedDay(expense.Date, loc)
		if withinInclusive(expenseDay, weekStart, todayStart) {
			weekSpentCents += expense.AmountCents
		}
		if withinInclusive(expenseDay, windowStart, windowEnd) {
			windowSpentCents += expense.AmountCents
		}
	}

	safeTodayCents := safePerDayCents - todaySpentCents

	safeUntilPaydayCents := available - windowSpentCents
	if safeUntilPaydayCents < 0 {
		safeUntilPaydayCents = 0
	}

	return ComputeOutput{
		SafeTodayCents:       safeTodayCents,
		SafePerDayCents:      safePerDayCents,
		SafeUntilPaydayCents: safeUntilPaydayCents,
		DaysLeftInclusive:    daysLeftInclusive,
		NextPayday:           DateKey(nextPayday, loc),
		BillsReservedCents:   billsReservedCents,
		SavingsReservedCents: savingsReservedCents,
		TodaySpentCents:      todaySpentCents,
		WeekSpentCents:       weekSpentCents,
		Warnings:             warnings,
	}
}

// firstActiveIncome выбирает первый активный источник дохода в порядке входа.
// Несколько активных источников не суммируются: выбор изолирован здесь,
// чтобы политику можно было заменить, не трогая остальной расчет.
func firstActiveIncome(sources []IncomeSource) (IncomeSource, bool) {
	for _, source := range sources {
		if source.Active {
			return source, true
		}
	}
	return IncomeSource{}, false
}

// resolveBillDueDate выбирает ровно одну стратегию даты списания на счет:
// для MONTHLY с днем месяца — повторяющаяся дата от сегодняшней позиции,
// иначе явная NextDueDate как есть. Счет без той и другой пропускается.
func resolveBillDueDate(bill Bill, todayStart time.Time, loc *time.Location) (time.Time, bool) {
	switch bill.Cadence {
	case CadenceMonthly:
		if bill.DueDayOfMonth != nil && *bill.DueDayOfMonth > 0 {
			return ResolveMonthlyDueDate(*bill.DueDayOfMonth, todayStart, loc), true
		}
		return explicitDueDate(bill, loc)
	case CadenceWeekly, CadenceBiweekly, CadenceCustom:
		return explicitDueDate(bill, loc)
	default:
		return time.Time{}, false
	}
}

func explicitDueDate(bill Bill, loc *time.Location) (time.Time, bool) {
	if bill.NextDueDate == nil || *bill.NextDueDate == "" {
		return time.Time{}, false
	}

	dueDate, err := ZonedMidnightFromDateKey(*bill.NextDueDate, loc)
	if err != nil {
		return time.Time{}, false
	}

	return dueDate, true
}

func terminalOutput(warning Warning) ComputeOutput {
	return ComputeOutput{Warnings: []Warning{warning}}
}
