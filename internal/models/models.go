package models

import (
	"time"

	"github.com/google/uuid"

	"example.com/safetospend/backend/internal/safetospend"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type IncomeSource struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Name        string              `json:"name"`
	AmountCents int64               `json:"amount_cents"`
	Cadence     safetospend.Cadence `json:"cadence"`
	NextPayDate time.Time           `json:"next_pay_date"`
	Active      bool                `json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type Bill struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Name          string              `json:"name"`
	AmountCents   int64               `json:"amount_cents"`
	Cadence       safetospend.Cadence `json:"cadence"`
	DueDayOfMonth *int                `json:"due_day_of_month,omitempty"`
	NextDueDate   *time.Time          `json:"next_due_date,omitempty"`
	Active        bool                `json:"active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type Expense struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Date        time.Time `json:"date"`
	Category    *string   `json:"category,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BalanceSnapshot struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type Settings struct {
	UserID                         uuid.UUID `json:"user_id"`
	Timezone                       string    `json:"timezone"`
	PlannedSavingsCentsPerPaycheck int64     `json:"planned_savings_cents_per_paycheck"`
	CreatedAt                      time.Time `json:"created_at"`
	UpdatedAt                      time.Time `json:"updated_at"`
}

// DefaultTimezone используется, пока пользователь не выбрал свою таймзону.
const DefaultTimezone = "UTC"

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
