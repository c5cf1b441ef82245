package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/safetospend/backend/internal/models"
	"example.com/safetospend/backend/internal/safetospend"
)

type BillRepository struct {
	db *pgxpool.Pool
}

// NewBillRepository создает репозиторий счетов.
func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{db: db}
}

const billColumns = `id, user_id, name, amount_cents, cadence, due_day_of_month, next_due_date, active, created_at, updated_at`

func scanBill(row pgx.Row) (models.Bill, error) {
	var bill models.Bill
	err := row.Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.AmountCents, &bill.Cadence,
		&bill.DueDayOfMonth, &bill.NextDueDate, &bill.Active, &bill.CreatedAt, &bill.UpdatedAt)
	return bill, err
}

// List возвращает все счета пользователя, новые первыми.
func (r *BillRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+`
		 FROM bills
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
}

// ListActive возвращает активные счета пользователя, новые первыми.
func (r *BillRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Bill, error) {
	return r.list(ctx,
		`SELECT `+billColumns+`
		 FROM bills
		 WHERE user_id = $1 AND active
		 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *BillRepository) list(ctx context.Context, query string, args ...any) ([]models.Bill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]models.Bill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	return bills, rows.Err()
}

// Create добавляет счет с проверкой лимита активных счетов.
func (r *BillRepository) Create(ctx context.Context, userID uuid.UUID, name string, amountCents int64, cadence safetospend.Cadence, dueDayOfMonth *int, nextDueDate *time.Time, active bool, maxActive int) (models.Bill, error) {
	var bill models.Bill

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return bill, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if active {
		if err := ensureActiveLimit(ctx, tx, "bills", userID, uuid.Nil, maxActive); err != nil {
			return bill, err
		}
	}

	bill, err = scanBill(tx.QueryRow(ctx,
		`INSERT INTO bills (id, user_id, name, amount_cents, cadence, due_day_of_month, next_due_date, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+billColumns,
		uuid.New(), userID, name, amountCents, cadence, dueDayOfMonth, nextDueDate, active,
	))
	if err != nil {
		return bill, err
	}

	if err := tx.Commit(ctx); err != nil {
		return bill, err
	}

	return bill, nil
}

// Update изменяет счет пользователя.
func (r *BillRepository) Update(ctx context.Context, userID, id uuid.UUID, name string, amountCents int64, cadence safetospend.Cadence, dueDayOfMonth *int, nextDueDate *time.Time, active bool, maxActive int) (models.Bill, error) {
	var bill models.Bill

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return bill, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if active {
		if err := ensureActiveLimit(ctx, tx, "bills", userID, id, maxActive); err != nil {
			return bill, err
		}
	}

	bill, err = scanBill(tx.QueryRow(ctx,
		`UPDATE bills
		 SET name = $3,
		     amount_cents = $4,
		     cadence = $5,
		     due_day_of_month = $6,
		     next_due_date = $7,
		     active = $8,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+billColumns,
		id, userID, name, amountCents, cadence, dueDayOfMonth, nextDueDate, active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bill, ErrNotFound
		}
		return bill, err
	}

	if err := tx.Commit(ctx); err != nil {
		return bill, err
	}

	return bill, nil
}

// Delete удаляет счет пользователя.
func (r *BillRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM bills
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DueSoonBill описывает активный счет с явной датой списания в ближайшем окне.
type DueSoonBill struct {
	UserID      uuid.UUID
	BillID      uuid.UUID
	Name        string
	AmountCents int64
	NextDueDate time.Time
}

// ListDueBetween возвращает активные счета всех пользователей с явной датой
// списания в интервале [from, to]. Используется ежедневным cron-напоминанием.
func (r *BillRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]DueSoonBill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, id, name, amount_cents, next_due_date
		 FROM bills
		 WHERE active AND next_due_date IS NOT NULL AND next_due_date BETWEEN $1 AND $2
		 ORDER BY next_due_date, created_at`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]DueSoonBill, 0)
	for rows.Next() {
		var bill DueSoonBill
		if err := rows.Scan(&bill.UserID, &bill.BillID, &bill.Name, &bill.AmountCents, &bill.NextDueDate); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	return bills, rows.Err()
}
