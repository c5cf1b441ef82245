package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/safetospend/backend/internal/models"
)

type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository создает репозиторий трат.
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, user_id, amount_cents, date, category, note, created_at, updated_at`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var expense models.Expense
	err := row.Scan(&expense.ID, &expense.UserID, &expense.AmountCents, &expense.Date,
		&expense.Category, &expense.Note, &expense.CreatedAt, &expense.UpdatedAt)
	return expense, err
}

// List возвращает траты пользователя, опционально ограниченные интервалом дат.
func (r *ExpenseRepository) List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + `
	 FROM expenses
	 WHERE user_id = $1`
	args := []any{userID}

	if from != nil {
		args = append(args, *from)
		query += ` AND date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND date <= $3`
		} else {
			query += ` AND date <= $2`
		}
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// ListBetween возвращает траты внутри интервала инстантов, обе границы включительно.
func (r *ExpenseRepository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Expense, error) {
	return r.List(ctx, userID, &from, &to)
}

// Create добавляет трату пользователя.
func (r *ExpenseRepository) Create(ctx context.Context, userID uuid.UUID, amountCents int64, date time.Time, category, note *string) (models.Expense, error) {
	return scanExpense(r.db.QueryRow(ctx,
		`INSERT INTO expenses (id, user_id, amount_cents, date, category, note)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+expenseColumns,
		uuid.New(), userID, amountCents, date, category, note,
	))
}

// Update изменяет трату пользователя.
func (r *ExpenseRepository) Update(ctx context.Context, userID, id uuid.UUID, amountCents int64, date time.Time, category, note *string) (models.Expense, error) {
	expense, err := scanExpense(r.db.QueryRow(ctx,
		`UPDATE expenses
		 SET amount_cents = $3,
		     date = $4,
		     category = $5,
		     note = $6,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+expenseColumns,
		id, userID, amountCents, date, category, note,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expense, ErrNotFound
		}
		return expense, err
	}

	return expense, nil
}

// Delete удаляет трату пользователя.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM expenses
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
