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

type IncomeRepository struct {
	db *pgxpool.Pool
}

// NewIncomeRepository создает репозиторий источников дохода.
func NewIncomeRepository(db *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{db: db}
}

const incomeColumns = `id, user_id, name, amount_cents, cadence, next_pay_date, active, created_at, updated_at`

func scanIncome(row pgx.Row) (models.IncomeSource, error) {
	var source models.IncomeSource
	err := row.Scan(&source.ID, &source.UserID, &source.Name, &source.AmountCents,
		&source.Cadence, &source.NextPayDate, &source.Active, &source.CreatedAt, &source.UpdatedAt)
	return source, err
}

// List возвращает все источники дохода пользователя, новые первыми.
func (r *IncomeRepository) List(ctx context.Context, userID uuid.UUID) ([]models.IncomeSource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+incomeColumns+`
		 FROM income_sources
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := make([]models.IncomeSource, 0)
	for rows.Next() {
		source, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// ListActive возвращает активные источники дохода, новые первыми.
func (r *IncomeRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.IncomeSource, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+incomeColumns+`
		 FROM income_sources
		 WHERE user_id = $1 AND active
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := make([]models.IncomeSource, 0)
	for rows.Next() {
		source, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// Create добавляет источник дохода с проверкой лимита активных источников.
func (r *IncomeRepository) Create(ctx context.Context, userID uuid.UUID, name string, amountCents int64, cadence safetospend.Cadence, nextPayDate time.Time, active bool, maxActive int) (models.IncomeSource, error) {
	var source models.IncomeSource

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return source, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if active {
		if err := ensureActiveLimit(ctx, tx, "income_sources", userID, uuid.Nil, maxActive); err != nil {
			return source, err
		}
	}

	source, err = scanIncome(tx.QueryRow(ctx,
		`INSERT INTO income_sources (id, user_id, name, amount_cents, cadence, next_pay_date, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+incomeColumns,
		uuid.New(), userID, name, amountCents, cadence, nextPayDate, active,
	))
	if err != nil {
		return source, err
	}

	if err := tx.Commit(ctx); err != nil {
		return source, err
	}

	return source, nil
}

// Update изменяет источник дохода пользователя.
func (r *IncomeRepository) Update(ctx context.Context, userID, id uuid.UUID, name string, amountCents int64, cadence safetospend.Cadence, nextPayDate time.Time, active bool, maxActive int) (models.IncomeSource, error) {
	var source models.IncomeSource

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return source, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if active {
		if err := ensureActiveLimit(ctx, tx, "income_sources", userID, id, maxActive); err != nil {
			return source, err
		}
	}

	source, err = scanIncome(tx.QueryRow(ctx,
		`UPDATE income_sources
		 SET name = $3,
		     amount_cents = $4,
		     cadence = $5,
		     next_pay_date = $6,
		     active = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+incomeColumns,
		id, userID, name, amountCents, cadence, nextPayDate, active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return source, ErrNotFound
		}
		return source, err
	}

	if err := tx.Commit(ctx); err != nil {
		return source, err
	}

	return source, nil
}

// Delete удаляет источник дохода пользователя.
func (r *IncomeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM income_sources
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

// ensureActiveLimit проверяет лимит активных записей бесплатного тарифа.
// excludeID исключает саму обновляемую запись из подсчета.
func ensureActiveLimit(ctx context.Context, tx pgx.Tx, table string, userID, excludeID uuid.UUID, maxActive int) error {
	if maxActive <= 0 {
		return nil
	}

	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+table+`
		 WHERE user_id = $1 AND active AND id <> $2`,
		userID, excludeID,
	).Scan(&count)
	if err != nil {
		return err
	}

	if count >= maxActive {
		return ErrLimitExceeded
	}

	return nil
}
