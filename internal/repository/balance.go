package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/safetospend/backend/internal/models"
)

type BalanceRepository struct {
	db *pgxpool.Pool
}

// NewBalanceRepository создает репозиторий снимков баланса.
func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Latest возвращает последний снимок баланса пользователя.
func (r *BalanceRepository) Latest(ctx context.Context, userID uuid.UUID) (models.BalanceSnapshot, error) {
	var snapshot models.BalanceSnapshot

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, balance_cents, created_at
		 FROM balance_snapshots
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&snapshot.ID, &snapshot.UserID, &snapshot.BalanceCents, &snapshot.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snapshot, ErrNotFound
		}
		return snapshot, err
	}

	return snapshot, nil
}

// Create добавляет новый снимок баланса. История снимков только растет:
// прошлые значения не перезаписываются.
func (r *BalanceRepository) Create(ctx context.Context, userID uuid.UUID, balanceCents int64) (models.BalanceSnapshot, error) {
	var snapshot models.BalanceSnapshot

	err := r.db.QueryRow(ctx,
		`INSERT INTO balance_snapshots (id, user_id, balance_cents)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, balance_cents, created_at`,
		uuid.New(), userID, balanceCents,
	).Scan(&snapshot.ID, &snapshot.UserID, &snapshot.BalanceCents, &snapshot.CreatedAt)
	if err != nil {
		return snapshot, err
	}

	return snapshot, nil
}
