package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/safetospend/backend/internal/models"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository создает репозиторий пользовательских настроек.
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `user_id, timezone, planned_savings_cents_per_paycheck, created_at, updated_at`

// Get возвращает настройки пользователя.
func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (models.Settings, error) {
	var settings models.Settings

	err := r.db.QueryRow(ctx,
		`SELECT `+settingsColumns+`
		 FROM settings
		 WHERE user_id = $1`,
		userID,
	).Scan(&settings.UserID, &settings.Timezone, &settings.PlannedSavingsCentsPerPaycheck,
		&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings, ErrNotFound
		}
		return settings, err
	}

	return settings, nil
}

// GetOrDefault возвращает настройки или значения по умолчанию, если их еще нет.
func (r *SettingsRepository) GetOrDefault(ctx context.Context, userID uuid.UUID) (models.Settings, error) {
	settings, err := r.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return models.Settings{
			UserID:   userID,
			Timezone: models.DefaultTimezone,
		}, nil
	}

	return settings, err
}

// Upsert частично обновляет настройки: nil-поля сохраняют текущие значения.
func (r *SettingsRepository) Upsert(ctx context.Context, userID uuid.UUID, timezone *string, plannedSavingsCents *int64) (models.Settings, error) {
	var settings models.Settings

	err := r.db.QueryRow(ctx,
		`INSERT INTO settings (user_id, timezone, planned_savings_cents_per_paycheck)
		 VALUES ($1, COALESCE($2, $4), COALESCE($3, 0))
		 ON CONFLICT (user_id) DO UPDATE
		 SET timezone = COALESCE($2, settings.timezone),
		     planned_savings_cents_per_paycheck = COALESCE($3, settings.planned_savings_cents_per_paycheck),
		     updated_at = NOW()
		 RETURNING `+settingsColumns,
		userID, timezone, plannedSavingsCents, models.DefaultTimezone,
	).Scan(&settings.UserID, &settings.Timezone, &settings.PlannedSavingsCentsPerPaycheck,
		&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return settings, err
	}

	return settings, nil
}
