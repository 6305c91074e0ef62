// internal/repository/postgres/setting_repository.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mobiwash-service/internal/domain/settings"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingRepository struct {
	db *pgxpool.Pool
}

func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: db}
}

// Upsert inserts or replaces the setting under its key.
func (r *SettingRepository) Upsert(ctx context.Context, s *settings.Setting) error {
	value, err := json.Marshal(s.Value)
	if err != nil {
		return fmt.Errorf("failed to encode setting value: %w", err)
	}

	query := `
		INSERT INTO settings (key, category, name, value, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET category = EXCLUDED.category,
		    name = EXCLUDED.name,
		    value = EXCLUDED.value,
		    description = EXCLUDED.description,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query, s.Key, s.Category, s.Name, value, s.Description).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}

// FindByKey retrieves a setting by key
func (r *SettingRepository) FindByKey(ctx context.Context, key string) (*settings.Setting, error) {
	query := `
		SELECT key, category, name, value, description, created_at, updated_at
		FROM settings
		WHERE key = $1
	`

	var s settings.Setting
	var raw []byte
	err := r.db.QueryRow(ctx, query, key).Scan(
		&s.Key, &s.Category, &s.Name, &raw, &s.Description, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find setting: %w", err)
	}

	if err := json.Unmarshal(raw, &s.Value); err != nil {
		return nil, fmt.Errorf("failed to decode setting value: %w", err)
	}

	return &s, nil
}

// List retrieves all settings, optionally in one category.
func (r *SettingRepository) List(ctx context.Context, category string) ([]settings.Setting, error) {
	query := `
		SELECT key, category, name, value, description, created_at, updated_at
		FROM settings
	`
	var args []interface{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY category, key"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var out []settings.Setting
	for rows.Next() {
		var s settings.Setting
		var raw []byte
		if err := rows.Scan(&s.Key, &s.Category, &s.Name, &raw, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		if err := json.Unmarshal(raw, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to decode setting value: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// Delete removes a setting by key.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
