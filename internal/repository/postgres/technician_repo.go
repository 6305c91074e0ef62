// internal/repository/postgres/technician_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobiwash-service/internal/domain/technician"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TechnicianRepository struct {
	db *pgxpool.Pool
}

func NewTechnicianRepository(db *pgxpool.Pool) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

// Create creates a new technician
func (r *TechnicianRepository) Create(ctx context.Context, t *technician.Technician) error {
	query := `
		INSERT INTO technicians (full_name, email, phone, active, skills)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, t.FullName, t.Email, t.Phone, t.Active, t.Skills).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}

	return nil
}

// FindByID retrieves a technician by ID
func (r *TechnicianRepository) FindByID(ctx context.Context, id int64) (*technician.Technician, error) {
	query := `
		SELECT id, full_name, email, phone, active, skills, created_at, updated_at
		FROM technicians
		WHERE id = $1
	`

	var t technician.Technician
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FullName, &t.Email, &t.Phone, &t.Active, &t.Skills, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find technician: %w", err)
	}

	return &t, nil
}

// List retrieves technicians, optionally active only.
func (r *TechnicianRepository) List(ctx context.Context, activeOnly bool) ([]technician.Technician, error) {
	query := `
		SELECT id, full_name, email, phone, active, skills, created_at, updated_at
		FROM technicians
	`
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY full_name"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var out []technician.Technician
	for rows.Next() {
		var t technician.Technician
		if err := rows.Scan(&t.ID, &t.FullName, &t.Email, &t.Phone, &t.Active, &t.Skills, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// Update updates a technician
func (r *TechnicianRepository) Update(ctx context.Context, id int64, t *technician.Technician) error {
	query := `
		UPDATE technicians
		SET full_name = $1, email = $2, phone = $3, active = $4, skills = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query, t.FullName, t.Email, t.Phone, t.Active, t.Skills, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a technician and unassigns them from any jobs.
func (r *TechnicianRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE jobs SET technician_id = NULL, updated_at = NOW() WHERE technician_id = $1`, id,
	); err != nil {
		return fmt.Errorf("failed to unassign technician: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM technicians WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete technician: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return tx.Commit(ctx)
}
