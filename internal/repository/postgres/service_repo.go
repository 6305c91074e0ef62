// internal/repository/postgres/service_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobiwash-service/internal/domain/catalog"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceRepository struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create creates a new catalog service
func (r *ServiceRepository) Create(ctx context.Context, s *catalog.Service) error {
	query := `
		INSERT INTO services (name, description, price, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, s.Name, s.Description, s.Price, s.Active).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// FindByID retrieves a service by ID
func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*catalog.Service, error) {
	query := `
		SELECT id, name, description, price, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	var s catalog.Service
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return &s, nil
}

// FindByIDs retrieves several services in one round trip.
func (r *ServiceRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Service, error) {
	query := `
		SELECT id, name, description, price, active, created_at, updated_at
		FROM services
		WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer rows.Close()

	var out []catalog.Service
	for rows.Next() {
		var s catalog.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// List retrieves services, optionally active only.
func (r *ServiceRepository) List(ctx context.Context, filters *catalog.ServiceListFilters) ([]catalog.Service, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, active, created_at, updated_at
		FROM services
		%s
		ORDER BY name
	`, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var out []catalog.Service
	for rows.Next() {
		var s catalog.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// Update updates a service
func (r *ServiceRepository) Update(ctx context.Context, id int64, s *catalog.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query, s.Name, s.Description, s.Price, s.Active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive toggles a service's visibility in booking forms.
func (r *ServiceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE services SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update service status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a service that is not referenced by any booking.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	var referenced bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM booking_services WHERE service_id = $1)`, id,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("failed to check service references: %w", err)
	}
	if referenced {
		return xerrors.ErrHasDependencies
	}

	result, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
