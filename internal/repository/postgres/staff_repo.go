// internal/repository/postgres/staff_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobiwash-service/internal/domain/staff"
	xerrors "mobiwash-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StaffRepository struct {
	db *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create creates a staff account
func (r *StaffRepository) Create(ctx context.Context, s *staff.Staff) error {
	query := `
		INSERT INTO staff (email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, s.Email, s.PasswordHash, s.FullName, s.Role, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}

	return nil
}

const staffSelect = `
	SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
	FROM staff
`

func scanStaff(row pgx.Row) (*staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.FullName, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan staff: %w", err)
	}
	return &s, nil
}

// FindByID retrieves a staff account by ID
func (r *StaffRepository) FindByID(ctx context.Context, id int64) (*staff.Staff, error) {
	return scanStaff(r.db.QueryRow(ctx, staffSelect+` WHERE id = $1`, id))
}

// FindByEmail retrieves a staff account by email
func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	return scanStaff(r.db.QueryRow(ctx, staffSelect+` WHERE email = $1`, email))
}

// List retrieves all staff accounts.
func (r *StaffRepository) List(ctx context.Context) ([]staff.Staff, error) {
	rows, err := r.db.Query(ctx, staffSelect+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var out []staff.Staff
	for rows.Next() {
		var s staff.Staff
		if err := rows.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.FullName, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// UpdatePassword replaces the password hash.
func (r *StaffRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE staff SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive enables or disables a staff account.
func (r *StaffRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE staff SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// CreateSession records an issued token in the durable session log.
func (r *StaffRepository) CreateSession(ctx context.Context, s *staff.Session) error {
	query := `
		INSERT INTO staff_sessions (staff_id, jti, ip_address, user_agent, login_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		s.StaffID, s.JTI, s.IPAddress, s.UserAgent, s.LoginAt, s.ExpiresAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindSessionByJTI retrieves the session for a token id.
func (r *StaffRepository) FindSessionByJTI(ctx context.Context, jti string) (*staff.Session, error) {
	query := `
		SELECT id, staff_id, jti, ip_address, user_agent, login_at, expires_at, revoked_at
		FROM staff_sessions
		WHERE jti = $1
	`

	var s staff.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.StaffID, &s.JTI, &s.IPAddress, &s.UserAgent, &s.LoginAt, &s.ExpiresAt, &s.RevokedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

// RevokeSession marks a single session revoked.
func (r *StaffRepository) RevokeSession(ctx context.Context, jti string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE staff_sessions SET revoked_at = NOW() WHERE jti = $1 AND revoked_at IS NULL`,
		jti,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// RevokeAllSessions marks every live session for the staff member revoked and
// returns their JTIs so the redis copies can be dropped too.
func (r *StaffRepository) RevokeAllSessions(ctx context.Context, staffID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE staff_sessions
		SET revoked_at = NOW()
		WHERE staff_id = $1 AND revoked_at IS NULL
		RETURNING jti
	`, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	defer rows.Close()

	var jtis []string
	for rows.Next() {
		var jti string
		if err := rows.Scan(&jti); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		jtis = append(jtis, jti)
	}

	return jtis, rows.Err()
}
