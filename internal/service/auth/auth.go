// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mobiwash-service/internal/domain/staff"
	xerrors "mobiwash-service/internal/pkg/errors"
	"mobiwash-service/internal/pkg/jwt"
	"mobiwash-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type StaffRepo interface {
	Create(ctx context.Context, s *staff.Staff) error
	FindByID(ctx context.Context, id int64) (*staff.Staff, error)
	FindByEmail(ctx context.Context, email string) (*staff.Staff, error)
	List(ctx context.Context) ([]staff.Staff, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	CreateSession(ctx context.Context, s *staff.Session) error
	FindSessionByJTI(ctx context.Context, jti string) (*staff.Session, error)
	RevokeSession(ctx context.Context, jti string) error
	RevokeAllSessions(ctx context.Context, staffID int64) ([]string, error)
}

type AuthService struct {
	staffRepo StaffRepo
	sessions  *session.Manager
	limiter   *session.RateLimiter
	tokens    *jwt.Manager
	logger    *zap.Logger
}

func NewAuthService(staffRepo StaffRepo, sessions *session.Manager, limiter *session.RateLimiter, tokens *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		staffRepo: staffRepo,
		sessions:  sessions,
		limiter:   limiter,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login authenticates a staff member and issues a session token.
func (s *AuthService) Login(ctx context.Context, req *staff.LoginRequest, ip, userAgent string) (*staff.LoginResponse, error) {
	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", req.Email),
			zap.String("ip", ip),
			zap.Int64("remaining", remaining),
		)
		return nil, xerrors.ErrRateLimited
	}

	member, err := s.staffRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			// Same cost as a real check so lookups don't leak accounts.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZv3dXkS9N7mBqD3eF1cG5hJ7kL9mN"), []byte(req.Password))
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}

	if !member.IsActive {
		return nil, xerrors.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.tokens.Generator.Generate(member.ID, member.Email, member.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.tokens.Generator.Ttl)

	dbSession := &staff.Session{
		StaffID:   member.ID,
		JTI:       jti,
		IPAddress: nullString(ip),
		UserAgent: nullString(userAgent),
		LoginAt:   now,
		ExpiresAt: expiresAt,
	}
	if err := s.staffRepo.CreateSession(ctx, dbSession); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	if err := s.sessions.CreateSession(ctx, &session.SessionData{
		JTI:            jti,
		StaffID:        member.ID,
		SessionID:      dbSession.ID,
		Email:          member.Email,
		Role:           member.Role,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}); err != nil {
		s.logger.Warn("failed to cache session in redis", zap.Error(err))
	}

	s.limiter.ResetLoginAttempts(ctx, ip, req.Email)

	s.logger.Info("staff logged in",
		zap.Int64("staff_id", member.ID),
		zap.String("email", member.Email),
	)

	return &staff.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.Generator.Ttl.Seconds()),
		Staff:     *member,
	}, nil
}

// ValidateToken verifies a bearer token and confirms its session is alive.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.Verifier.Verify(token)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if _, err := s.sessions.GetSession(ctx, claims.StaffID, claims.ID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// Logout revokes the current session.
func (s *AuthService) Logout(ctx context.Context, staffID int64, jti string) error {
	if err := s.sessions.InvalidateSession(ctx, staffID, jti); err != nil {
		return err
	}

	s.logger.Info("staff logged out", zap.Int64("staff_id", staffID))
	return nil
}

// LogoutAll revokes every session the staff member holds.
func (s *AuthService) LogoutAll(ctx context.Context, staffID int64) error {
	if err := s.sessions.InvalidateAllSessions(ctx, staffID); err != nil {
		return err
	}

	s.logger.Info("all staff sessions revoked", zap.Int64("staff_id", staffID))
	return nil
}

// CreateStaff registers a new admin account. Callers enforce that only
// super admins reach this.
func (s *AuthService) CreateStaff(ctx context.Context, req *staff.CreateStaffRequest) (*staff.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = staff.RoleAdmin
	}

	member := &staff.Staff{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.staffRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("staff account created",
		zap.Int64("staff_id", member.ID),
		zap.String("email", member.Email),
		zap.String("role", member.Role),
	)

	return member, nil
}

// ListStaff lists all staff accounts.
func (s *AuthService) ListStaff(ctx context.Context) ([]staff.Staff, error) {
	return s.staffRepo.List(ctx)
}

// SetStaffActive enables or disables an account, revoking sessions on
// disable.
func (s *AuthService) SetStaffActive(ctx context.Context, id int64, active bool) error {
	if err := s.staffRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	if !active {
		if err := s.sessions.InvalidateAllSessions(ctx, id); err != nil {
			s.logger.Warn("failed to revoke sessions of disabled account",
				zap.Int64("staff_id", id),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ChangePassword verifies the current password, replaces it, and revokes
// every other session.
func (s *AuthService) ChangePassword(ctx context.Context, staffID int64, req *staff.ChangePasswordRequest) error {
	member, err := s.staffRepo.FindByID(ctx, staffID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.staffRepo.UpdatePassword(ctx, staffID, string(hash)); err != nil {
		return err
	}

	if err := s.sessions.InvalidateAllSessions(ctx, staffID); err != nil {
		s.logger.Warn("failed to revoke sessions after password change",
			zap.Int64("staff_id", staffID),
			zap.Error(err),
		)
	}

	s.logger.Info("password changed", zap.Int64("staff_id", staffID))
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// BootstrapSuperAdmin creates the initial super admin account when none
// exists under the configured email. No-op when the account is present or
// no password is configured.
func (s *AuthService) BootstrapSuperAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.CreateStaff(ctx, &staff.CreateStaffRequest{
		Email:    email,
		Password: password,
		FullName: name,
		Role:     staff.RoleSuperAdmin,
	})
	if errors.Is(err, xerrors.ErrConflict) {
		return nil
	}
	return err
}
