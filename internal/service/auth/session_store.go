// internal/service/auth/session_store.go
package auth

import (
	"context"
	"database/sql"

	xerrors "mobiwash-service/internal/pkg/errors"
	"mobiwash-service/internal/pkg/session"
)

// sessionStore adapts the staff repository to the session manager's view of
// the durable session log.
type sessionStore struct {
	repo StaffRepo
}

func NewSessionStore(repo StaffRepo) session.SessionStore {
	return &sessionStore{repo: repo}
}

func (s *sessionStore) FindSessionData(ctx context.Context, jti string) (*session.SessionData, error) {
	rec, err := s.repo.FindSessionByJTI(ctx, jti)
	if err != nil {
		return nil, err
	}
	if rec.RevokedAt.Valid {
		return nil, xerrors.ErrSessionExpired
	}

	member, err := s.repo.FindByID(ctx, rec.StaffID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, xerrors.ErrForbidden
	}

	return &session.SessionData{
		JTI:            rec.JTI,
		StaffID:        rec.StaffID,
		SessionID:      rec.ID,
		Email:          member.Email,
		Role:           member.Role,
		IPAddress:      stringFromNull(rec.IPAddress),
		UserAgent:      stringFromNull(rec.UserAgent),
		LoginAt:        rec.LoginAt,
		LastActivityAt: rec.LoginAt,
		ExpiresAt:      rec.ExpiresAt,
	}, nil
}

func (s *sessionStore) RevokeByJTI(ctx context.Context, jti string) error {
	return s.repo.RevokeSession(ctx, jti)
}

func (s *sessionStore) RevokeAllForStaff(ctx context.Context, staffID int64) ([]string, error) {
	return s.repo.RevokeAllSessions(ctx, staffID)
}

func stringFromNull(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
