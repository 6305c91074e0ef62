// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is the durable side of the session log. Redis is the hot
// copy; the store is consulted on redis misses and when revoking.
type SessionStore interface {
	FindSessionData(ctx context.Context, jti string) (*SessionData, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllForStaff(ctx context.Context, staffID int64) ([]string, error)
}

type Manager struct {
	client *redis.Client
	store  SessionStore
}

func NewManager(client *redis.Client, store SessionStore) *Manager {
	return &Manager{
		client: client,
		store:  store,
	}
}

// CreateSession stores a new session in Redis
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	key := m.sessionKey(session.StaffID, session.JTI)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// GetSession retrieves a session from Redis with DB fallback
func (m *Manager) GetSession(ctx context.Context, staffID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(staffID, jti)

	// Try Redis first (fast path)
	data, err := m.client.Get(ctx, key).Bytes()
	if err == nil {
		var session SessionData
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return &session, nil
	}

	if err != redis.Nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}

	// Redis miss - fall back to the durable log
	session, err := m.store.FindSessionData(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if session.StaffID != staffID {
		return nil, fmt.Errorf("session identity mismatch")
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}

	// Restore to Redis for next time
	go m.restoreToRedis(context.Background(), session)

	return session, nil
}

// InvalidateSession removes a session from Redis and revokes it in the log.
func (m *Manager) InvalidateSession(ctx context.Context, staffID int64, jti string) error {
	key := m.sessionKey(staffID, jti)

	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}

	return m.store.RevokeByJTI(ctx, jti)
}

// InvalidateAllSessions revokes every session for a staff member.
func (m *Manager) InvalidateAllSessions(ctx context.Context, staffID int64) error {
	jtis, err := m.store.RevokeAllForStaff(ctx, staffID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	for _, jti := range jtis {
		if err := m.client.Del(ctx, m.sessionKey(staffID, jti)).Err(); err != nil {
			return fmt.Errorf("failed to delete session from redis: %w", err)
		}
	}

	return nil
}

func (m *Manager) sessionKey(staffID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", staffID, jti)
}

func (m *Manager) restoreToRedis(ctx context.Context, session *SessionData) {
	_ = m.CreateSession(ctx, session)
}
