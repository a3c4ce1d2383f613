package session

import (
	"context"
	"errors"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserLookup resolves the user behind a session
type UserLookup interface {
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// Manager issues, resolves and ends sessions
type Manager struct {
	store  Store
	users  UserLookup
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager issuing sessions valid for ttl
func NewManager(store Store, users UserLookup, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, users: users, secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of a new session
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start records a new session for user and returns the signed cookie value
func (m *Manager) Start(ctx context.Context, user *domain.User) (string, *domain.Session, error) {
	return m.start(ctx, user, user.Role == domain.RoleDemo)
}

// StartDemo records a read-only session for user whatever its role
func (m *Manager) StartDemo(ctx context.Context, user *domain.User) (string, *domain.Session, error) {
	return m.start(ctx, user, true)
}

func (m *Manager) start(ctx context.Context, user *domain.User, demo bool) (string, *domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Demo:      demo,
		ExpiresAt: m.now().Add(m.ttl).UTC(),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", nil, domain.StoreFailure("Failed to start session", err)
	}
	token, err := utils.GenerateSessionToken(sess.ID, sess.UserID, sess.ExpiresAt, m.secret)
	if err != nil {
		return "", nil, domain.StoreFailure("Failed to sign session", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "demo": sess.Demo}).Info("Session started")
	return token, sess, nil
}

// Resolve maps a cookie value to its live session. Any failure is UNAUTHORIZED
// except store errors. A session whose user was deleted is destroyed.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.Unauthorized("Unauthorized")
	}
	claims, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return nil, domain.Unauthorized("Invalid or expired session")
	}
	sess, err := m.store.Get(ctx, claims.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.Unauthorized("Invalid or expired session")
	}
	if err != nil {
		return nil, domain.StoreFailure("Failed to load session", err)
	}
	if sess.UserID != claims.UserID || sess.Expired(m.now()) {
		return nil, domain.Unauthorized("Invalid or expired session")
	}

	// The user may have been removed since login
	if _, err := m.users.Get(ctx, sess.UserID); err != nil {
		if !domain.IsCode(err, domain.CodeNotFound) {
			return nil, err
		}
		if err := m.store.Delete(ctx, sess.ID); err != nil {
			logrus.WithError(err).Warn("Failed to delete orphaned session")
		}
		return nil, domain.Unauthorized("User no longer exists")
	}
	return sess, nil
}

// End deletes the session named by token. Unknown or invalid tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, claims.ID); err != nil {
		return domain.StoreFailure("Failed to end session", err)
	}
	return nil
}
