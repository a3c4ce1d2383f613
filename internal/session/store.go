// Package session keeps server-side login sessions. The cookie only carries
// a signed pointer to a session record; the record is authoritative.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no live session record exists
var ErrNotFound = errors.New("session not found")

// Store persists session records
type Store interface {
	Save(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// DBStore keeps sessions in the sessions table
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a DBStore
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Save(ctx context.Context, sess *domain.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *DBStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Session{}).Error
}

// PurgeExpired deletes records that expired before now and reports how many went
func (s *DBStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}

// RedisStore keeps sessions as JSON values expiring with the session
type RedisStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

// NewRedisStore creates a RedisStore
func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func redisKey(id string) string { return "session:" + id }

func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}
	return utils.SetCache(ctx, s.rdb, redisKey(sess.ID), sess, ttl)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	found, err := utils.GetCache(ctx, s.rdb, redisKey(id), &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return utils.DeleteCache(ctx, s.rdb, redisKey(id))
}
