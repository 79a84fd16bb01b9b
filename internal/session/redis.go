package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

const keyPrefix = "fusion-ai"

// RedisStore keeps sessions as JSON documents that expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) buildKey(elements ...string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, strings.Join(elements, ":"))
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	key := s.buildKey("session", id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		s.logger.WithError(err).WithField("key", key).Error("Failed to get session")
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to unmarshal session")
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := s.buildKey("session", sess.ID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to save session")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": s.ttl.String(),
	}).Debug("Saved session")
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key := s.buildKey("session", id)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to delete session")
		return err
	}
	return nil
}

// Len counts session keys with SCAN.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.buildKey("session", "*"), 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
