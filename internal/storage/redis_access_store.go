package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/treasury-reporter/internal/models"
)

const (
	userKeyPrefix  = "access:user:"
	subscribersKey = "access:subscribers"
)

// RedisAccessStore keeps the authorized-identity and subscriber registries
// in Redis so registrations survive a process restart. Authorized users are
// JSON values under access:user:<chatID>; subscribers live in one hash keyed
// by chat id.
type RedisAccessStore struct {
	redis *RedisClient
}

// NewRedisAccessStore creates a Redis-backed registry store
func NewRedisAccessStore(redis *RedisClient) *RedisAccessStore {
	return &RedisAccessStore{redis: redis}
}

// GetUser returns the authorized user for a chat id, or nil when the
// identity has never registered
func (s *RedisAccessStore) GetUser(ctx context.Context, chatID string) (*models.AuthorizedUser, error) {
	raw, err := s.redis.Client().Get(ctx, userKeyPrefix+chatID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", chatID, err)
	}

	var user models.AuthorizedUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", chatID, err)
	}
	return &user, nil
}

// PutUser stores an authorized user
func (s *RedisAccessStore) PutUser(ctx context.Context, user *models.AuthorizedUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user %s: %w", user.ChatID, err)
	}

	if err := s.redis.Client().Set(ctx, userKeyPrefix+user.ChatID, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to put user %s: %w", user.ChatID, err)
	}
	return nil
}

// DeleteUser removes an authorized user
func (s *RedisAccessStore) DeleteUser(ctx context.Context, chatID string) error {
	if err := s.redis.Client().Del(ctx, userKeyPrefix+chatID).Err(); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", chatID, err)
	}
	return nil
}

// AddSubscriber registers a broadcast recipient
func (s *RedisAccessStore) AddSubscriber(ctx context.Context, sub models.Subscriber) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscriber %s: %w", sub.ChatID, err)
	}

	if err := s.redis.Client().HSet(ctx, subscribersKey, sub.ChatID, raw).Err(); err != nil {
		return fmt.Errorf("failed to add subscriber %s: %w", sub.ChatID, err)
	}
	return nil
}

// RemoveSubscriber drops a broadcast recipient. Removing an unknown chat id
// is not an error; the broadcast loop may race with a manual unsubscribe.
func (s *RedisAccessStore) RemoveSubscriber(ctx context.Context, chatID string) error {
	if err := s.redis.Client().HDel(ctx, subscribersKey, chatID).Err(); err != nil {
		return fmt.Errorf("failed to remove subscriber %s: %w", chatID, err)
	}
	return nil
}

// ListSubscribers returns every broadcast recipient
func (s *RedisAccessStore) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	raw, err := s.redis.Client().HGetAll(ctx, subscribersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	subs := make([]models.Subscriber, 0, len(raw))
	for chatID, value := range raw {
		var sub models.Subscriber
		if err := json.Unmarshal([]byte(value), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal subscriber %s: %w", chatID, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
