package storage

import (
	"context"
	"sync"

	"github.com/treasury-reporter/internal/models"
)

// MemoryAccessStore keeps the registries in process memory, guarded by a
// single RWMutex. It is the default backend when Redis is not configured:
// registrations then last only for the life of the process.
type MemoryAccessStore struct {
	mu          sync.RWMutex
	users       map[string]models.AuthorizedUser
	subscribers map[string]models.Subscriber
}

// NewMemoryAccessStore creates an in-memory registry store
func NewMemoryAccessStore() *MemoryAccessStore {
	return &MemoryAccessStore{
		users:       make(map[string]models.AuthorizedUser),
		subscribers: make(map[string]models.Subscriber),
	}
}

// GetUser returns the authorized user for a chat id, or nil when the
// identity has never registered
func (s *MemoryAccessStore) GetUser(_ context.Context, chatID string) (*models.AuthorizedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[chatID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// PutUser stores an authorized user
func (s *MemoryAccessStore) PutUser(_ context.Context, user *models.AuthorizedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ChatID] = *user
	return nil
}

// DeleteUser removes an authorized user
func (s *MemoryAccessStore) DeleteUser(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, chatID)
	return nil
}

// AddSubscriber registers a broadcast recipient
func (s *MemoryAccessStore) AddSubscriber(_ context.Context, sub models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers[sub.ChatID] = sub
	return nil
}

// RemoveSubscriber drops a broadcast recipient
func (s *MemoryAccessStore) RemoveSubscriber(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subscribers, chatID)
	return nil
}

// ListSubscribers returns every broadcast recipient
func (s *MemoryAccessStore) ListSubscribers(_ context.Context) ([]models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]models.Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	return subs, nil
}
