package service

import (
	"context"
	"strings"
	"time"

	"github.com/treasury-reporter/internal/config"
	apperrors "github.com/treasury-reporter/internal/errors"
	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

// RegistryStore is the injected backend for the authorized-identity and
// subscriber registries. GetUser returns (nil, nil) for an identity that
// never registered. Implementations must tolerate concurrent use.
type RegistryStore interface {
	GetUser(ctx context.Context, chatID string) (*models.AuthorizedUser, error)
	PutUser(ctx context.Context, user *models.AuthorizedUser) error
	DeleteUser(ctx context.Context, chatID string) error
	AddSubscriber(ctx context.Context, sub models.Subscriber) error
	RemoveSubscriber(ctx context.Context, chatID string) error
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// AccessService is the gate between chat identities and reports. It holds
// no report logic; reports require a prior Authorize and nothing else.
type AccessService struct {
	store   RegistryStore
	allowed map[string]bool
	admins  map[string]bool
	now     func() time.Time
}

// NewAccessService creates the access gate from the configured allow-list
func NewAccessService(store RegistryStore, cfg *config.AccessConfig) *AccessService {
	allowed := make(map[string]bool, len(cfg.AllowedEmails))
	for _, email := range cfg.AllowedEmails {
		allowed[strings.ToLower(email)] = true
	}
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[strings.ToLower(email)] = true
	}

	return &AccessService{
		store:   store,
		allowed: allowed,
		admins:  admins,
		now:     time.Now,
	}
}

// Register maps a chat identity to an allow-listed email. The email check
// is case-insensitive; admins are the subset named on the admin list.
func (s *AccessService) Register(ctx context.Context, chatID, email string) (*models.AuthorizedUser, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !s.allowed[normalized] {
		return nil, apperrors.NewForbiddenEmailError(normalized)
	}

	role := types.RoleOperator
	if s.admins[normalized] {
		role = types.RoleAdmin
	}

	user := &models.AuthorizedUser{
		ChatID:       chatID,
		Email:        normalized,
		Role:         role,
		RegisteredAt: s.now().UTC(),
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		return nil, apperrors.NewStoreError("register user", err)
	}
	return user, nil
}

// Authorize resolves a chat identity to its authorization record
func (s *AccessService) Authorize(ctx context.Context, chatID string) (*models.AuthorizedUser, error) {
	user, err := s.store.GetUser(ctx, chatID)
	if err != nil {
		return nil, apperrors.NewStoreError("authorize user", err)
	}
	if user == nil {
		return nil, apperrors.NewUnauthorizedError(chatID)
	}
	return user, nil
}

// Revoke removes a chat identity's authorization and its subscription.
// Admin-only at the call sites.
func (s *AccessService) Revoke(ctx context.Context, chatID string) error {
	if err := s.store.DeleteUser(ctx, chatID); err != nil {
		return apperrors.NewStoreError("revoke user", err)
	}
	if err := s.store.RemoveSubscriber(ctx, chatID); err != nil {
		return apperrors.NewStoreError("revoke subscription", err)
	}
	return nil
}

// Subscribe registers an authorized chat identity for scheduled broadcasts
func (s *AccessService) Subscribe(ctx context.Context, chatID string) error {
	if _, err := s.Authorize(ctx, chatID); err != nil {
		return err
	}

	sub := models.Subscriber{ChatID: chatID, SubscribedAt: s.now().UTC()}
	if err := s.store.AddSubscriber(ctx, sub); err != nil {
		return apperrors.NewStoreError("subscribe", err)
	}
	return nil
}

// Unsubscribe drops a broadcast recipient. The broadcast loop also calls
// this when a recipient turns out to be unreachable.
func (s *AccessService) Unsubscribe(ctx context.Context, chatID string) error {
	if err := s.store.RemoveSubscriber(ctx, chatID); err != nil {
		return apperrors.NewStoreError("unsubscribe", err)
	}
	return nil
}

// Subscribers returns every broadcast recipient
func (s *AccessService) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	subs, err := s.store.ListSubscribers(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list subscribers", err)
	}
	return subs, nil
}
