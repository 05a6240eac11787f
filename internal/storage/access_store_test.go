package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treasury-reporter/internal/models"
	"github.com/treasury-reporter/internal/types"
)

func newTestRedisStore(t *testing.T) *RedisAccessStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewRedisAccessStore(&RedisClient{client: client})
}

func TestRedisAccessStore_UserRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	got, err := store.GetUser(ctx, "chat-1")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown chat id should resolve to nil, not an error")

	user := &models.AuthorizedUser{
		ChatID:       "chat-1",
		Email:        "tesoreria@empresa.com.ar",
		Role:         types.RoleOperator,
		RegisteredAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.PutUser(ctx, user))

	got, err = store.GetUser(ctx, "chat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, types.RoleOperator, got.Role)

	require.NoError(t, store.DeleteUser(ctx, "chat-1"))

	got, err = store.GetUser(ctx, "chat-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisAccessStore_Subscribers(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	subs, err := store.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, store.AddSubscriber(ctx, models.Subscriber{ChatID: "chat-1"}))
	require.NoError(t, store.AddSubscriber(ctx, models.Subscriber{ChatID: "chat-2"}))
	// Re-adding the same chat id must not duplicate it
	require.NoError(t, store.AddSubscriber(ctx, models.Subscriber{ChatID: "chat-1"}))

	subs, err = store.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	require.NoError(t, store.RemoveSubscriber(ctx, "chat-1"))
	// Removing an unknown chat id is not an error
	require.NoError(t, store.RemoveSubscriber(ctx, "chat-99"))

	subs, err = store.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "chat-2", subs[0].ChatID)
}

func TestMemoryAccessStore_MatchesRedisBehavior(t *testing.T) {
	store := NewMemoryAccessStore()
	ctx := context.Background()

	got, err := store.GetUser(ctx, "chat-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.PutUser(ctx, &models.AuthorizedUser{
		ChatID: "chat-1",
		Email:  "gerencia@empresa.com.ar",
		Role:   types.RoleAdmin,
	}))

	got, err = store.GetUser(ctx, "chat-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.RoleAdmin, got.Role)

	require.NoError(t, store.AddSubscriber(ctx, models.Subscriber{ChatID: "chat-1"}))
	require.NoError(t, store.RemoveSubscriber(ctx, "chat-99"))

	subs, err := store.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
