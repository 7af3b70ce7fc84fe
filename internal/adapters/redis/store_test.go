package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgraph/mealgraph/internal/adapters/redis"
	"github.com/mealgraph/mealgraph/pkg/domain"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestStore_SaveLoadDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	pc := domain.PriorContext{
		Candidates: []domain.FoodSummary{{ID: 1, Name: "Rolled Oats", Brand: "Generic"}},
		Selected:   &domain.FoodSummary{ID: 1, Name: "Rolled Oats", Brand: "Generic"},
	}
	require.NoError(t, store.Save(ctx, 1, pc))

	loaded, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, pc, loaded)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Load(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestStore_MissingUserIsNotFound(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Load(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestStore_UsersAreIsolated(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, domain.PriorContext{
		Candidates: []domain.FoodSummary{{ID: 1, Name: "Rolled Oats"}},
	}))

	_, err := store.Load(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestStore_EntriesExpire(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, domain.PriorContext{
		Candidates: []domain.FoodSummary{{ID: 1, Name: "Rolled Oats"}},
	}))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}
