package sessions

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cenkokut62/sagaplus/pricing"
)

var testHub = pricing.Product{
	ID: "hub1", Name: "Hub", Category: pricing.CategoryPremium, Type: pricing.TypePackage,
	Price: pricing.Money(300), HubCompatible: true,
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s, err := store.Create(ctx, "user1", pricing.CategoryPremium, "visit1")
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.True(t, s.Flags.VisitFlow)
		assert.Empty(t, s.Selection.Peripherals)

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "user1", got.Owner)
		assert.Equal(t, pricing.CategoryPremium, got.Line)
		assert.Equal(t, "visit1", got.VisitID)
	})

	t.Run("save round trips the selection", func(t *testing.T) {
		s, err := store.Create(ctx, "user1", pricing.CategoryPremium, "")
		require.NoError(t, err)
		assert.False(t, s.Flags.VisitFlow)

		s.Selection, err = s.Selection.SelectPackage(testHub, pricing.VariantNone)
		require.NoError(t, err)
		s.Flags.CampaignApplied = true
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Selection, got.Selection)
		assert.True(t, got.Flags.CampaignApplied)
		assert.Equal(t, s.Breakdown(), got.Breakdown())
	})

	t.Run("unknown ids", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Save(ctx, &Session{ID: "missing"}), ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, s.ID))
		_, err = store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("take removes the session once", func(t *testing.T) {
		s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "visit1")
		require.NoError(t, err)

		taken, err := store.Take(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, taken.ID)
		assert.Equal(t, "visit1", taken.VisitID)

		_, err = store.Take(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Restore(ctx, taken))
		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, taken.Selection, got.Selection)
	})

	t.Run("concurrent take has one winner", func(t *testing.T) {
		s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
		require.NoError(t, err)

		const callers = 8
		var wg sync.WaitGroup
		var winners atomic.Int32
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Take(ctx, s.ID); err == nil {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), winners.Load())
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		_, err := store.Create(ctx, "user1", "gold", "")
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	require.NoError(t, store.Save(ctx, s), "save refreshes the ttl")

	now = now.Add(59 * time.Minute)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	_, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	_, err = store.Create(ctx, "user1", pricing.CategoryStandard, "")
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, err := store.Create(ctx, "user1", pricing.CategoryPremium, "")
	require.NoError(t, err)
	s.Selection, err = s.Selection.SelectPackage(testHub, pricing.VariantNone)
	require.NoError(t, err)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Selection.HasPackage(), "unsaved changes must not leak into the store")
}

func TestMemoryStore_SaveDoesNotResurrectDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	for range 200 {
		s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, s)
		}()
		go func() {
			defer wg.Done()
			_ = store.Delete(ctx, s.ID)
		}()
		wg.Wait()

		_, err = store.Get(ctx, s.ID)
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_TakeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	s, err := store.Create(ctx, "user1", pricing.CategoryStandard, "")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = store.Take(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := DialRedis(ctx, &redis.Options{Addr: addr}, 5*time.Second)
	require.NoError(t, err)
	defer client.Close()

	exerciseStore(t, NewRedisStore(client, time.Minute))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "quote:abc", sessionKey("abc"))
}
