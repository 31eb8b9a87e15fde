package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client = nil })
	return mr
}

func TestAside(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()
	key := UserKey(7)

	loads := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			loads++
			*dest = cachedUser{ID: 7, Username: "alice"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, key, &first, UserTTL, load(&first)))
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists(key))

	// Second read is served from the cache
	var second cachedUser
	require.NoError(t, Aside(ctx, key, &second, UserTTL, load(&second)))
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, 1, loads)
}

func TestAside_CorruptEntryFallsThrough(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()
	key := UserKey(7)
	require.NoError(t, mr.Set(key, "{not json"))

	loads := 0
	var user cachedUser
	require.NoError(t, Aside(ctx, key, &user, UserTTL, func() error {
		loads++
		user = cachedUser{ID: 7, Username: "alice"}
		return nil
	}))
	assert.Equal(t, 1, loads)
	assert.Equal(t, "alice", user.Username)
}

func TestAside_NilClientBypasses(t *testing.T) {
	client = nil
	loads := 0
	var user cachedUser
	require.NoError(t, Aside(context.Background(), UserKey(7), &user, time.Minute, func() error {
		loads++
		return nil
	}))
	assert.Equal(t, 1, loads)
}

func TestInvalidate(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	Set(ctx, AdventureKey(3), "cached", AdventureTTL)
	assert.Equal(t, "cached", Get(ctx, AdventureKey(3)))

	InvalidateAdventure(ctx, 3)
	assert.False(t, mr.Exists(AdventureKey(3)))
	assert.Empty(t, Get(ctx, AdventureKey(3)))
}
