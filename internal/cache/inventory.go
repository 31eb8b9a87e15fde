package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	AdventureKeyPrefix = "adventure:%d"
)

const (
	UserTTL      = 5 * time.Minute
	AdventureTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func AdventureKey(adventureID uint) string {
	return fmt.Sprintf(AdventureKeyPrefix, adventureID)
}

// Get returns the cached value for key, or "" when absent or when caching is
// disabled.
func Get(ctx context.Context, key string) string {
	if client == nil {
		return ""
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a value best-effort; failures are absorbed by the metrics hook.
func Set(ctx context.Context, key, value string, ttl time.Duration) {
	if client != nil {
		client.Set(ctx, key, value, ttl)
	}
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateAdventure(ctx context.Context, adventureID uint) {
	Invalidate(ctx, AdventureKey(adventureID))
}
