// Package cache holds the small JSON key/value contract used for visitor
// sessions and taxonomy snapshots.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON documents under string keys. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)

// Key joins parts with ':', e.g. Key("session", id) is "session:<id>".
func Key(parts ...string) string { return strings.Join(parts, ":") }
