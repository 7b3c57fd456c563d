// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Valkey-backed cache for the serialized category
// forest. The tree is read on every public catalog request but changes
// only on admin writes, so cached JSON skips the database entirely
// between invalidations.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// treeKey is the Valkey key holding the serialized category forest.
	treeKey = "catalog:tree"

	// DefaultTreeTTL bounds staleness if an invalidation is ever missed.
	DefaultTreeTTL = 5 * time.Minute
)

// CatalogCache manages the cached category forest in Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetTree retrieves the cached category forest JSON. Returns false on miss.
func (c *CatalogCache) GetTree(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit")
	return val, true
}

// SetTree stores the serialized category forest with the configured TTL.
func (c *CatalogCache) SetTree(ctx context.Context, tree []byte) {
	if err := c.client.Set(ctx, treeKey, tree, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "error", err)
	}
}

// Invalidate drops the cached forest. Called after every category write.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
	}
	slog.Debug("catalog cache invalidated")
}
