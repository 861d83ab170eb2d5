// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Typed stores JSON-encoded values of T on top of a byte-level Cache.
type Typed[T any] struct {
	cache     Cache
	namespace string
	ttl       time.Duration
}

// NewTyped wraps c; every key is stored as namespace + ":" + key.
func NewTyped[T any](c Cache, namespace string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{cache: c, namespace: namespace, ttl: ttl}
}

func (t *Typed[T]) key(k string) string {
	return t.namespace + ":" + k
}

// Get returns the cached value and whether it was found.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := t.cache.Get(ctx, t.key(key))
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false
	}
	return value, true
}

// Set stores value under key.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, t.key(key), data, t.ttl)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Cache write failures are logged and do not fail the call.
func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := t.Get(ctx, key); ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := t.Set(ctx, key, value); err != nil {
		slog.Warn("failed to populate cache", "key", t.key(key), "error", err)
	}
	return value, nil
}

// Invalidate removes one key.
func (t *Typed[T]) Invalidate(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, t.key(key))
}

// InvalidateAll removes every key in the namespace.
func (t *Typed[T]) InvalidateAll(ctx context.Context) error {
	return t.cache.DeleteByPrefix(ctx, t.namespace+":")
}
