// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type block struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	mem := NewMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	tc := NewTyped[[]block](mem, "content", time.Minute)

	calls := 0
	load := func(context.Context) ([]block, error) {
		calls++
		return []block{{Key: "headline", Value: "Stop Paying for Promises."}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := tc.GetOrLoad(ctx, "hero", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if len(got) != 1 || got[0].Key != "headline" {
			t.Fatalf("GetOrLoad = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	if err := tc.Invalidate(ctx, "hero"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := tc.GetOrLoad(ctx, "hero", load); err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if calls != 2 {
		t.Errorf("loader called %d times after invalidate, want 2", calls)
	}
}

func TestTyped_LoaderErrorNotCached(t *testing.T) {
	mem := NewMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	tc := NewTyped[string](mem, "content", time.Minute)
	boom := errors.New("boom")

	if _, err := tc.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("GetOrLoad error = %v, want boom", err)
	}
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Error("failed load must not be cached")
	}
}

func TestTyped_InvalidateAll(t *testing.T) {
	mem := NewMemoryCache(time.Hour, 0)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	a := NewTyped[string](mem, "content", time.Minute)
	b := NewTyped[string](mem, "testimonials", time.Minute)
	_ = a.Set(ctx, "hero", "x")
	_ = a.Set(ctx, "about", "y")
	_ = b.Set(ctx, "visible", "z")

	if err := a.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	if _, ok := a.Get(ctx, "hero"); ok {
		t.Error("hero should be invalidated")
	}
	if _, ok := b.Get(ctx, "visible"); !ok {
		t.Error("other namespace must be untouched")
	}
}
