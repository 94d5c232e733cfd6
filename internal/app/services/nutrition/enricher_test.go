package nutrition

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func countingProvider(response string, failWith error, calls *int32) Provider {
	return ProviderFunc(func(_ context.Context, _ string) (string, error) {
		atomic.AddInt32(calls, 1)
		if failWith != nil {
			return "", failWith
		}
		return response, nil
	})
}

func TestResolveCachesAIResult(t *testing.T) {
	var calls int32
	provider := countingProvider(`{"foods":[{"name":"poulet","calories":239}],"meal_calories":239}`, nil, &calls)
	e := NewEnricher(NewMemoryCache(), provider, nil, nil)

	first := e.Resolve(context.Background(), "Poulet ")
	second := e.Resolve(context.Background(), "poulet")

	if calls != 1 {
		t.Fatalf("expected 1 provider call for equivalent texts, got %d", calls)
	}
	if first.MealCalories != 239 || second.MealCalories != 239 {
		t.Errorf("expected 239 from both resolutions, got %v and %v", first.MealCalories, second.MealCalories)
	}
}

func TestResolveFallsBackWhenProviderFails(t *testing.T) {
	var calls int32
	provider := countingProvider("", errors.New("provider down"), &calls)
	e := NewEnricher(NewMemoryCache(), provider, nil, nil)

	b := e.Resolve(context.Background(), "poulet, riz")
	if b.MealCalories != 369 {
		t.Fatalf("expected local fallback total 369, got %v", b.MealCalories)
	}
}

func TestResolveNeverCachesFallback(t *testing.T) {
	var calls int32
	provider := countingProvider("", errors.New("provider down"), &calls)
	cache := NewMemoryCache()
	e := NewEnricher(cache, provider, nil, nil)

	e.Resolve(context.Background(), "poulet")
	if _, ok, _ := cache.Get(context.Background(), CacheKey("poulet")); ok {
		t.Fatal("fallback result must not be cached")
	}

	e.Resolve(context.Background(), "poulet")
	if calls != 2 {
		t.Fatalf("expected provider retried on every call, got %d calls", calls)
	}
}

func TestResolveFallsBackOnUnusableAIOutput(t *testing.T) {
	var calls int32
	provider := countingProvider("I cannot analyze this meal.", nil, &calls)
	e := NewEnricher(nil, provider, nil, nil)

	b := e.Resolve(context.Background(), "riz")
	if b.MealCalories != 130 {
		t.Fatalf("expected local estimate 130, got %v", b.MealCalories)
	}
}

func TestResolveSkipsUndecodableCacheEntry(t *testing.T) {
	cache := NewMemoryCache()
	if err := cache.SetEx(context.Background(), CacheKey("poulet"), "{not json", time.Hour); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	var calls int32
	provider := countingProvider(`{"foods":[{"name":"poulet","calories":239}],"meal_calories":239}`, nil, &calls)
	e := NewEnricher(cache, provider, nil, nil)

	b := e.Resolve(context.Background(), "poulet")
	if calls != 1 {
		t.Fatalf("expected provider consulted past the bad entry, got %d calls", calls)
	}
	if b.MealCalories != 239 {
		t.Errorf("expected 239, got %v", b.MealCalories)
	}
}

func TestResolveWithoutCacheOrProvider(t *testing.T) {
	e := NewEnricher(nil, nil, nil, nil)

	b := e.Resolve(context.Background(), "banane")
	if b.MealCalories != 105 {
		t.Fatalf("expected 105, got %v", b.MealCalories)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	if CacheKey("  Poulet Riz ") != "meal_cache:poulet riz" {
		t.Fatalf("unexpected key %q", CacheKey("  Poulet Riz "))
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	base := time.Now()
	cache.now = func() time.Time { return base }

	if err := cache.SetEx(context.Background(), "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := cache.Get(context.Background(), "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	cache.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok, _ := cache.Get(context.Background(), "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestResolveConcurrentSameKey(t *testing.T) {
	var calls int32
	provider := countingProvider(`{"foods":[{"name":"riz","calories":130}],"meal_calories":130}`, nil, &calls)
	e := NewEnricher(NewMemoryCache(), provider, nil, nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			if b := e.Resolve(context.Background(), "riz"); b.MealCalories != 130 {
				t.Errorf("unexpected total %v", b.MealCalories)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	// Concurrent misses may each call the provider; last write wins and the
	// cached value is identical either way.
	if got, ok, _ := e.cache.Get(context.Background(), CacheKey("riz")); !ok {
		t.Fatal("expected cached entry after concurrent resolution")
	} else if got == "" {
		t.Fatal("empty cached entry")
	}
}
