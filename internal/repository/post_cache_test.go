package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/iconidentify/archivelens/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestCache(t *testing.T, ttl time.Duration) *PostCache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl, testLogger())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func cachePosts() []domain.Post {
	return []domain.Post{
		{ID: "1", AccountID: "42", Text: "hello", Favorites: 3},
		{ID: "2", AccountID: "42", Text: "world", Retweets: 1},
	}
}

func TestPostCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "42"); err != nil || ok {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(ctx, "42", cachePosts()); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := cache.Get(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].Text != "world" {
		t.Errorf("unexpected posts: %+v", got)
	}
}

func TestPostCacheReplaces(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	ctx := context.Background()

	if err := cache.Put(ctx, "42", cachePosts()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Put(ctx, "42", cachePosts()[:1]); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, ok, err := cache.Get(ctx, "42")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 {
		t.Errorf("expected the replacement entry, got %d posts", len(got))
	}
}

func TestPostCacheTTL(t *testing.T) {
	cache := openTestCache(t, time.Nanosecond)
	ctx := context.Background()

	if err := cache.Put(ctx, "42", cachePosts()); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok, err := cache.Get(ctx, "42"); err != nil || ok {
		t.Fatalf("expired entry should miss, got ok=%v err=%v", ok, err)
	}
}

type countingFetcher struct {
	calls int
	posts []domain.Post
}

func (f *countingFetcher) AllPosts(_ context.Context, _ domain.AccountID, total int, progress func(fetched, total int)) ([]domain.Post, error) {
	f.calls++
	if progress != nil {
		progress(len(f.posts), total)
	}
	return f.posts, nil
}

func TestCachingFetcher(t *testing.T) {
	cache := openTestCache(t, time.Hour)
	inner := &countingFetcher{posts: cachePosts()}
	fetcher := NewCachingFetcher(cache, inner, testLogger())
	ctx := context.Background()

	posts, err := fetcher.AllPosts(ctx, "42", 2, nil)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if len(posts) != 2 || inner.calls != 1 {
		t.Fatalf("expected a live fetch, got %d posts after %d calls", len(posts), inner.calls)
	}

	var progressed bool
	posts, err = fetcher.AllPosts(ctx, "42", 2, func(fetched, total int) { progressed = true })
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected a cache hit, inner fetcher was called %d times", inner.calls)
	}
	if len(posts) != 2 || !progressed {
		t.Errorf("cache hit should report full progress, posts=%d progressed=%v", len(posts), progressed)
	}
}
