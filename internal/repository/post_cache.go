// Package repository provides an optional on-disk cache for fetched post
// sets, so reopening a session for a large account does not redo the
// whole paginated fetch.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iconidentify/archivelens/internal/domain"
)

// PostCache stores complete post histories keyed by account, with a TTL.
type PostCache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*PostCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS post_sets (
			account_id TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL,
			posts TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &PostCache{db: db, ttl: ttl, logger: logger}, nil
}

// Close closes the underlying database.
func (c *PostCache) Close() error {
	return c.db.Close()
}

// Get returns the cached post set for an account. ok is false on a miss
// or when the entry has outlived the TTL.
func (c *PostCache) Get(ctx context.Context, account domain.AccountID) ([]domain.Post, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT fetched_at, posts FROM post_sets WHERE account_id = ?`, string(account))

	var fetchedAt int64
	var raw string
	if err := row.Scan(&fetchedAt, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache: %w", err)
	}

	if c.ttl > 0 && time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false, nil
	}

	var posts []domain.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the
		// next Put.
		c.logger.Warn("discarding corrupt cache entry", "account", account, "error", err)
		return nil, false, nil
	}
	return posts, true, nil
}

// Put stores an account's post set, replacing any previous entry.
func (c *PostCache) Put(ctx context.Context, account domain.AccountID, posts []domain.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO post_sets(account_id, fetched_at, posts) VALUES(?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			posts = excluded.posts
	`, string(account), time.Now().Unix(), string(raw))
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Fetcher retrieves an account's complete post history.
type Fetcher interface {
	AllPosts(ctx context.Context, account domain.AccountID, expectedTotal int, progress func(fetched, total int)) ([]domain.Post, error)
}

// CachingFetcher consults the cache before the archive. Cache failures
// fall through to a live fetch; a stale or missing entry is refreshed
// after the fetch succeeds.
type CachingFetcher struct {
	cache   *PostCache
	fetcher Fetcher
	logger  *slog.Logger
}

func NewCachingFetcher(cache *PostCache, fetcher Fetcher, logger *slog.Logger) *CachingFetcher {
	return &CachingFetcher{cache: cache, fetcher: fetcher, logger: logger}
}

func (f *CachingFetcher) AllPosts(ctx context.Context, account domain.AccountID, expectedTotal int, progress func(fetched, total int)) ([]domain.Post, error) {
	posts, ok, err := f.cache.Get(ctx, account)
	if err != nil {
		f.logger.Warn("post cache read failed", "account", account, "error", err)
	}
	if ok {
		if progress != nil {
			progress(len(posts), expectedTotal)
		}
		return posts, nil
	}

	posts, err = f.fetcher.AllPosts(ctx, account, expectedTotal, progress)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Put(ctx, account, posts); err != nil {
		f.logger.Warn("post cache write failed", "account", account, "error", err)
	}
	return posts, nil
}
