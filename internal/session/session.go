// Package session holds per-account explorer state: the cached full post
// history, analysis reports derived from it, and the last search results.
// All history-backed features of one session share a single fetch.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iconidentify/archivelens/internal/analysis"
	"github.com/iconidentify/archivelens/internal/domain"
	"github.com/iconidentify/archivelens/internal/query"
)

const (
	wordReportSize  = 100
	emojiReportSize = 50
)

// Fetcher retrieves an account's complete post history.
type Fetcher interface {
	AllPosts(ctx context.Context, account domain.AccountID, expectedTotal int, progress func(fetched, total int)) ([]domain.Post, error)
}

// SortBy selects the key for ordering search results.
type SortBy string

const (
	SortNone     SortBy = "none"
	SortLikes    SortBy = "likes"
	SortRetweets SortBy = "retweets"
	SortDate     SortBy = "date"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	DirectionNone SortDirection = "none"
	DirectionAsc  SortDirection = "asc"
	DirectionDesc SortDirection = "desc"
)

// Progress is a snapshot of the history fetch.
type Progress struct {
	Fetched int  `json:"fetched"`
	Total   int  `json:"total"`
	Done    bool `json:"done"`
}

// Session is one account's explorer state. All methods are safe for
// concurrent use.
type Session struct {
	ID        string         `json:"session_id"`
	Account   domain.Account `json:"account"`
	CreatedAt time.Time      `json:"created_at"`

	logger  *slog.Logger
	fetcher Fetcher

	// ctx governs background work for the whole session; cancel fires
	// on Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	lastAccess  time.Time
	posts       []domain.Post
	loaded      bool
	inflight    *historyFetch
	fetchCancel context.CancelFunc
	fetched     int

	words  []analysis.WordCount
	emojis []analysis.EmojiCount

	lastQuery   string
	lastResults []domain.Post
}

func newSession(id string, account domain.Account, fetcher Fetcher, logger *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:         id,
		Account:    account,
		CreatedAt:  time.Now(),
		lastAccess: time.Now(),
		logger:     logger,
		fetcher:    fetcher,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// historyFetch is one single-flight fetch attempt. Its result fields
// are valid once done is closed.
type historyFetch struct {
	done  chan struct{}
	posts []domain.Post
	err   error
}

// Posts returns the account's full post history, fetching it on first
// use. Concurrent callers share one in-flight fetch. A cancelled or
// failed fetch leaves the session reusable: the next caller starts over.
func (s *Session) Posts(ctx context.Context) ([]domain.Post, error) {
	s.touch()

	s.mu.Lock()
	if s.loaded {
		posts := s.posts
		s.mu.Unlock()
		return posts, nil
	}
	if s.inflight == nil {
		s.startFetchLocked()
	}
	fetch := s.inflight
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-fetch.done:
	}

	if fetch.err != nil {
		return nil, fetch.err
	}
	return fetch.posts, nil
}

// startFetchLocked launches the single-flight history fetch. Caller
// holds s.mu.
func (s *Session) startFetchLocked() {
	fetch := &historyFetch{done: make(chan struct{})}
	s.inflight = fetch

	fetchCtx, fetchCancel := context.WithCancel(s.ctx)
	s.fetchCancel = fetchCancel

	go func() {
		defer fetchCancel()

		posts, err := s.fetcher.AllPosts(fetchCtx, s.Account.ID, s.Account.Posts, func(fetched, total int) {
			s.mu.Lock()
			s.fetched = fetched
			s.mu.Unlock()
		})
		fetch.posts = posts
		fetch.err = err

		s.mu.Lock()
		if err != nil {
			// Clear the single-flight slot so a later call retries.
			s.inflight = nil
			s.fetchCancel = nil
			s.mu.Unlock()
			if fetchCtx.Err() == nil {
				s.logger.Error("history fetch failed",
					"session", s.ID, "account", s.Account.Username, "error", err)
			}
			close(fetch.done)
			return
		}

		s.posts = posts
		s.loaded = true
		s.fetched = len(posts)
		s.fetchCancel = nil
		s.words = analysis.WordFrequencies(texts(posts), wordReportSize)
		s.emojis = analysis.EmojiFrequencies(texts(posts), emojiReportSize)
		s.mu.Unlock()

		s.logger.Info("history loaded",
			"session", s.ID, "account", s.Account.Username, "posts", len(posts))
		close(fetch.done)
	}()
}

// CancelFetch aborts an in-flight history fetch, if any. Cancellation is
// silent: nothing is reported, the session simply stays unloaded.
func (s *Session) CancelFetch() {
	s.mu.Lock()
	cancel := s.fetchCancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Progress reports how far the history fetch has come.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{Fetched: s.fetched, Total: s.Account.Posts, Done: s.loaded}
}

// WordReport returns the word-frequency report, waiting for the history
// fetch if necessary.
func (s *Session) WordReport(ctx context.Context) ([]analysis.WordCount, error) {
	if _, err := s.Posts(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.words, nil
}

// EmojiReport returns the emoji-frequency report, waiting for the
// history fetch if necessary.
func (s *Session) EmojiReport(ctx context.Context) ([]analysis.EmojiCount, error) {
	if _, err := s.Posts(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emojis, nil
}

// CachedWordReport returns the report without blocking, or
// domain.ErrReportNotReady while the history is still loading.
func (s *Session) CachedWordReport() ([]analysis.WordCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, domain.ErrReportNotReady
	}
	return s.words, nil
}

// CachedEmojiReport returns the report without blocking, or
// domain.ErrReportNotReady while the history is still loading.
func (s *Session) CachedEmojiReport() ([]analysis.EmojiCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, domain.ErrReportNotReady
	}
	return s.emojis, nil
}

// Ratios ranks engagement-ratio extremes over the full history.
func (s *Session) Ratios(ctx context.Context, limit int) (analysis.RatioExtremes, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return analysis.RatioExtremes{}, err
	}
	return analysis.Extremes(posts, limit), nil
}

// Search filters the cached history with a boolean query and sorts the
// matches. An empty query matches everything. Each search replaces the
// session's previous results.
func (s *Session) Search(ctx context.Context, rawQuery string, sortBy SortBy, direction SortDirection) ([]domain.Post, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return nil, err
	}

	var matches []domain.Post
	if rawQuery == "" {
		matches = append(matches, posts...)
	} else {
		for _, p := range posts {
			if query.Matches(p.Text, rawQuery) {
				matches = append(matches, p)
			}
		}
	}

	sortPosts(matches, sortBy, direction)

	s.mu.Lock()
	s.lastQuery = rawQuery
	s.lastResults = matches
	s.mu.Unlock()

	return matches, nil
}

// LastSearch returns the most recent search results.
func (s *Session) LastSearch() (string, []domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery, s.lastResults
}

func (s *Session) lastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// close cancels all background work for the session.
func (s *Session) close() {
	s.cancel()
}

func sortPosts(posts []domain.Post, sortBy SortBy, direction SortDirection) {
	if sortBy == SortNone || sortBy == "" || direction == DirectionNone || direction == "" {
		return
	}
	desc := direction == DirectionDesc

	var less func(a, b domain.Post) bool
	switch sortBy {
	case SortLikes:
		less = func(a, b domain.Post) bool { return a.Favorites < b.Favorites }
	case SortRetweets:
		less = func(a, b domain.Post) bool { return a.Retweets < b.Retweets }
	case SortDate:
		less = func(a, b domain.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if desc {
			return less(posts[j], posts[i])
		}
		return less(posts[i], posts[j])
	})
}

func texts(posts []domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Text
	}
	return out
}
