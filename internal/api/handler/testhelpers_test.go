package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/archivelens/internal/domain"
	"github.com/iconidentify/archivelens/internal/session"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockArchive is a test implementation of ArchiveService.
type mockArchive struct {
	accounts map[string]domain.Account
	top      []domain.Post
	err      error
}

func newMockArchive() *mockArchive {
	return &mockArchive{
		accounts: map[string]domain.Account{
			"alice": {ID: "1", Username: "alice", Posts: 2},
			"bob":   {ID: "2", Username: "bob"},
		},
	}
}

func (m *mockArchive) SearchAccounts(_ context.Context, query string) ([]domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockArchive) GetAccount(_ context.Context, username string) (domain.Account, error) {
	if m.err != nil {
		return domain.Account{}, m.err
	}
	a, ok := m.accounts[username]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return a, nil
}

func (m *mockArchive) ListAccounts(_ context.Context, limit, offset int) ([]domain.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockArchive) TopPosts(_ context.Context, _ domain.AccountID, metric domain.Metric, limit int) ([]domain.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !metric.Valid() {
		return nil, domain.ErrInvalidMetric
	}
	return m.top, nil
}

// stubFetcher is a test implementation of session.Fetcher.
type stubFetcher struct {
	posts []domain.Post
	err   error
}

func (f *stubFetcher) AllPosts(_ context.Context, _ domain.AccountID, total int, progress func(fetched, total int)) ([]domain.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if progress != nil {
		progress(len(f.posts), total)
	}
	return f.posts, nil
}

// mockConversations is a test implementation of ConversationBuilder.
type mockConversations struct {
	messages []domain.Message
	err      error
}

func (m *mockConversations) Build(_ context.Context, a, b domain.Account) ([]domain.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.messages, nil
}

// testRouter mounts the handlers the way the server does, without
// middleware.
func testRouter(accounts *AccountHandler, sessions *SessionHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/accounts", accounts.Search)
	r.Get("/api/v1/accounts/directory", accounts.Directory)
	r.Post("/api/v1/sessions", sessions.Open)
	r.Route("/api/v1/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", sessions.Get)
		r.Delete("/", sessions.Close)
		r.Post("/cancel", sessions.CancelFetch)
		r.Get("/top", sessions.Top)
		r.Get("/ratios", sessions.Ratios)
		r.Get("/wordcloud", sessions.WordCloud)
		r.Get("/emojis", sessions.Emojis)
		r.Get("/search", sessions.Search)
		r.Get("/conversation", sessions.Conversation)
	})
	return r
}

func newTestHandlers(archive *mockArchive, fetcher session.Fetcher, conversations ConversationBuilder) (http.Handler, *session.Manager) {
	manager := session.NewManager(fetcher, testLogger())
	accounts := NewAccountHandler(archive, testLogger())
	sessions := NewSessionHandler(manager, archive, conversations, Limits{}, testLogger())
	return testRouter(accounts, sessions), manager
}
