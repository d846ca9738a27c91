package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/archivelens/internal/domain"
	"github.com/iconidentify/archivelens/internal/session"
)

// ConversationBuilder reconstructs the interaction history between two
// accounts.
type ConversationBuilder interface {
	Build(ctx context.Context, a, b domain.Account) ([]domain.Message, error)
}

// Limits carries the configured report sizes.
type Limits struct {
	TopPosts int
	Ratios   int
}

// SessionHandler handles explorer session HTTP requests.
type SessionHandler struct {
	sessions      *session.Manager
	archive       ArchiveService
	conversations ConversationBuilder
	limits        Limits
	logger        *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	sessions *session.Manager,
	archive ArchiveService,
	conversations ConversationBuilder,
	limits Limits,
	logger *slog.Logger,
) *SessionHandler {
	if limits.TopPosts <= 0 {
		limits.TopPosts = 25
	}
	if limits.Ratios <= 0 {
		limits.Ratios = 20
	}
	return &SessionHandler{
		sessions:      sessions,
		archive:       archive,
		conversations: conversations,
		limits:        limits,
		logger:        logger,
	}
}

// OpenRequest is the JSON request body for opening a session.
type OpenRequest struct {
	Username string `json:"username"`
}

// SessionResponse describes a session and its load progress.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	Account   domain.Account   `json:"account"`
	Progress  session.Progress `json:"progress"`
}

// Open handles POST /api/v1/sessions
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" {
		h.writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	account, err := h.archive.GetAccount(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("account lookup failed", "username", req.Username, "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}

	s := h.sessions.Open(account)
	h.writeJSON(w, http.StatusCreated, SessionResponse{
		SessionID: s.ID,
		Account:   s.Account,
		Progress:  s.Progress(),
	})
}

// Get handles GET /api/v1/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, SessionResponse{
		SessionID: s.ID,
		Account:   s.Account,
		Progress:  s.Progress(),
	})
}

// Close handles DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.sessions.Close(id); err != nil {
		h.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelFetch handles POST /api/v1/sessions/{sessionID}/cancel. The
// cancellation itself is silent; the response only acknowledges it.
func (h *SessionHandler) CancelFetch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CancelFetch()
	w.WriteHeader(http.StatusNoContent)
}

// TopPostsResponse contains a metric ranking.
type TopPostsResponse struct {
	Metric string        `json:"metric"`
	Posts  []domain.Post `json:"posts"`
}

// Top handles GET /api/v1/sessions/{sessionID}/top?metric=&limit=
func (h *SessionHandler) Top(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	metric := domain.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = domain.MetricFavorites
	}
	if !metric.Valid() {
		h.writeError(w, http.StatusBadRequest, "metric must be favorite_count or retweet_count")
		return
	}
	limit := queryInt(r, "limit", h.limits.TopPosts)

	posts, err := h.archive.TopPosts(r.Context(), s.Account.ID, metric, limit)
	if err != nil {
		h.logger.Error("top posts failed", "session", s.ID, "metric", metric, "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}

	h.writeJSON(w, http.StatusOK, TopPostsResponse{Metric: string(metric), Posts: posts})
}

// Ratios handles GET /api/v1/sessions/{sessionID}/ratios?limit=
func (h *SessionHandler) Ratios(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	extremes, err := s.Ratios(r.Context(), queryInt(r, "limit", h.limits.Ratios))
	if err != nil {
		h.historyError(w, s, err)
		return
	}
	h.writeJSON(w, http.StatusOK, extremes)
}

// WordCloud handles GET /api/v1/sessions/{sessionID}/wordcloud
func (h *SessionHandler) WordCloud(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	words, err := s.WordReport(r.Context())
	if err != nil {
		h.historyError(w, s, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"words": words})
}

// Emojis handles GET /api/v1/sessions/{sessionID}/emojis
func (h *SessionHandler) Emojis(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	emojis, err := s.EmojiReport(r.Context())
	if err != nil {
		h.historyError(w, s, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"emojis": emojis})
}

// SearchResponse contains post search results.
type SearchResponse struct {
	Query string        `json:"query"`
	Total int           `json:"total"`
	Posts []domain.Post `json:"posts"`
}

// Search handles GET /api/v1/sessions/{sessionID}/search?q=&sort=&dir=
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	sortBy := session.SortBy(r.URL.Query().Get("sort"))
	dir := session.SortDirection(r.URL.Query().Get("dir"))

	switch sortBy {
	case "", session.SortNone, session.SortLikes, session.SortRetweets, session.SortDate:
	default:
		h.writeError(w, http.StatusBadRequest, "sort must be likes, retweets, date, or none")
		return
	}
	switch dir {
	case "", session.DirectionNone, session.DirectionAsc, session.DirectionDesc:
	default:
		h.writeError(w, http.StatusBadRequest, "dir must be asc, desc, or none")
		return
	}
	if sortBy != "" && sortBy != session.SortNone && dir == "" {
		dir = session.DirectionDesc
	}

	posts, err := s.Search(r.Context(), q, sortBy, dir)
	if err != nil {
		h.historyError(w, s, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{Query: q, Total: len(posts), Posts: posts})
}

// ConversationResponse contains a threaded two-party conversation.
type ConversationResponse struct {
	Participants []string         `json:"participants"`
	Messages     []domain.Message `json:"messages"`
}

// Conversation handles GET /api/v1/sessions/{sessionID}/conversation?with=
func (h *SessionHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	other := r.URL.Query().Get("with")
	if other == "" {
		h.writeError(w, http.StatusBadRequest, "with is required")
		return
	}

	otherAccount, err := h.archive.GetAccount(r.Context(), other)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("account lookup failed", "username", other, "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}
	if otherAccount.ID == s.Account.ID {
		h.writeError(w, http.StatusBadRequest, "conversation partner must be a different account")
		return
	}

	messages, err := h.conversations.Build(r.Context(), s.Account, otherAccount)
	if err != nil {
		if errors.Is(err, domain.ErrNoConversation) {
			h.writeJSON(w, http.StatusOK, ConversationResponse{
				Participants: []string{s.Account.Username, otherAccount.Username},
				Messages:     []domain.Message{},
			})
			return
		}
		h.logger.Error("conversation build failed",
			"session", s.ID, "with", otherAccount.Username, "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}

	h.writeJSON(w, http.StatusOK, ConversationResponse{
		Participants: []string{s.Account.Username, otherAccount.Username},
		Messages:     messages,
	})
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// historyError maps a failed history access to a response. A cancelled
// fetch is reported as a conflict the client can retry, not an error.
func (h *SessionHandler) historyError(w http.ResponseWriter, s *session.Session, err error) {
	if errors.Is(err, context.Canceled) {
		h.writeError(w, http.StatusConflict, "history fetch was cancelled")
		return
	}
	h.logger.Error("history access failed", "session", s.ID, "error", err)
	h.writeError(w, http.StatusBadGateway, "archive lookup failed")
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
