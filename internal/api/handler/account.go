package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iconidentify/archivelens/internal/domain"
)

// ArchiveService is the slice of the archive client the handlers need.
type ArchiveService interface {
	SearchAccounts(ctx context.Context, query string) ([]domain.Account, error)
	GetAccount(ctx context.Context, username string) (domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	TopPosts(ctx context.Context, account domain.AccountID, metric domain.Metric, limit int) ([]domain.Post, error)
}

// AccountHandler handles account search and directory HTTP requests.
type AccountHandler struct {
	archive ArchiveService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(archive ArchiveService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		archive: archive,
		logger:  logger,
	}
}

// AccountListResponse contains account search or directory results.
type AccountListResponse struct {
	Accounts []domain.Account `json:"accounts"`
	Total    int              `json:"total"`
}

// Search handles GET /api/v1/accounts?q=
func (h *AccountHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	accounts, err := h.archive.SearchAccounts(r.Context(), query)
	if err != nil {
		h.logger.Error("account search failed", "query", query, "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}

	h.writeJSON(w, http.StatusOK, AccountListResponse{Accounts: accounts, Total: len(accounts)})
}

// Directory handles GET /api/v1/accounts/directory?limit=&offset=
func (h *AccountHandler) Directory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	if limit <= 0 || limit > 200 {
		h.writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}

	accounts, err := h.archive.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("account directory failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "archive lookup failed")
		return
	}

	h.writeJSON(w, http.StatusOK, AccountListResponse{Accounts: accounts, Total: len(accounts)})
}

func (h *AccountHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *AccountHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
