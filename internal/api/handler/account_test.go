package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccountSearch(t *testing.T) {
	router, _ := newTestHandlers(newMockArchive(), &stubFetcher{}, &mockConversations{})

	req := httptest.NewRequest("GET", "/api/v1/accounts?q=ali", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AccountListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}

func TestAccountSearchMissingQuery(t *testing.T) {
	router, _ := newTestHandlers(newMockArchive(), &stubFetcher{}, &mockConversations{})

	req := httptest.NewRequest("GET", "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAccountSearchArchiveDown(t *testing.T) {
	archive := newMockArchive()
	archive.err = errors.New("boom")
	router, _ := newTestHandlers(archive, &stubFetcher{}, &mockConversations{})

	req := httptest.NewRequest("GET", "/api/v1/accounts?q=ali", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestAccountDirectory(t *testing.T) {
	router, _ := newTestHandlers(newMockArchive(), &stubFetcher{}, &mockConversations{})

	req := httptest.NewRequest("GET", "/api/v1/accounts/directory?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AccountListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestAccountDirectoryLimitValidation(t *testing.T) {
	router, _ := newTestHandlers(newMockArchive(), &stubFetcher{}, &mockConversations{})

	req := httptest.NewRequest("GET", "/api/v1/accounts/directory?limit=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
