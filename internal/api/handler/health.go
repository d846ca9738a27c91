package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iconidentify/archivelens/internal/session"
)

var startTime = time.Now()

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	sessions *session.Manager
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(sessions *session.Manager) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	UptimeSeconds int64  `json:"uptime_seconds,omitempty"`
	Sessions      int    `json:"sessions,omitempty"`
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - readiness probe.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Sessions:      h.sessions.Len(),
	})
}
