package handlers

import (
	"net/http"

	"github.com/isdelr/salesdash-be/internal/api/httpx"
	"github.com/isdelr/salesdash-be/internal/services"
)

// HealthHandler exposes the liveness report.
type HealthHandler struct {
	service services.HealthServiceProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service services.HealthServiceProvider) *HealthHandler {
	return &HealthHandler{service: service}
}

// Get writes the report, with 503 when a dependency is down.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	report := h.service.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, report)
}
