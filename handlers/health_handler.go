package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Storage: "ok"}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", slog.String("name", "storage"), slog.Any("error", err))
		resp = HealthResponse{Status: "degraded", Storage: "error"}
		status = http.StatusServiceUnavailable
	}

	if err := writeJSON(w, status, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
