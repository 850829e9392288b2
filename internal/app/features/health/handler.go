// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store *listings.Store
	Log   *zap.Logger
}

// NewHandler constructs a health Handler with the listings store and logger.
func NewHandler(store *listings.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "store":"readable" }
//
// On store failure: 503 and
//
//	{ "status":"error", "store":"unreadable", "message":"Listings store unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status: "ok",
		Store:  "readable",
	}

	if _, err := h.Store.LoadAll(ctx); err != nil {
		h.Log.Error("health-check: listings store read failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Store = "unreadable"
		resp.Message = "Listings store unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
