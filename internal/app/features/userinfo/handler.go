// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dissyboard/dissyboard/internal/app/system/auth"
)

// Handler serves user information for authenticated sessions.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns JSON with the current user's Discord identity.
//
// Response format:
//
//	{ "id": "...", "username": "...", "avatarUrl": "..." }
//
// An unauthenticated request gets 401 with {"error":"unauthorized"}.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "unauthorized",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"avatarUrl": user.Avatar,
	})
}
