// internal/app/features/authdiscord/routes.go
package authdiscord

import "github.com/go-chi/chi/v5"

// Routes returns the router for Discord OAuth endpoints.
// These routes are public (no authentication required).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /auth/discord - Initiate Discord OAuth flow
	r.Get("/", h.ServeLogin)

	// GET /auth/discord/callback - Handle Discord OAuth callback
	r.Get("/callback", h.ServeCallback)

	return r
}
