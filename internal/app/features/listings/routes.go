// internal/app/features/listings/routes.go
package listings

import "github.com/go-chi/chi/v5"

// MountRoutes registers the listings endpoints on the supplied router.
// The handlers gate themselves, so no auth middleware is required here:
// the API is public and the submission flow checks the session per request.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/api/servers", h.ServeAPI)
	r.Get("/add-server", h.ServeAddForm)
	r.Post("/submit-server", h.HandleSubmit)
}
