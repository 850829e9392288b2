// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// Routes returns the router for the moderation panel. The handlers gate
// themselves with gates.RequireAdmin so the unauthenticated and unprivileged
// cases render distinct pages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// GET /admin - Moderation panel
	r.Get("/", h.ServePanel)

	// POST /admin/servers/{id}/{action} - Apply approve/decline/delete
	r.Post("/servers/{id}/{action}", h.HandleAction)

	return r
}
