// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/dissyboard/dissyboard/internal/app/features/errors"
	"github.com/dissyboard/dissyboard/internal/app/moderation"
	"github.com/dissyboard/dissyboard/internal/app/system/formutil"
	"github.com/dissyboard/dissyboard/internal/app/system/gates"
	"github.com/dissyboard/dissyboard/internal/app/system/timeouts"
	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// Handler serves the moderation panel and its actions.
type Handler struct {
	Engine  *moderation.Engine
	ErrLog  *uierrors.ErrorLogger
	AdminID string
	Log     *zap.Logger
}

func NewHandler(engine *moderation.Engine, errLog *uierrors.ErrorLogger, adminID string, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:  engine,
		ErrLog:  errLog,
		AdminID: adminID,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin – moderation panel                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePanel(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, h.AdminID, "Only the site administrator can moderate listings.", "/")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	items, err := h.Engine.List(ctx, &res.Principal, h.AdminID)
	if err != nil {
		h.Log.Error("failed to load listings for admin panel", zap.Error(err))
		uierrors.RenderServerError(w, r, "Could not load the moderation queue.", "/")
		return
	}

	var pending, approved []models.Listing
	for _, item := range items {
		if item.Status == models.StatusPending {
			pending = append(pending, item)
		} else {
			approved = append(approved, item)
		}
	}

	data := struct {
		formutil.Base
		Pending  []models.Listing
		Approved []models.Listing
	}{
		Pending:  pending,
		Approved: approved,
	}
	formutil.SetBase(&data.Base, r, "Moderation", "/")

	templates.Render(w, r, "admin", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/servers/{id}/{action}                                            |
| Applies approve, decline, or delete to a listing.                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, h.AdminID, "Only the site administrator can moderate listings.", "/")
	if !res.OK {
		return
	}

	listingID := chi.URLParam(r, "id")

	action, err := moderation.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid moderation action", err,
			"Unknown moderation action.", "/admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Engine.ApplyAction(ctx, res.Principal, listingID, action); err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotFound):
			h.ErrLog.LogNotFound(w, r, "listing not found for moderation", err,
				"That listing no longer exists.", "/admin")
		case errors.Is(err, moderation.ErrInvalidAction):
			h.ErrLog.LogBadRequest(w, r, "invalid moderation action", err,
				"Unknown moderation action.", "/admin")
		default:
			h.ErrLog.LogServerError(w, r, "moderation action failed", err,
				"Could not apply that action. Please try again.", "/admin")
		}
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
