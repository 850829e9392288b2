// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/dissyboard/dissyboard/internal/app/features/errors"
	"github.com/dissyboard/dissyboard/internal/app/moderation"
	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dissyboard/dissyboard/internal/app/system/formutil"
	"github.com/dissyboard/dissyboard/internal/app/system/timeouts"
	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// Handler holds dependencies needed to serve the landing page.
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

// loginErrorMessages maps ?error= codes set by the OAuth flow to banner text.
var loginErrorMessages = map[string]string{
	"discord_denied":         "Discord sign-in was cancelled.",
	"discord_not_configured": "Discord sign-in is not set up yet.",
	"invalid_state":          "Sign-in expired, please try again.",
	"invalid_code":           "Sign-in failed, please try again.",
	"token_exchange":         "Sign-in failed, please try again.",
	"user_info":              "Could not read your Discord profile, please try again.",
	"session":                "Could not start your session, please try again.",
	"internal":               "Something went wrong, please try again.",
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing page with the server listings                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var principal *models.Principal
	if p, ok := authz.UserCtx(r); ok {
		principal = &p
	}

	items, err := h.Engine.List(ctx, principal, h.AdminID)
	if err != nil {
		h.Log.Error("failed to load listings", zap.Error(err))
		uierrors.RenderServerError(w, r, "Could not load the server list.", "/")
		return
	}

	data := struct {
		formutil.Base
		Listings []models.Listing
		IsAdmin  bool
	}{
		Listings: items,
		IsAdmin:  principal != nil && authz.IsAdmin(principal.ID, h.AdminID),
	}
	formutil.SetBase(&data.Base, r, "Discover Servers", "/")

	if code := query.Get(r, "error"); code != "" {
		msg, ok := loginErrorMessages[code]
		if !ok {
			msg = "Something went wrong, please try again."
		}
		data.SetError(msg)
	}

	templates.Render(w, r, "home", data)
}
