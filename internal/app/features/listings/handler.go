// internal/app/features/listings/handler.go
package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	uierrors "github.com/dissyboard/dissyboard/internal/app/features/errors"
	"github.com/dissyboard/dissyboard/internal/app/moderation"
	"github.com/dissyboard/dissyboard/internal/app/store/uploads"
	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dissyboard/dissyboard/internal/app/system/formutil"
	"github.com/dissyboard/dissyboard/internal/app/system/gates"
	"github.com/dissyboard/dissyboard/internal/app/system/htmlsanitize"
	"github.com/dissyboard/dissyboard/internal/app/system/timeouts"
	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// maxUploadSize caps submission form payloads, image included.
const maxUploadSize = 8 << 20

// Handler serves the public listings API and the server submission flow.
type Handler struct {
	Engine  *moderation.Engine
	Uploads *uploads.Store
	ErrLog  *uierrors.ErrorLogger
	AdminID string
	Log     *zap.Logger
}

func NewHandler(engine *moderation.Engine, uploadStore *uploads.Store, errLog *uierrors.ErrorLogger, adminID string, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:  engine,
		Uploads: uploadStore,
		ErrLog:  errLog,
		AdminID: adminID,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/servers                                                             |
| Returns the listings visible to the caller as JSON.                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var principal *models.Principal
	if p, ok := authz.UserCtx(r); ok {
		principal = &p
	}

	items, err := h.Engine.List(ctx, principal, h.AdminID)
	if err != nil {
		h.Log.Error("failed to load listings", zap.Error(err))
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /add-server                                                              |
| Shows the submission form. Requires a signed-in user.                        |
*─────────────────────────────────────────────────────────────────────────────*/

// addServerVM is the submission form view model.
type addServerVM struct {
	formutil.Base
	ServerName  string
	InviteLink  string
	Description string
}

func (h *Handler) ServeAddForm(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAuth(w, r); !res.OK {
		return
	}

	var vm addServerVM
	formutil.SetBase(&vm.Base, r, "Add Your Server", "/")
	templates.Render(w, r, "add_server", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /submit-server                                                          |
| Accepts the submission form (multipart, optional image) and records the new  |
| listing as pending.                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/add-server")
		return
	}

	serverName := strings.TrimSpace(r.FormValue("serverName"))
	inviteLink := strings.TrimSpace(r.FormValue("inviteLink"))
	// Sanitize the free-text description before it is stored and later rendered.
	description := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("description")))

	sub := moderation.Submission{
		ServerName:  serverName,
		InviteLink:  inviteLink,
		Description: description,
	}

	// Image is optional. A failed upload drops the image rather than the
	// whole submission.
	if file, header, err := r.FormFile("image"); err == nil && header != nil && header.Size > 0 {
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		imageURL, err := h.Uploads.SaveImage(ctx, header.Filename, file)
		if err != nil {
			h.Log.Warn("image upload failed, submitting without image",
				zap.Error(err),
				zap.String("filename", header.Filename))
		} else {
			sub.ImageURL = imageURL
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Engine.Submit(ctx, res.Principal, sub); err != nil {
		h.ErrLog.LogServerError(w, r, "submit listing failed", err,
			"Could not save your submission. Please try again.", "/add-server")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
