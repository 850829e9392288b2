// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate error
// pages when checks fail.
//
// Dissyboard uses two tiers:
//
//  1. Route-Level Middleware (auth.SessionManager.RequireSignedIn) applied
//     in routes.go files for coarse-grained access control. When middleware
//     handles the check, handlers don't need gates.
//
//  2. Handler-Level Gates (this package), for handlers that sit on mixed
//     routes or want the user context back alongside the check. Gates render
//     error pages and return the principal.
//
// Don't use gates in handlers that are behind the matching middleware; use
// authz.UserCtx(r) there to read the principal without re-checking.
package gates

import (
	"net/http"

	uierrors "github.com/dissyboard/dissyboard/internal/app/features/errors"
	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Principal models.Principal
	OK        bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders an unauthorized error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	p, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return Result{OK: false}
	}
	return Result{Principal: p, OK: true}
}

// RequireAdmin ensures the user is authenticated and is the configured
// administrator. Not authenticated renders unauthorized; authenticated but
// unprivileged renders forbidden with the provided message and fallback URL.
func RequireAdmin(w http.ResponseWriter, r *http.Request, adminID, forbiddenMsg, fallbackURL string) Result {
	p, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return Result{OK: false}
	}
	if !authz.IsAdmin(p.ID, adminID) {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Principal: p, OK: true}
}
