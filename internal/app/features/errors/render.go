// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it defaults to the landing page.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	p, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = "/"
	}

	w.WriteHeader(http.StatusUnauthorized)
	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Username:   p.Username,
		Message:    "Please sign in with Discord to continue.",
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	p, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusForbidden)
	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Username:   p.Username,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}

// RenderNotFound shows a friendly "not found" page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	p, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusNotFound)
	data := pageData{
		Title:      "Not found",
		IsLoggedIn: signedIn,
		Username:   p.Username,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}

// RenderServerError shows a friendly internal error page with a message.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	p, signedIn := authz.UserCtx(r)
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	w.WriteHeader(http.StatusInternalServerError)
	data := pageData{
		Title:      "Something went wrong",
		IsLoggedIn: signedIn,
		Username:   p.Username,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_forbidden", data)
}
