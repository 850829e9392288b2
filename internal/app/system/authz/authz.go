// internal/app/system/authz/authz.go

// Package authz holds the authorization predicates. They are pure functions
// over session values: route middleware, handler gates, and the moderation
// engine all answer "is this the administrator" here and nowhere else, so
// extending the policy (say, to a set of administrators) is a local change.
package authz

import (
	"net/http"

	"github.com/dissyboard/dissyboard/internal/app/system/auth"
	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// IsAdmin reports whether the principal id matches the configured
// administrator id. The comparison is exact and case-sensitive; an empty
// configured id matches nobody.
func IsAdmin(principalID, adminID string) bool {
	return adminID != "" && principalID == adminID
}

// UserCtx returns the request's principal and a found flag. ok=false means
// the request carries no authenticated session.
func UserCtx(r *http.Request) (models.Principal, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return models.Principal{}, false
	}
	return u.Principal(), true
}

// IsAdminRequest reports whether the request's session belongs to the
// configured administrator.
func IsAdminRequest(r *http.Request, adminID string) bool {
	p, ok := UserCtx(r)
	return ok && IsAdmin(p.ID, adminID)
}
