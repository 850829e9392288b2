// Package formutil provides helpers for form re-rendering with validation
// errors.
//
// When a form submission fails, the form should be re-rendered with the
// user's previously entered values echoed back, an error message explaining
// what went wrong, and the context the form needs. The Base struct carries
// the common fields; embed it in a form's view model and populate it with
// SetBase.
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Base contains common fields for form pages that can be embedded in form
// data structs.
type Base struct {
	Title       string
	IsLoggedIn  bool
	Username    string
	BackURL     string
	CurrentPath string
	Error       template.HTML
}

// SetBase populates the common Base fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	p, signedIn := authz.UserCtx(r)
	b.Title = title
	b.IsLoggedIn = signedIn
	b.Username = p.Username
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
