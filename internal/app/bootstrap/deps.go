// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/app/store/oauthstate"
	"github.com/dissyboard/dissyboard/internal/app/store/uploads"
)

// Deps holds storage dependencies for the app.
// Extend this struct as the app evolves.
type Deps struct {
	Listings   *listings.Store
	OAuthState *oauthstate.Store
	Uploads    *uploads.Store
}
