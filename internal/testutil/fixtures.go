package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dissyboard/dissyboard/internal/domain/models"
)

// TestContext returns a context with a generous test timeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// PendingListing builds a pending listing with the given server name.
func PendingListing(name string) models.Listing {
	return listing(name, models.StatusPending)
}

// ApprovedListing builds an approved listing with the given server name.
func ApprovedListing(name string) models.Listing {
	return listing(name, models.StatusApproved)
}

func listing(name, status string) models.Listing {
	return models.Listing{
		ID:          uuid.New().String(),
		ServerName:  name,
		InviteLink:  "https://discord.gg/" + name,
		Description: "A test listing for " + name,
		Status:      status,
		SubmittedBy: models.Principal{
			ID:       uuid.New().String(),
			Username: "submitter",
		},
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
