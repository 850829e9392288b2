// internal/app/moderation/engine.go

// Package moderation implements the listing lifecycle: submissions enter as
// pending, the administrator approves them or removes them. Visibility is
// decided here and nowhere else — every external read goes through List.
//
// The engine does not check authorization itself. Callers are expected to
// have passed the appropriate route gate before invoking Submit or
// ApplyAction; the admin principal is still taken as a parameter so calls
// are testable and attributable.
package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/app/system/authz"
	"github.com/dissyboard/dissyboard/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the referenced listing id does not exist.
	ErrNotFound = errors.New("listing not found")

	// ErrInvalidAction is returned for an action outside approve/decline/delete.
	// The store is never touched in that case.
	ErrInvalidAction = errors.New("invalid moderation action")

	// ErrNoPrincipal is returned when Submit is called without an identity.
	ErrNoPrincipal = errors.New("submission requires a signed-in principal")
)

// Action is an admin moderation action.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"
	ActionDelete  Action = "delete"
)

// ParseAction validates a raw action value. Anything outside the three known
// actions is rejected with ErrInvalidAction before any store access.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionApprove, ActionDecline, ActionDelete:
		return Action(raw), nil
	default:
		return "", ErrInvalidAction
	}
}

// Submission is the payload of a new server listing. Fields are taken as-is;
// beyond the transport layer's presence checks no validation is applied, and
// empty strings are accepted.
type Submission struct {
	ServerName  string
	InviteLink  string
	Description string
	ImageURL    string
}

// Engine applies the moderation state machine against the listing store.
type Engine struct {
	store *listings.Store
	log   *zap.Logger
}

// New creates an Engine on top of the given store.
func New(store *listings.Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, log: logger}
}

// Submit creates a pending listing on behalf of principal and persists it.
// Two identical submissions produce two distinct listings; there is no
// deduplication.
func (e *Engine) Submit(ctx context.Context, principal models.Principal, sub Submission) (models.Listing, error) {
	if principal.IsZero() {
		return models.Listing{}, ErrNoPrincipal
	}

	l := models.Listing{
		ID:          uuid.New().String(),
		ServerName:  sub.ServerName,
		InviteLink:  sub.InviteLink,
		Description: sub.Description,
		ImageURL:    sub.ImageURL,
		Status:      models.StatusPending,
		SubmittedBy: principal,
		SubmittedAt: time.Now().UTC(),
	}

	err := e.store.Mutate(ctx, func(all []models.Listing) ([]models.Listing, error) {
		return append(all, l), nil
	})
	if err != nil {
		return models.Listing{}, err
	}

	e.log.Info("listing submitted",
		zap.String("listing_id", l.ID),
		zap.String("server_name", l.ServerName),
		zap.String("submitted_by", principal.ID))

	return l, nil
}

// List returns the listings visible to principal, in collection order. A nil
// or non-admin principal sees only approved listings; the administrator sees
// the full collection including pending entries.
func (e *Engine) List(ctx context.Context, principal *models.Principal, adminID string) ([]models.Listing, error) {
	all, err := e.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	if principal != nil && authz.IsAdmin(principal.ID, adminID) {
		return all, nil
	}

	visible := make([]models.Listing, 0, len(all))
	for _, l := range all {
		if l.Status == models.StatusApproved {
			visible = append(visible, l)
		}
	}
	return visible, nil
}

// ApplyAction applies an admin action to the listing with the given id.
// Approve marks the listing approved (a no-op when it already is); decline
// and delete both remove the record entirely — no "declined" state is kept.
func (e *Engine) ApplyAction(ctx context.Context, admin models.Principal, listingID string, action Action) error {
	switch action {
	case ActionApprove, ActionDecline, ActionDelete:
	default:
		return ErrInvalidAction
	}

	err := e.store.Mutate(ctx, func(all []models.Listing) ([]models.Listing, error) {
		idx := -1
		for i := range all {
			if all[i].ID == listingID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrNotFound
		}

		if action == ActionApprove {
			all[idx].Status = models.StatusApproved
			return all, nil
		}
		return append(all[:idx], all[idx+1:]...), nil
	})
	if err != nil {
		return err
	}

	e.log.Info("moderation action applied",
		zap.String("listing_id", listingID),
		zap.String("action", string(action)),
		zap.String("admin_id", admin.ID))

	return nil
}
