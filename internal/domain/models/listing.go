// internal/domain/models/listing.go
package models

import "time"

// Listing status values. A listing is created as pending and either becomes
// approved or is removed outright; no "declined" record is ever persisted.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// IsValidStatus reports whether s is a persistable listing status.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved
}

// Principal is the identity snapshot taken from the signed-in Discord user.
//
// NOTE:
//   - Once written to a Listing it is never updated, even if the submitter
//     renames their account or their session disappears. It is a
//     back-reference, not an ownership link.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == "" && p.Username == ""
}

// Listing represents one submitted server entry under moderation.
type Listing struct {
	ID          string    `json:"id"`
	ServerName  string    `json:"serverName"`
	InviteLink  string    `json:"inviteLink"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Status      string    `json:"status"` // pending | approved
	SubmittedBy Principal `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
}
