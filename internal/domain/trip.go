package domain

import "time"

// Role is a collaborator or share-link role on a trip.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// CanEdit reports whether the role permits mutating trip content.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// ValidShareRole reports whether the role may be granted through a share link.
// Owner is never grantable.
func ValidShareRole(r Role) bool {
	return r == RoleEditor || r == RoleViewer
}

// Trip is the domain representation of a trip.
type Trip struct {
	ID   TripID
	Name string

	// StartDate/EndDate carry date-only semantics at the edges.
	StartDate time.Time
	EndDate   time.Time

	// Timezone is an IANA zone name, e.g. "Asia/Tokyo".
	Timezone string

	CreatedBy UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Collaborator is a registered user with standing access to a trip.
// Exactly one collaborator per trip holds RoleOwner: the creator.
type Collaborator struct {
	TripID TripID
	UserID UserID
	Email  string
	Role   Role

	AddedAt time.Time
}

// ShareLink is a revocable grant minted by the trip owner. The plaintext token
// is embedded in the shared URL and never stored; only its hash is persisted.
type ShareLink struct {
	ID     ShareLinkID
	TripID TripID
	Role   Role // editor or viewer

	TokenHash string

	CreatedAt time.Time
	ExpiresAt *time.Time // nil means no expiry
	RevokedAt *time.Time // nil means active
}

// Usable reports whether the link still grants access at the given instant.
func (l ShareLink) Usable(now time.Time) bool {
	if l.RevokedAt != nil {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return true
}
