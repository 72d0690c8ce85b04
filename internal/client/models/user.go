// Package models defines the client-side row types persisted in the local
// database. Rows are immutable values; mutation happens by replacing the
// whole row through an upsert.
package models

import "time"

// MembershipTier is the user's paid tier.
type MembershipTier string

const (
	TierFree       MembershipTier = "free"
	TierPremium    MembershipTier = "premium"
	TierEnterprise MembershipTier = "enterprise"
)

// AuthStatus distinguishes guest users from fully authorized ones.
type AuthStatus string

const (
	StatusGuest      AuthStatus = "guest"
	StatusAuthorized AuthStatus = "authorized"
)

// User is an identity and profile record.
//
// Well-formed rows with IsAuthenticated=true carry non-nil AuthID and
// ProviderID. The schema does not enforce this; the auth flow does.
type User struct {
	// ID is the row's primary key (UUID string).
	ID string

	// Name is the display name.
	Name string

	// DateOfBirth is optional profile data.
	DateOfBirth *time.Time

	// Email is optional; guests have none.
	Email *string

	CreatedAt      time.Time
	LastSignedInAt time.Time

	// AuthID is the external identity-provider identifier (empty for guests).
	AuthID *string

	IsAuthenticated bool

	// ProviderID names the auth provider ("google", "password", ...).
	ProviderID *string

	IsAnonymous     bool
	IsEmailVerified bool

	Tier   MembershipTier
	Status AuthStatus

	// ThemeColor is the packed RGBA profile accent color.
	ThemeColor ThemeColor

	UpdatedAt time.Time
}

// SignedInToday reports whether the user's last sign-in falls on the same
// calendar day as now, in now's location.
func (u User) SignedInToday(now time.Time) bool {
	y1, m1, d1 := u.LastSignedInAt.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
