package models

import "time"

// Guest is an expiring session bound to a user with IsAuthenticated=false.
type Guest struct {
	// ID is the row's primary key (UUID string).
	ID string

	// SessionID is the unique session token handed to the app.
	SessionID string

	// UserID references the guest's users row.
	UserID string

	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry.
func (g Guest) IsExpired(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// Extended returns a copy of the session with the expiry pushed out by d.
// The receiver is not mutated.
func (g Guest) Extended(d time.Duration) Guest {
	g.ExpiresAt = g.ExpiresAt.Add(d)
	return g
}
