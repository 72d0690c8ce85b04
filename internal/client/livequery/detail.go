package livequery

import (
	"time"

	"github.com/avachat/avachat/internal/client/models"
)

// AvatarDetail selects which slice of an already-fetched avatar list is
// shown. The filter is a pure function over the ordered list; switching
// detail never re-queries the database.
type AvatarDetail int

const (
	AvatarAll AvatarDetail = iota
	AvatarPublic
	AvatarPrivate
)

// Apply filters rows without reordering them.
func (d AvatarDetail) Apply(rows []models.Avatar) []models.Avatar {
	if d == AvatarAll {
		return rows
	}
	wantPublic := d == AvatarPublic
	out := make([]models.Avatar, 0, len(rows))
	for _, r := range rows {
		if r.IsPublic == wantPublic {
			out = append(out, r)
		}
	}
	return out
}

// UserDetail selects which slice of an already-fetched user list is shown.
type UserDetail int

const (
	UserAll UserDetail = iota
	UserAuthenticated
	UserGuests
	UserToday
	UserFree
	UserPremium
	UserEnterprise
)

// Apply filters rows without reordering them. The today bucket is computed
// against now on every call, never cached.
func (d UserDetail) Apply(rows []models.User, now time.Time) []models.User {
	if d == UserAll {
		return rows
	}
	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		var keep bool
		switch d {
		case UserAuthenticated:
			keep = r.IsAuthenticated
		case UserGuests:
			keep = r.Status == models.StatusGuest
		case UserToday:
			keep = r.SignedInToday(now)
		case UserFree:
			keep = r.Tier == models.TierFree
		case UserPremium:
			keep = r.Tier == models.TierPremium
		case UserEnterprise:
			keep = r.Tier == models.TierEnterprise
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
