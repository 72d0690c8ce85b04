package models

import "time"

// Chat is a conversation between a user and an avatar.
type Chat struct {
	// ID is the row's primary key (UUID string).
	ID string

	// UserID references the participating users row (cascade delete).
	UserID string

	// AvatarID references the avatar persona (cascade delete).
	AvatarID string

	Title string

	CreatedAt time.Time
}

// Message belongs to exactly one chat and is ordered by SentAt.
type Message struct {
	// ID is the row's primary key (UUID string).
	ID string

	// ChatID references the owning chat row (cascade delete).
	ChatID string

	// FromUser is true for user-authored messages, false for avatar replies.
	FromUser bool

	Content string

	SentAt time.Time
}
