package models

// Tag is free-form classification metadata attachable to messages or avatars.
type Tag struct {
	ID   string
	Name string
}

// Badge is curated classification metadata attachable to messages.
type Badge struct {
	ID   string
	Name string
}

// MessageTag joins messages to tags. Rows disappear when either side is
// deleted (cascade).
type MessageTag struct {
	MessageID string
	TagID     string
}

// MessageBadge joins messages to badges.
type MessageBadge struct {
	MessageID string
	BadgeID   string
}

// AvatarTag joins avatars to tags.
type AvatarTag struct {
	AvatarID string
	TagID    string
}
