package models

import (
	"fmt"
	"strings"
	"time"
)

// PromptCategory classifies what role an avatar plays in a conversation.
type PromptCategory string

const (
	CategoryCompanion   PromptCategory = "companion"
	CategoryMentor      PromptCategory = "mentor"
	CategoryStoryteller PromptCategory = "storyteller"
	CategoryAssistant   PromptCategory = "assistant"
)

// CharacterType is the avatar's embodiment.
type CharacterType string

const (
	CharacterHuman   CharacterType = "human"
	CharacterRobot   CharacterType = "robot"
	CharacterAnimal  CharacterType = "animal"
	CharacterFantasy CharacterType = "fantasy"
)

// Mood is the avatar's default conversational tone.
type Mood string

const (
	MoodCheerful   Mood = "cheerful"
	MoodSerious    Mood = "serious"
	MoodMysterious Mood = "mysterious"
	MoodCalm       Mood = "calm"
)

// Avatar is a persona/character definition owned by a user.
type Avatar struct {
	// ID is the row's primary key (UUID string).
	ID string

	// ExternalID is an optional identifier from a remote avatar catalog.
	ExternalID *string

	// Name must be non-empty for the record to be saveable. The form layer
	// enforces this; the schema does not.
	Name string

	Subtitle *string

	Category      *PromptCategory
	CharacterType *CharacterType
	Mood          *Mood

	ImageName    *string
	ImageURL     *string
	ThumbnailURL *string

	// GeneratedPrompt is the assembled natural-language prompt, filled by
	// ComposePrompt or backfilled by a migration.
	GeneratedPrompt *string

	// OwnerID references the owning users row (cascade delete).
	OwnerID string

	IsPublic bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid reports whether the avatar can be saved.
func (a Avatar) Valid() bool {
	return strings.TrimSpace(a.Name) != ""
}

// ComposePrompt builds a natural-language prompt from the avatar's metadata.
// Missing fields are skipped; an avatar with no metadata still yields a
// minimal prompt naming it.
func (a Avatar) ComposePrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s", a.Name)
	if a.CharacterType != nil {
		fmt.Fprintf(&b, ", a %s character", *a.CharacterType)
	}
	b.WriteString(".")
	if a.Category != nil {
		fmt.Fprintf(&b, " Act as a %s for the user.", *a.Category)
	}
	if a.Mood != nil {
		fmt.Fprintf(&b, " Keep a %s tone.", *a.Mood)
	}
	if a.Subtitle != nil && strings.TrimSpace(*a.Subtitle) != "" {
		fmt.Fprintf(&b, " %s.", strings.TrimSuffix(strings.TrimSpace(*a.Subtitle), "."))
	}
	return b.String()
}
