package domain

import "time"

// State is the position of a session in the intake flow.
type State int

const (
	StateIdle State = iota
	StateAwaitingCategory
	StateAwaitingIdentity
	StateAwaitingContact
	StateCollectingContent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCategory:
		return "awaiting-category"
	case StateAwaitingIdentity:
		return "awaiting-identity"
	case StateAwaitingContact:
		return "awaiting-contact"
	case StateCollectingContent:
		return "collecting-content"
	}
	return "unknown"
}

// ItemKind classifies a content item accumulated during intake.
type ItemKind string

const (
	ItemText     ItemKind = "text"
	ItemPhoto    ItemKind = "photo"
	ItemDocument ItemKind = "document"
	ItemUnknown  ItemKind = "unknown"
)

// ContentItem is one piece of a request's multi-part description.
// Text items are forwarded by message reference to preserve attribution;
// photos and documents are re-sent by their stored file reference.
type ContentItem struct {
	Kind      ItemKind
	MessageID int    // set for text items
	FileID    string // set for photo and document items
}

// Session is the ephemeral per-user conversational state during intake.
// It lives only for the duration of one request draft: created on first
// interaction, destroyed on finalize, cancel, or identity conflict.
type Session struct {
	UserID    int64
	ChatID    int64
	State     State
	Category  Category
	FullName  string
	Phone     string
	Items     []ContentItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
