package domain

import "context"

// InlineButton is a callback button attached to a message.
type InlineButton struct {
	Label string
	Data  string
}

// Keyboard describes the reply surface attached to an outbound text message.
// At most one of Inline or Reply is set; Remove clears any visible reply
// keyboard on the user's side.
type Keyboard struct {
	Inline [][]InlineButton
	Reply  [][]string
	Remove bool
}

// Update is an inbound event from the messaging platform: either a message
// or a callback-button press.
type Update struct {
	MessageID  int
	ChatID     int64
	SenderID   int64
	SenderName string

	Text           string
	PhotoFileID    string // largest available size
	DocumentFileID string

	// Callback is the button payload for callback-query updates; CallbackID
	// is the platform token needed to acknowledge the press.
	Callback   string
	CallbackID string

	ReplyTo *ReplyRef
}

// ReplyRef identifies the message an update replies to.
type ReplyRef struct {
	MessageID int
	FromBot   bool
}

// ContentOf classifies an update's payload as a content item for the
// collecting phase. Attachments win over text: a captioned photo is a photo,
// since Text may hold the caption. Messages with neither text nor a
// supported attachment come back as ItemUnknown.
func (u Update) ContentOf() ContentItem {
	switch {
	case u.PhotoFileID != "":
		return ContentItem{Kind: ItemPhoto, FileID: u.PhotoFileID}
	case u.DocumentFileID != "":
		return ContentItem{Kind: ItemDocument, FileID: u.DocumentFileID}
	case u.Text != "":
		return ContentItem{Kind: ItemText, MessageID: u.MessageID}
	}
	return ContentItem{Kind: ItemUnknown}
}

// HasAttachment reports whether the update carries a photo or document.
func (u Update) HasAttachment() bool {
	return u.PhotoFileID != "" || u.DocumentFileID != ""
}

// Transport is the narrow surface this core consumes from the messaging
// platform. Implementations return the platform message id of whatever
// they send; those ids are the raw material for reply correlation.
type Transport interface {
	// SendText sends a text message, optionally with a keyboard.
	SendText(ctx context.Context, chatID int64, text string, kb *Keyboard) (int, error)

	// SendPhoto re-sends a photo by stored file reference.
	SendPhoto(ctx context.Context, chatID int64, fileID string) (int, error)

	// SendDocument re-sends a document by stored file reference.
	SendDocument(ctx context.Context, chatID int64, fileID string) (int, error)

	// Forward forwards an existing message, preserving attribution.
	Forward(ctx context.Context, toChatID, fromChatID int64, messageID int) (int, error)

	// React attaches an emoji reaction to a message. Best effort: callers
	// treat failure as non-fatal.
	React(ctx context.Context, chatID int64, messageID int, emoji string) error

	// AnswerCallback acknowledges a callback-button press.
	AnswerCallback(ctx context.Context, callbackID string) error
}
