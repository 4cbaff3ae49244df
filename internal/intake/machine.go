// Package intake drives the multi-step request collection flow: category,
// identity, contact, then free-form content, per user session.
package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/domain"
	"github.com/avolkhin/deskbot/internal/logging"
	"github.com/avolkhin/deskbot/internal/session"
)

// Callback payloads for the start-menu inline buttons.
const (
	CallbackCreateRequest = "create_request"
	CallbackAboutUs       = "about_us"
)

// IdentityStore is the slice of the identity table the intake flow needs.
type IdentityStore interface {
	// Resolve binds a submitted name to the user when it is free. Must be
	// atomic against concurrent binds of the same name.
	Resolve(ctx context.Context, fullName string, userID int64) (domain.ResolveOutcome, error)

	// Lookup returns the identity already bound to the user, or nil.
	Lookup(ctx context.Context, userID int64) (*domain.Identity, error)

	// Upsert records the user's contact data, keyed by user id.
	Upsert(ctx context.Context, userID int64, fullName, phone string) error
}

// Finalizer persists a completed draft and dispatches it to the operator
// channel. An error means the request was not persisted.
type Finalizer interface {
	Finalize(ctx context.Context, sess *domain.Session) error
}

// Machine is the intake state machine. One instance serves all users; the
// session store keeps per-user events serialized.
type Machine struct {
	sessions   *session.Store
	identities IdentityStore
	finalizer  Finalizer
	transport  domain.Transport
	msgs       config.MessagesConfig
	log        *logging.Logger
}

// New creates an intake machine.
func New(
	sessions *session.Store,
	identities IdentityStore,
	finalizer Finalizer,
	transport domain.Transport,
	msgs config.MessagesConfig,
	log *logging.Logger,
) *Machine {
	return &Machine{
		sessions:   sessions,
		identities: identities,
		finalizer:  finalizer,
		transport:  transport,
		msgs:       msgs,
		log:        log.Sub("intake"),
	}
}

// HandleUpdate processes one inbound user event: a command, a callback
// button press, or a state-driven message.
func (m *Machine) HandleUpdate(ctx context.Context, u domain.Update) {
	if u.Callback != "" {
		m.handleCallback(ctx, u)
		return
	}

	if strings.HasPrefix(u.Text, "/start") {
		m.sendWelcome(ctx, u.ChatID)
		return
	}

	m.sessions.With(u.SenderID, u.ChatID, func(sess *domain.Session) bool {
		switch sess.State {
		case domain.StateIdle:
			// No draft in progress; show the menu and keep nothing.
			m.sendWelcome(ctx, u.ChatID)
			return false
		case domain.StateAwaitingCategory:
			return m.onCategory(ctx, sess, u)
		case domain.StateAwaitingIdentity:
			return m.onIdentity(ctx, sess, u)
		case domain.StateAwaitingContact:
			return m.onContact(ctx, sess, u)
		case domain.StateCollectingContent:
			return m.onContent(ctx, sess, u)
		}
		m.log.Error().Str("state", sess.State.String()).Int64("userId", u.SenderID).Msg("session in unknown state, resetting")
		return false
	})
}

func (m *Machine) handleCallback(ctx context.Context, u domain.Update) {
	if err := m.transport.AnswerCallback(ctx, u.CallbackID); err != nil {
		m.log.Debug().Err(err).Msg("callback ack failed")
	}

	switch u.Callback {
	case CallbackCreateRequest:
		m.sessions.With(u.SenderID, u.ChatID, func(sess *domain.Session) bool {
			// Starting a new draft resets whatever was in flight.
			sess.State = domain.StateAwaitingCategory
			sess.Category = ""
			sess.FullName = ""
			sess.Phone = ""
			sess.Items = nil
			m.send(ctx, u.ChatID, m.msgs.ChooseCategory, categoryKeyboard())
			return true
		})
	case CallbackAboutUs:
		m.send(ctx, u.ChatID, m.msgs.About, nil)
	default:
		m.log.Debug().Str("callback", u.Callback).Msg("ignoring unknown callback")
	}
}

// onCategory validates the selected category and either skips straight to
// content collection (known user) or starts identity intake.
func (m *Machine) onCategory(ctx context.Context, sess *domain.Session, u domain.Update) bool {
	cat, ok := domain.CategoryFromLabel(strings.TrimSpace(u.Text))
	if !ok {
		m.send(ctx, u.ChatID, m.msgs.InvalidCategory, nil)
		return true
	}
	sess.Category = cat

	ident, err := m.identities.Lookup(ctx, u.SenderID)
	if err != nil {
		m.log.Error().Err(err).Int64("userId", u.SenderID).Msg("identity lookup failed")
		ident = nil
	}

	if ident != nil && ident.FullName != "" && ident.Phone != "" {
		sess.FullName = ident.FullName
		sess.Phone = ident.Phone
		sess.State = domain.StateCollectingContent
		m.send(ctx, u.ChatID, fmt.Sprintf(m.msgs.KnownGreeting, ident.FullName, ident.Phone), removeKeyboard())
		m.send(ctx, u.ChatID, m.msgs.DescribeProblem, submitKeyboard(m.msgs))
		return true
	}

	sess.State = domain.StateAwaitingIdentity
	m.send(ctx, u.ChatID, m.msgs.AskName, removeKeyboard())
	return true
}

// onIdentity resolves the submitted full name. Not-found re-prompts,
// conflict rejects and destroys the session.
func (m *Machine) onIdentity(ctx context.Context, sess *domain.Session, u domain.Update) bool {
	name := strings.TrimSpace(u.Text)
	if name == "" {
		m.send(ctx, u.ChatID, m.msgs.AskName, nil)
		return true
	}

	outcome, err := m.identities.Resolve(ctx, name, u.SenderID)
	if err != nil {
		m.log.Error().Err(err).Int64("userId", u.SenderID).Msg("identity resolve failed")
		m.send(ctx, u.ChatID, m.msgs.FinalizeFailed, removeKeyboard())
		return false
	}

	switch outcome {
	case domain.ResolveNotFound:
		m.send(ctx, u.ChatID, m.msgs.NameNotFound, nil)
		return true
	case domain.ResolveConflict:
		m.log.Warn().Int64("userId", u.SenderID).Msg("name already bound to another user")
		m.send(ctx, u.ChatID, m.msgs.NameTaken, removeKeyboard())
		return false
	}

	sess.FullName = name
	sess.State = domain.StateAwaitingContact
	m.send(ctx, u.ChatID, m.msgs.AskPhone, nil)
	return true
}

// onContact stores the phone and moves to content collection.
func (m *Machine) onContact(ctx context.Context, sess *domain.Session, u domain.Update) bool {
	phone := strings.TrimSpace(u.Text)
	if phone == "" {
		m.send(ctx, u.ChatID, m.msgs.AskPhone, nil)
		return true
	}

	if err := m.identities.Upsert(ctx, u.SenderID, sess.FullName, phone); err != nil {
		m.log.Error().Err(err).Int64("userId", u.SenderID).Msg("identity upsert failed")
		m.send(ctx, u.ChatID, m.msgs.FinalizeFailed, removeKeyboard())
		return false
	}

	sess.Phone = phone
	sess.State = domain.StateCollectingContent
	m.send(ctx, u.ChatID, m.msgs.DescribeProblem, submitKeyboard(m.msgs))
	return true
}

// onContent accumulates content items until the user submits or cancels.
func (m *Machine) onContent(ctx context.Context, sess *domain.Session, u domain.Update) bool {
	// A captioned attachment is content even when the caption spells a
	// button label; only bare text can submit or cancel.
	text := ""
	if !u.HasAttachment() {
		text = strings.TrimSpace(u.Text)
	}

	switch {
	case strings.EqualFold(text, m.msgs.ButtonSubmit):
		if err := m.finalizer.Finalize(ctx, sess); err != nil {
			// Never retry with stale state: clear the session and make the
			// user start over.
			m.log.Error().Err(err).Int64("userId", u.SenderID).Msg("finalize failed")
			m.send(ctx, u.ChatID, m.msgs.FinalizeFailed, removeKeyboard())
			return false
		}
		m.send(ctx, u.ChatID, m.msgs.Submitted, removeKeyboard())
		m.send(ctx, u.ChatID, m.msgs.ChooseAction, anotherKeyboard(m.msgs))
		return false

	case strings.EqualFold(text, m.msgs.ButtonCancel):
		m.send(ctx, u.ChatID, m.msgs.Cancelled, removeKeyboard())
		return false
	}

	item := u.ContentOf()
	sess.Items = append(sess.Items, item)
	m.log.Debug().
		Int64("userId", u.SenderID).
		Str("kind", string(item.Kind)).
		Int("items", len(sess.Items)).
		Msg("content item added")
	m.send(ctx, u.ChatID, m.msgs.ItemAdded, submitKeyboard(m.msgs))
	return true
}

func (m *Machine) sendWelcome(ctx context.Context, chatID int64) {
	m.send(ctx, chatID, m.msgs.Welcome, startKeyboard(m.msgs))
}

// send delivers a message, treating transport failure as non-fatal.
func (m *Machine) send(ctx context.Context, chatID int64, text string, kb *domain.Keyboard) {
	if _, err := m.transport.SendText(ctx, chatID, text, kb); err != nil {
		m.log.Error().Err(err).Int64("chatId", chatID).Msg("send failed")
	}
}
