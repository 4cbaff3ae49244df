// Package relay carries finished requests to the operator channel and routes
// operator replies back to the requesting user.
package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/domain"
	"github.com/avolkhin/deskbot/internal/logging"
	"github.com/avolkhin/deskbot/internal/store"
)

// RequestStore is the slice of request persistence the relay needs.
type RequestStore interface {
	Insert(ctx context.Context, req *domain.Request) error
	AttachOperatorMessage(ctx context.Context, category domain.Category, requestID string, messageID int) error
	MarkAnswered(ctx context.Context, category domain.Category, requestID string) error
	FindByOperatorMessage(ctx context.Context, messageID int) (*domain.Request, error)
}

// Service links the request store and the transport. It persists submitted
// requests, notifies the operator chat, and forwards operator replies.
type Service struct {
	requests     RequestStore
	transport    domain.Transport
	operatorChat int64
	msgs         config.MessagesConfig
	ackReaction  string
	log          *logging.Logger
}

// New creates a relay service bound to the given operator chat.
func New(
	requests RequestStore,
	transport domain.Transport,
	operatorChat int64,
	msgs config.MessagesConfig,
	ackReaction string,
	log *logging.Logger,
) *Service {
	return &Service{
		requests:     requests,
		transport:    transport,
		operatorChat: operatorChat,
		msgs:         msgs,
		ackReaction:  ackReaction,
		log:          log.Sub("relay"),
	}
}

// Finalize persists the draft as a request and dispatches it to the operator
// chat. Persistence failure is returned; delivery failure is not, the request
// is already durable and the operator notification is best effort.
func (s *Service) Finalize(ctx context.Context, sess *domain.Session) error {
	req := &domain.Request{
		UserID:   sess.UserID,
		FullName: sess.FullName,
		Phone:    sess.Phone,
		Category: sess.Category,
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		return fmt.Errorf("persist request: %w", err)
	}

	summary := fmt.Sprintf(s.msgs.OperatorSummary, req.FullName, req.Category.Label(), req.Phone)
	msgID, err := s.transport.SendText(ctx, s.operatorChat, summary, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("requestId", req.ID).Msg("operator notification failed, request kept")
		return nil
	}

	if err := s.requests.AttachOperatorMessage(ctx, req.Category, req.ID, msgID); err != nil {
		s.log.Error().Err(err).Str("requestId", req.ID).Msg("attach operator message failed")
	}

	s.replayContent(ctx, sess)

	s.log.Info().
		Str("requestId", req.ID).
		Str("category", string(req.Category)).
		Int("items", len(sess.Items)).
		Int("operatorMessageId", msgID).
		Msg("request dispatched")
	return nil
}

// replayContent re-sends the draft's content into the operator chat, in the
// order the user submitted it.
func (s *Service) replayContent(ctx context.Context, sess *domain.Session) {
	for _, item := range sess.Items {
		var err error
		switch item.Kind {
		case domain.ItemText:
			_, err = s.transport.Forward(ctx, s.operatorChat, sess.ChatID, item.MessageID)
		case domain.ItemPhoto:
			_, err = s.transport.SendPhoto(ctx, s.operatorChat, item.FileID)
		case domain.ItemDocument:
			_, err = s.transport.SendDocument(ctx, s.operatorChat, item.FileID)
		default:
			s.log.Debug().Str("kind", string(item.Kind)).Msg("skipping unsupported content item")
			continue
		}
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(item.Kind)).Msg("content relay failed")
		}
	}
}

// HandleOperatorMessage inspects a message seen in the operator chat.
// Only replies to the bot's own notifications are acted on: the replied-to
// message id is mapped back to a request, the reply text is delivered to the
// requesting user, and the request is marked answered.
func (s *Service) HandleOperatorMessage(ctx context.Context, u domain.Update) {
	if u.ReplyTo == nil || !u.ReplyTo.FromBot {
		return
	}

	req, err := s.requests.FindByOperatorMessage(ctx, u.ReplyTo.MessageID)
	if err != nil {
		if errors.Is(err, store.ErrUnmapped) {
			s.log.Debug().Int("messageId", u.ReplyTo.MessageID).Msg("reply to unmapped message, ignoring")
		} else {
			s.log.Error().Err(err).Int("messageId", u.ReplyTo.MessageID).Msg("operator message lookup failed")
		}
		return
	}

	if _, err := s.transport.SendText(ctx, req.UserID, fmt.Sprintf(s.msgs.OperatorReply, u.Text), nil); err != nil {
		// Leave the request unanswered so a later reply can still go through.
		s.log.Error().Err(err).Str("requestId", req.ID).Msg("reply delivery failed")
		return
	}

	if err := s.requests.MarkAnswered(ctx, req.Category, req.ID); err != nil {
		s.log.Error().Err(err).Str("requestId", req.ID).Msg("mark answered failed")
	}

	// mark the original notification so the operator sees it was handled
	if s.ackReaction != "" {
		if err := s.transport.React(ctx, u.ChatID, u.ReplyTo.MessageID, s.ackReaction); err != nil {
			s.log.Debug().Err(err).Msg("ack reaction failed")
		}
	}

	s.log.Info().Str("requestId", req.ID).Str("category", string(req.Category)).Msg("operator reply relayed")
}
