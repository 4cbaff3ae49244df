// Package telegram implements the Telegram transport using the Bot API
// long-polling client.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/domain"
	"github.com/avolkhin/deskbot/internal/logging"
)

// Bot wraps the Telegram Bot API client. It implements domain.Transport and
// feeds inbound updates to a registered handler.
type Bot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
	log         *logging.Logger

	mu      sync.RWMutex
	handler func(ctx context.Context, u domain.Update)
	running bool
}

// New authenticates against the Bot API and returns a ready bot.
func New(cfg config.TelegramConfig, log *logging.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	b := &Bot{
		api:         api,
		pollTimeout: cfg.PollTimeout,
		log:         log.Sub("telegram"),
	}
	b.log.Info().Str("username", api.Self.UserName).Int64("botId", api.Self.ID).Msg("authenticated")
	return b, nil
}

// OnUpdate registers the handler for inbound updates. Must be called before
// Start.
func (b *Bot) OnUpdate(handler func(ctx context.Context, u domain.Update)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
}

// Start runs the long-poll loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("telegram: already started")
	}
	b.running = true
	handler := b.handler
	b.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("telegram: no update handler registered")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(updateCfg)

	b.log.Info().Int("pollTimeout", b.pollTimeout).Msg("polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.mu.Lock()
			b.running = false
			b.mu.Unlock()
			b.log.Info().Msg("poll loop stopped")
			return ctx.Err()
		case raw, ok := <-updates:
			if !ok {
				b.mu.Lock()
				b.running = false
				b.mu.Unlock()
				return nil
			}
			u, ok := convert(raw, b.api.Self.ID)
			if !ok {
				continue
			}
			handler(ctx, u)
		}
	}
}

// convert maps a raw Bot API update onto the transport-neutral shape. Updates
// with no usable payload are dropped.
func convert(raw tgbotapi.Update, selfID int64) (domain.Update, bool) {
	if raw.CallbackQuery != nil {
		cb := raw.CallbackQuery
		u := domain.Update{
			SenderID:   cb.From.ID,
			SenderName: cb.From.UserName,
			Callback:   cb.Data,
			CallbackID: cb.ID,
		}
		if cb.Message != nil {
			u.ChatID = cb.Message.Chat.ID
			u.MessageID = cb.Message.MessageID
		} else {
			u.ChatID = cb.From.ID
		}
		return u, true
	}

	msg := raw.Message
	if msg == nil || msg.From == nil {
		return domain.Update{}, false
	}

	u := domain.Update{
		MessageID:  msg.MessageID,
		ChatID:     msg.Chat.ID,
		SenderID:   msg.From.ID,
		SenderName: msg.From.UserName,
		Text:       msg.Text,
	}
	if u.Text == "" {
		u.Text = msg.Caption
	}
	if len(msg.Photo) > 0 {
		// sizes are ordered smallest first; take the largest rendition
		u.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil {
		u.DocumentFileID = msg.Document.FileID
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		u.ReplyTo = &domain.ReplyRef{
			MessageID: msg.ReplyToMessage.MessageID,
			FromBot:   msg.ReplyToMessage.From.ID == selfID,
		}
	}
	return u, true
}

// SendText delivers a text message with an optional keyboard.
func (b *Bot) SendText(_ context.Context, chatID int64, text string, kb *domain.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := keyboardMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send text: %w", err)
	}
	return sent.MessageID, nil
}

// SendPhoto re-sends an already-uploaded photo by file id.
func (b *Bot) SendPhoto(_ context.Context, chatID int64, fileID string) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID)))
	if err != nil {
		return 0, fmt.Errorf("send photo: %w", err)
	}
	return sent.MessageID, nil
}

// SendDocument re-sends an already-uploaded document by file id.
func (b *Bot) SendDocument(_ context.Context, chatID int64, fileID string) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewDocument(chatID, tgbotapi.FileID(fileID)))
	if err != nil {
		return 0, fmt.Errorf("send document: %w", err)
	}
	return sent.MessageID, nil
}

// Forward forwards a message between chats, keeping the original attribution.
func (b *Bot) Forward(_ context.Context, toChatID, fromChatID int64, messageID int) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewForward(toChatID, fromChatID, messageID))
	if err != nil {
		return 0, fmt.Errorf("forward: %w", err)
	}
	return sent.MessageID, nil
}

// React sets an emoji reaction on a message. The wrapper library predates
// setMessageReaction, so this goes through the raw API.
func (b *Bot) React(_ context.Context, chatID int64, messageID int, emoji string) error {
	reaction, err := json.Marshal([]map[string]string{{"type": "emoji", "emoji": emoji}})
	if err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_id", messageID)
	params["reaction"] = string(reaction)

	if _, err := b.api.MakeRequest("setMessageReaction", params); err != nil {
		return fmt.Errorf("set reaction: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops showing a
// spinner.
func (b *Bot) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// keyboardMarkup maps the transport-neutral keyboard onto Bot API markup.
func keyboardMarkup(kb *domain.Keyboard) any {
	switch {
	case kb == nil:
		return nil
	case kb.Remove:
		return tgbotapi.NewRemoveKeyboard(false)
	case len(kb.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	case len(kb.Reply) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Reply))
		for _, row := range kb.Reply {
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				btns = append(btns, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewReplyKeyboard(rows...)
	}
	return nil
}
