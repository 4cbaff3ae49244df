package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkhin/deskbot/internal/domain"
)

const selfID int64 = 777000

func textUpdate(chatID, fromID int64, msgID int, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: msgID,
			From:      &tgbotapi.User{ID: fromID, UserName: "user"},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
		},
	}
}

func TestConvert_TextMessage(t *testing.T) {
	u, ok := convert(textUpdate(42, 42, 10, "привет"), selfID)

	require.True(t, ok)
	assert.Equal(t, 10, u.MessageID)
	assert.Equal(t, int64(42), u.ChatID)
	assert.Equal(t, int64(42), u.SenderID)
	assert.Equal(t, "привет", u.Text)
	assert.Nil(t, u.ReplyTo)
}

func TestConvert_PhotoTakesLargestSize(t *testing.T) {
	raw := textUpdate(42, 42, 10, "")
	raw.Message.Caption = "подпись"
	raw.Message.Photo = []tgbotapi.PhotoSize{
		{FileID: "small"},
		{FileID: "medium"},
		{FileID: "large"},
	}

	u, ok := convert(raw, selfID)

	require.True(t, ok)
	assert.Equal(t, "large", u.PhotoFileID)
	assert.Equal(t, "подпись", u.Text)
	assert.Equal(t, domain.ItemPhoto, u.ContentOf().Kind)
}

func TestConvert_Document(t *testing.T) {
	raw := textUpdate(42, 42, 10, "")
	raw.Message.Document = &tgbotapi.Document{FileID: "doc-1"}

	u, ok := convert(raw, selfID)

	require.True(t, ok)
	assert.Equal(t, "doc-1", u.DocumentFileID)
	assert.Equal(t, domain.ItemDocument, u.ContentOf().Kind)
}

func TestConvert_ReplyToBotDetected(t *testing.T) {
	raw := textUpdate(-100500, 9, 301, "ответ оператора")
	raw.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 90,
		From:      &tgbotapi.User{ID: selfID, IsBot: true},
	}

	u, ok := convert(raw, selfID)

	require.True(t, ok)
	require.NotNil(t, u.ReplyTo)
	assert.Equal(t, 90, u.ReplyTo.MessageID)
	assert.True(t, u.ReplyTo.FromBot)
}

func TestConvert_ReplyToHumanNotFromBot(t *testing.T) {
	raw := textUpdate(-100500, 9, 301, "ответ коллеге")
	raw.Message.ReplyToMessage = &tgbotapi.Message{
		MessageID: 91,
		From:      &tgbotapi.User{ID: 12345},
	}

	u, ok := convert(raw, selfID)

	require.True(t, ok)
	require.NotNil(t, u.ReplyTo)
	assert.False(t, u.ReplyTo.FromBot)
}

func TestConvert_CallbackQuery(t *testing.T) {
	raw := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-77",
			From: &tgbotapi.User{ID: 42, UserName: "user"},
			Message: &tgbotapi.Message{
				MessageID: 5,
				Chat:      &tgbotapi.Chat{ID: 42},
			},
			Data: "create_request",
		},
	}

	u, ok := convert(raw, selfID)

	require.True(t, ok)
	assert.Equal(t, "create_request", u.Callback)
	assert.Equal(t, "cb-77", u.CallbackID)
	assert.Equal(t, int64(42), u.ChatID)
	assert.Equal(t, 5, u.MessageID)
}

func TestConvert_EmptyUpdateDropped(t *testing.T) {
	_, ok := convert(tgbotapi.Update{}, selfID)
	assert.False(t, ok)
}

func TestKeyboardMarkup(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, keyboardMarkup(nil))
	})

	t.Run("remove", func(t *testing.T) {
		markup := keyboardMarkup(&domain.Keyboard{Remove: true})
		rm, ok := markup.(tgbotapi.ReplyKeyboardRemove)
		require.True(t, ok)
		assert.True(t, rm.RemoveKeyboard)
	})

	t.Run("inline", func(t *testing.T) {
		markup := keyboardMarkup(&domain.Keyboard{
			Inline: [][]domain.InlineButton{{
				{Label: "Создать заявку", Data: "create_request"},
				{Label: "О нас", Data: "about_us"},
			}},
		})
		ik, ok := markup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, ik.InlineKeyboard, 1)
		require.Len(t, ik.InlineKeyboard[0], 2)
		assert.Equal(t, "Создать заявку", ik.InlineKeyboard[0][0].Text)
		require.NotNil(t, ik.InlineKeyboard[0][0].CallbackData)
		assert.Equal(t, "create_request", *ik.InlineKeyboard[0][0].CallbackData)
	})

	t.Run("reply", func(t *testing.T) {
		markup := keyboardMarkup(&domain.Keyboard{
			Reply: [][]string{{"по документам", "по срокам", "по оплате"}},
		})
		rk, ok := markup.(tgbotapi.ReplyKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, rk.Keyboard, 1)
		assert.Equal(t, "по срокам", rk.Keyboard[0][1].Text)
		assert.True(t, rk.ResizeKeyboard)
	})
}
