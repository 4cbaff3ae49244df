package intake

import (
	"github.com/avolkhin/deskbot/internal/config"
	"github.com/avolkhin/deskbot/internal/domain"
)

func startKeyboard(msgs config.MessagesConfig) *domain.Keyboard {
	return &domain.Keyboard{
		Inline: [][]domain.InlineButton{{
			{Label: msgs.ButtonCreate, Data: CallbackCreateRequest},
			{Label: msgs.ButtonAbout, Data: CallbackAboutUs},
		}},
	}
}

func anotherKeyboard(msgs config.MessagesConfig) *domain.Keyboard {
	return &domain.Keyboard{
		Inline: [][]domain.InlineButton{{
			{Label: msgs.ButtonCreateAnother, Data: CallbackCreateRequest},
		}},
	}
}

func categoryKeyboard() *domain.Keyboard {
	labels := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		labels = append(labels, c.Label())
	}
	return &domain.Keyboard{Reply: [][]string{labels}}
}

func submitKeyboard(msgs config.MessagesConfig) *domain.Keyboard {
	return &domain.Keyboard{Reply: [][]string{{msgs.ButtonSubmit, msgs.ButtonCancel}}}
}

func removeKeyboard() *domain.Keyboard {
	return &domain.Keyboard{Remove: true}
}
