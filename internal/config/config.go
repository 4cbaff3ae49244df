package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied. The Telegram
// token and operator chat id have no defaults; Validate flags them when
// missing.
func Defaults() Config {
	return Config{
		Telegram: TelegramConfig{
			PollTimeout: 30,
			AckReaction: "👍",
		},
		Logging: LoggingConfig{
			Level: "info",
			Style: "pretty",
		},
		Messages: DefaultMessages(),
	}
}
