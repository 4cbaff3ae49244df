package config

// Config is the root configuration for deskbot.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Messages MessagesConfig `yaml:"messages,omitempty"`
}

// TelegramConfig configures the Telegram transport.
type TelegramConfig struct {
	// Token is the bot token. Supports ${ENV_VAR} references so the token
	// can stay out of the config file.
	Token string `yaml:"token"`

	// OperatorChatID is the shared operator channel. All request
	// notifications go there and operator replies are read from there.
	OperatorChatID int64 `yaml:"operatorChatId"`

	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int `yaml:"pollTimeout,omitempty"`

	// AckReaction is the emoji placed on a notification once its reply has
	// been relayed. Empty disables the reaction.
	AckReaction string `yaml:"ackReaction,omitempty"`
}

// StorageConfig configures the SQLite database.
type StorageConfig struct {
	// Path overrides the default database location (<data dir>/deskbot.db).
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
