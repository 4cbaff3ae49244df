package config

import (
	"os"
	"reflect"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// Load reads the config file, applies defaults and environment overrides,
// and returns the merged Config. A missing file produces defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	cfg.Telegram.Token = expandEnvVars(cfg.Telegram.Token)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults. Needed after
// unmarshaling because YAML overwrites whole structs.
func applyDefaults(cfg *Config) {
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 30
	}
	if cfg.Telegram.AckReaction == "" {
		cfg.Telegram.AckReaction = "👍"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = "pretty"
	}
	mergeMessageDefaults(&cfg.Messages)
}

// mergeMessageDefaults fills empty catalog entries from DefaultMessages.
// All MessagesConfig fields are strings, so a reflect sweep keeps this in
// sync with the catalog as fields are added.
func mergeMessageDefaults(msgs *MessagesConfig) {
	defaults := DefaultMessages()
	dst := reflect.ValueOf(msgs).Elem()
	src := reflect.ValueOf(defaults)
	for i := 0; i < dst.NumField(); i++ {
		if dst.Field(i).String() == "" {
			dst.Field(i).Set(src.Field(i))
		}
	}
}

// applyEnvOverrides reads DESKBOT_* environment variables and overrides
// config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DESKBOT_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("DESKBOT_OPERATOR_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.OperatorChatID = id
		}
	}
	if v := os.Getenv("DESKBOT_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DESKBOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
