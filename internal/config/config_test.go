package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 30, cfg.Telegram.PollTimeout)
	assert.Equal(t, "👍", cfg.Telegram.AckReaction)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "pretty", cfg.Logging.Style)
	assert.NotEmpty(t, cfg.Messages.Welcome)
	assert.Equal(t, "Отправить заявку", cfg.Messages.ButtonSubmit)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	// Should return defaults
	assert.Equal(t, 30, cfg.Telegram.PollTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
telegram:
  token: "123:abc"
  operatorChatId: -100123456
  pollTimeout: 60
storage:
  path: /tmp/test.db
logging:
  level: debug
  style: json
messages:
  welcome: "Custom welcome"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-100123456), cfg.Telegram.OperatorChatID)
	assert.Equal(t, 60, cfg.Telegram.PollTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Style)

	// Overridden message sticks, untouched ones fall back to defaults.
	assert.Equal(t, "Custom welcome", cfg.Messages.Welcome)
	assert.Equal(t, DefaultMessages().AskName, cfg.Messages.AskName)
	assert.Equal(t, DefaultMessages().OperatorSummary, cfg.Messages.OperatorSummary)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DESKBOT_TELEGRAM_TOKEN", "env-token")
	t.Setenv("DESKBOT_OPERATOR_CHAT_ID", "-42")
	t.Setenv("DESKBOT_LOG_LEVEL", "trace")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, int64(-42), cfg.Telegram.OperatorChatID)
	assert.Equal(t, "trace", cfg.Logging.Level)
}

func TestLoadTokenExpansion(t *testing.T) {
	t.Setenv("MY_BOT_TOKEN", "secret-token")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  token: "${MY_BOT_TOKEN}"
  operatorChatId: -1
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Telegram.Token)
}

func TestLoadTokenExpansion_UnsetVarKept(t *testing.T) {
	assert.Equal(t, "${DESKBOT_NO_SUCH_VAR}", expandEnvVars("${DESKBOT_NO_SUCH_VAR}"))
}

func TestValidateValid(t *testing.T) {
	cfg := Defaults()
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.OperatorChatID = -100
	issues := Validate(&cfg)
	assert.Empty(t, issues)
}

func TestValidateMissingRequired(t *testing.T) {
	cfg := Defaults()
	issues := Validate(&cfg)
	require.Len(t, issues, 2)

	var paths []string
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	assert.Contains(t, paths, "telegram.token")
	assert.Contains(t, paths, "telegram.operatorChatId")
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Telegram.Token = "t"
	cfg.Telegram.OperatorChatID = 1
	cfg.Logging.Level = "verbose"
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "logging.level", issues[0].Path)
}

func TestValidateInvalidPollTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Telegram.Token = "t"
	cfg.Telegram.OperatorChatID = 1
	cfg.Telegram.PollTimeout = 1000
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "telegram.pollTimeout", issues[0].Path)
}

func TestResolvePaths_HomeOverride(t *testing.T) {
	t.Setenv("DESKBOT_HOME", "/custom/deskbot")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/custom/deskbot", p.Base)
	assert.Equal(t, filepath.Join("/custom/deskbot", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/custom/deskbot", "data"), p.Data)
}

func TestDatabasePath(t *testing.T) {
	p := Paths{Data: "/data"}

	cfg := Defaults()
	assert.Equal(t, filepath.Join("/data", "deskbot.db"), p.DatabasePath(&cfg))

	cfg.Storage.Path = "/elsewhere/bot.db"
	assert.Equal(t, "/elsewhere/bot.db", p.DatabasePath(&cfg))
}
