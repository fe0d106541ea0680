package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, "telegram:\n  enabled: false\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 10, cfg.LLM.HistoryWindow)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.InDelta(t, 1.0, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, "knowledge", cfg.LLM.KnowledgeDir)
	assert.Equal(t, "lad", cfg.Translator.BotLang)
	assert.Equal(t, "es", cfg.Translator.ModelLang)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.False(t, cfg.Telegram.Enabled)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "tg-secret")
	t.Setenv("TEST_API_KEY", "llm-secret")

	path := writeTempConfig(t, `
telegram:
  token: ${TEST_BOT_TOKEN}
llm:
  api_key: ${TEST_API_KEY}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "tg-secret", cfg.Telegram.Token)
	assert.Equal(t, "llm-secret", cfg.LLM.APIKey)
}

func TestValidateMissingRequired(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Enabled = true
	cfg.Translator.Enabled = true
	cfg.LLM.Provider = "anthropic"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token")
	assert.Contains(t, err.Error(), "llm.api_key")
	assert.Contains(t, err.Error(), "llm.system_prompt_file")
	assert.Contains(t, err.Error(), "translator.token")
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Provider = "mystery"
	cfg.LLM.APIKey = "key"
	cfg.LLM.SystemPromptFile = "prompt.md"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestLoadSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "system_prompt.md")
	require.NoError(t, os.WriteFile(promptFile, []byte("  You are Estreya.  \n"), 0o644))

	cfg := &Config{}
	cfg.LLM.SystemPromptFile = promptFile

	prompt, err := cfg.LoadSystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "You are Estreya.", prompt)

	cfg.LLM.SystemPromptFile = filepath.Join(dir, "missing.md")
	_, err = cfg.LoadSystemPrompt()
	assert.Error(t, err)
}
