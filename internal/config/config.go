package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// Config 全局配置
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        logx.Config      `mapstructure:"log"`
}

// TelegramConfig Telegram 机器人配置
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	Debug   bool   `mapstructure:"debug"`
}

// LLMConfig LLM 提供商配置
type LLMConfig struct {
	Provider         string  `mapstructure:"provider"` // "anthropic" | "openai"
	Model            string  `mapstructure:"model"`
	APIKey           string  `mapstructure:"api_key"`
	BaseURL          string  `mapstructure:"base_url"`
	SystemPromptFile string  `mapstructure:"system_prompt_file"`
	KnowledgeDir     string  `mapstructure:"knowledge_dir"`
	HistoryWindow    int     `mapstructure:"history_window"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Temperature      float64 `mapstructure:"temperature"`
	TimeoutSeconds   int     `mapstructure:"timeout"`
	PrimeCache       bool    `mapstructure:"prime_cache"`
}

// TranslatorConfig 翻译服务配置
type TranslatorConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	BotLang        string `mapstructure:"bot_lang"`   // 用户侧语言,如 "lad"
	ModelLang      string `mapstructure:"model_lang"` // 模型侧语言,如 "es"
	TimeoutSeconds int    `mapstructure:"timeout"`
}

// ServerConfig 服务端配置
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Debug     bool   `mapstructure:"debug"`
	AuthToken string `mapstructure:"auth_token"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Validate 校验必填配置,启动前缺失即失败
func (c *Config) Validate() error {
	var missing []string

	if c.Telegram.Enabled && c.Telegram.Token == "" {
		missing = append(missing, "telegram.token")
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key")
	}
	if c.LLM.SystemPromptFile == "" {
		missing = append(missing, "llm.system_prompt_file")
	}
	if c.Translator.Enabled && c.Translator.Token == "" {
		missing = append(missing, "translator.token")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	switch c.LLM.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}

	return nil
}

// LoadSystemPrompt 读取系统提示词文件,启动时读取失败视为致命错误
func (c *Config) LoadSystemPrompt() (string, error) {
	data, err := os.ReadFile(c.LLM.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file %s: %w", c.LLM.SystemPromptFile, err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file %s is empty", c.LLM.SystemPromptFile)
	}
	return prompt, nil
}
