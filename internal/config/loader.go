package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从YAML文件加载配置
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认配置文件搜索路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.ladinobot")
		v.AddConfigPath("/etc/ladinobot")
	}

	// 支持环境变量
	v.SetEnvPrefix("LADINOBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果是找不到配置文件，则使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 替换环境变量
	expandEnvVars(&config)

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Telegram 默认配置
	v.SetDefault("telegram.enabled", true)

	// LLM 默认配置
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("llm.system_prompt_file", "system_prompt.md")
	v.SetDefault("llm.knowledge_dir", "knowledge")
	v.SetDefault("llm.history_window", 10)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.timeout", 120)
	v.SetDefault("llm.prime_cache", true)

	// 翻译服务默认配置
	v.SetDefault("translator.enabled", true)
	v.SetDefault("translator.base_url", "http://api.collectivat.cat/translate/")
	v.SetDefault("translator.bot_lang", "lad")
	v.SetDefault("translator.model_lang", "es")
	v.SetDefault("translator.timeout", 15)

	// Server 默认配置
	v.SetDefault("server.http.enabled", true)
	v.SetDefault("server.http.port", 8080)

	// 数据库默认配置
	v.SetDefault("database.path", "./data/ladinobot.db")

	// 日志默认配置
	v.SetDefault("log.file", "./ladinobot.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
}

// expandEnvVars 展开环境变量
func expandEnvVars(config *Config) {
	config.Telegram.Token = os.ExpandEnv(config.Telegram.Token)
	config.LLM.APIKey = os.ExpandEnv(config.LLM.APIKey)
	config.Translator.Token = os.ExpandEnv(config.Translator.Token)
	config.Server.HTTP.AuthToken = os.ExpandEnv(config.Server.HTTP.AuthToken)
}
