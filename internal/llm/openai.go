package llm

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// OpenAIInvoker 基于 OpenAI 兼容 Chat Completions API 的调用器
// 系统提示词作为首条 system 消息发送,缓存标记在该协议下无对应语义,直接忽略。
type OpenAIInvoker struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAIInvoker 创建 OpenAI 兼容调用器
func NewOpenAIInvoker(cfg *config.LLMConfig) *OpenAIInvoker {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	// 直接使用配置的 BaseURL,不自动添加 /v1
	// 因为不同的 API 提供商可能有不同的路径格式
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
		logx.Debug("OpenAI client BaseURL: %s", cfg.BaseURL)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	logx.Info("OpenAI client initialized, model %s", cfg.Model)

	return &OpenAIInvoker{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Invoke 调用模型并提取回复文本与用量统计,失败时兜底为固定道歉回复
func (c *OpenAIInvoker) Invoke(ctx context.Context, system string, req AssembledRequest) (string, UsageStats) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		logx.Error("OpenAI API error: %v", err)
		return FallbackReply, UsageStats{}
	}

	usage := UsageStats{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if details := resp.Usage.PromptTokensDetails; details != nil {
		usage.CacheReadTokens = details.CachedTokens
	}

	logx.Info("OpenAI call stats, input %d, output %d, cache_read %d",
		usage.InputTokens, usage.OutputTokens, usage.CacheReadTokens)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logx.Error("Empty response content from OpenAI API")
		return FallbackReply, usage
	}

	return resp.Choices[0].Message.Content, usage
}
