package llm

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// AnthropicInvoker 基于 Anthropic Messages API 的调用器
// 知识块消息携带 ephemeral cache_control 标记,命中提供商的提示词缓存。
type AnthropicInvoker struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// NewAnthropicInvoker 创建 Anthropic 调用器
func NewAnthropicInvoker(cfg *config.LLMConfig, opts ...option.RequestOption) *AnthropicInvoker {
	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	options = append(options, opts...)

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	logx.Info("Anthropic client initialized, model %s", cfg.Model)

	return &AnthropicInvoker{
		client:      anthropic.NewClient(options...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}
}

// Invoke 调用模型并提取回复文本与用量统计
// 所有失败都在这里兜底:传输错误返回固定道歉回复加空用量,
// 空响应返回道歉回复加已解析的用量,错误不向上传播。
func (c *AnthropicInvoker) Invoke(ctx context.Context, system string, req AssembledRequest) (string, UsageStats) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    convertAnthropicMessages(req.Messages),
	})
	if err != nil {
		logx.Error("Anthropic API error: %v", err)
		return FallbackReply, UsageStats{}
	}

	// 缺失的缓存计数字段反序列化为 0,不会使调用失败
	usage := UsageStats{
		InputTokens:        int(msg.Usage.InputTokens),
		OutputTokens:       int(msg.Usage.OutputTokens),
		CacheReadTokens:    int(msg.Usage.CacheReadInputTokens),
		CacheCreatedTokens: int(msg.Usage.CacheCreationInputTokens),
	}

	logx.Info("Anthropic call stats, input %d, output %d, cache_read %d, cache_created %d",
		usage.InputTokens, usage.OutputTokens, usage.CacheReadTokens, usage.CacheCreatedTokens)

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, usage
		}
	}

	logx.Error("Empty response content from Anthropic API")
	return FallbackReply, usage
}

// PrimeCache 启动时发起一次最小调用,让知识块先行写入提供商缓存
func (c *AnthropicInvoker) PrimeCache(ctx context.Context, system, knowledgeBlock string) error {
	if knowledgeBlock == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   1, // 只为建立缓存,回复本身丢弃
		Temperature: anthropic.Float(c.temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: convertAnthropicMessages([]Message{
			{Role: RoleUser, Content: knowledgeBlock, Cached: true},
		}),
	})
	if err != nil {
		return err
	}

	logx.Info("Knowledge base cache initialized")
	return nil
}

// convertAnthropicMessages 转换消息格式,缓存标记映射为 cache_control
func convertAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		block := anthropic.TextBlockParam{Text: msg.Content}
		if msg.Cached {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}

		role := anthropic.MessageParamRoleUser
		if msg.Role == RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}

		out = append(out, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{{OfText: &block}},
		})
	}
	return out
}
