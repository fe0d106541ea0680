package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// Translator 双向翻译接口
type Translator interface {
	// ToModel 将用户语言翻译为模型语言
	ToModel(ctx context.Context, text string) string
	// ToBot 将模型语言翻译回用户语言
	ToBot(ctx context.Context, text string) string
}

// Client Collectivat 翻译服务客户端
// 任何失败都降级为原文透传,翻译层不阻断对话
type Client struct {
	baseURL    string
	token      string
	botLang    string
	modelLang  string
	enabled    bool
	httpClient *http.Client
}

// NewClient 创建翻译客户端
func NewClient(cfg *config.TranslatorConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		botLang:   cfg.BotLang,
		modelLang: cfg.ModelLang,
		enabled:   cfg.Enabled,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ToModel 用户语言 -> 模型语言
func (c *Client) ToModel(ctx context.Context, text string) string {
	return c.translate(ctx, text, c.botLang, c.modelLang)
}

// ToBot 模型语言 -> 用户语言
func (c *Client) ToBot(ctx context.Context, text string) string {
	return c.translate(ctx, text, c.modelLang, c.botLang)
}

// translationResponse 翻译接口响应
type translationResponse struct {
	Translation string `json:"translation"`
	Usage       any    `json:"usage"`
}

// translate 调用翻译接口,失败时返回原文
func (c *Client) translate(ctx context.Context, text, src, tgt string) string {
	if !c.enabled || text == "" {
		return text
	}

	if src == "" || tgt == "" || src == tgt {
		logx.Error("Invalid translation language pair: src %q, tgt %q", src, tgt)
		return text
	}

	payload := map[string]string{
		"src":   src,
		"tgt":   tgt,
		"text":  text,
		"token": c.token,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logx.Error("Failed to marshal translation payload: %v", err)
		return text
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(data))
	if err != nil {
		logx.Error("Failed to create translation request: %v", err)
		return text
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Error("Translation API request failed: %v", err)
		return text
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logx.Error("Failed to read translation response: %v", err)
		return text
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logx.Error("Translation API error: status %d, body %s", resp.StatusCode, string(body))
		return text
	}

	var result translationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		logx.Error("Failed to parse translation response: %v", err)
		return text
	}

	if result.Translation == "" {
		logx.Warn("Translation response missing 'translation' field")
		return text
	}

	logx.Debug("Translated %s -> %s, usage: %v", src, tgt, result.Usage)

	return result.Translation
}

// Noop 关闭翻译时的直通实现
type Noop struct{}

// ToModel 直通
func (Noop) ToModel(_ context.Context, text string) string { return text }

// ToBot 直通
func (Noop) ToBot(_ context.Context, text string) string { return text }

var _ Translator = (*Client)(nil)
var _ Translator = Noop{}
