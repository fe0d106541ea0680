package llm

import "context"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn 一轮对话消息,创建后不可变
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message 发送给提供商的消息,Cached 标记内容跨调用稳定可被提供商缓存
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Cached  bool   `json:"cached,omitempty"`
}

// AssembledRequest 一次交互发送给提供商的有序消息列表,每次调用重新构建
type AssembledRequest struct {
	Messages []Message
}

// UsageStats 提供商返回的用量统计,仅做观测不参与控制流
type UsageStats struct {
	InputTokens        int `json:"input_tokens"`
	OutputTokens       int `json:"output_tokens"`
	CacheReadTokens    int `json:"cache_read_tokens"`
	CacheCreatedTokens int `json:"cache_created_tokens"`
}

// FallbackReply 提供商调用失败时返回给用户的兜底回复
const FallbackReply = "Te rogo diskulpas, no esta kaminando bueno. Aprova otruna vez."

// Invoker LLM 调用器
// Invoke 不向调用方返回错误:所有失败在此边界内兜底为固定道歉回复加空用量。
type Invoker interface {
	Invoke(ctx context.Context, system string, req AssembledRequest) (string, UsageStats)
}
