package llm

import (
	"context"
	"fmt"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
)

// CachePrimer 支持启动时主动预热提供商缓存的调用器
type CachePrimer interface {
	PrimeCache(ctx context.Context, system, knowledgeBlock string) error
}

// NewInvoker 根据配置创建对应提供商的调用器
func NewInvoker(cfg *config.LLMConfig) (Invoker, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicInvoker(cfg), nil
	case "openai":
		return NewOpenAIInvoker(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
