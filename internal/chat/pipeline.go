package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/CollectivaT-dev/ladinobot/internal/history"
	"github.com/CollectivaT-dev/ladinobot/internal/llm"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
	"github.com/CollectivaT-dev/ladinobot/internal/service"
	"github.com/CollectivaT-dev/ladinobot/internal/translator"
)

// ErrorReply 处理异常时返回给用户的兜底回复
const ErrorReply = "Lo siento, akontesyo un falta. Por favor, intentalo de muevo."

// Pipeline 一次完整对话交换的处理管道
// 翻译入 -> 读历史 -> 组装上下文 -> 调用模型 -> 写历史 -> 落库 -> 翻译出
type Pipeline struct {
	invoker    llm.Invoker
	assembler  *llm.Assembler
	history    *history.Store
	translator translator.Translator
	chatLogs   *service.ChatLogService
	system     string
}

// NewPipeline 创建对话管道,chatLogs 允许为 nil(不落库)
func NewPipeline(
	invoker llm.Invoker,
	assembler *llm.Assembler,
	store *history.Store,
	trans translator.Translator,
	chatLogs *service.ChatLogService,
	systemPrompt string,
) *Pipeline {
	return &Pipeline{
		invoker:    invoker,
		assembler:  assembler,
		history:    store,
		translator: trans,
		chatLogs:   chatLogs,
		system:     systemPrompt,
	}
}

// Exchange 处理一次用户消息,始终返回可直接回复用户的文本
func (p *Pipeline) Exchange(ctx context.Context, userID, source, text string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error("Panic while processing message from %s: %v", userID, r)
			reply = ErrorReply
		}
	}()

	exchangeID := uuid.NewString()

	logx.Info("Received message: exchange %s, user %s, source %s", exchangeID, userID, source)

	modelText := p.translator.ToModel(ctx, text)
	logx.Debug("Translated inbound: exchange %s, text %s", exchangeID, modelText)

	turns := p.history.Get(userID)
	req := p.assembler.Assemble(turns, modelText)

	answer, usage := p.invoker.Invoke(ctx, p.system, req)

	// 历史始终记录模型语言的原文,兜底回复也记录,保持与模型视角一致
	p.history.Append(userID, llm.RoleUser, modelText)
	p.history.Append(userID, llm.RoleAssistant, answer)

	p.persist(exchangeID, userID, source, modelText, answer, usage)

	reply = p.translator.ToBot(ctx, answer)

	logx.Info("Exchange done: exchange %s, user %s, input %d, output %d, cache_read %d, cache_created %d",
		exchangeID, userID, usage.InputTokens, usage.OutputTokens, usage.CacheReadTokens, usage.CacheCreatedTokens)

	return reply
}

// persist 落库失败只记日志,不影响对话
func (p *Pipeline) persist(exchangeID, userID, source, question, answer string, usage llm.UsageStats) {
	if p.chatLogs == nil {
		return
	}

	if _, err := p.chatLogs.CreateUserMessage(exchangeID, userID, source, question); err != nil {
		logx.Error("Failed to persist user message: exchange %s, %v", exchangeID, err)
	}

	if _, err := p.chatLogs.CreateAssistantMessage(exchangeID, userID, source, answer,
		usage.InputTokens, usage.OutputTokens, usage.CacheReadTokens, usage.CacheCreatedTokens); err != nil {
		logx.Error("Failed to persist assistant message: exchange %s, %v", exchangeID, err)
	}
}
