package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// WelcomeMessage /start 命令的欢迎语
const WelcomeMessage = `¡Ola!

So Estreya Perez, su giador de la aluenga Ladino i la kultura sefaradi de el siglo XIX Estanbol.

Como puedo ayudole oy? Puedes demandarme aserka de :
- Lengaje i ekspresiones Ladino
- Las kostumbres i tradisiones sefaradies
- La vida en Estanbol de el siglo XIX
- Mi famiya i komunidad

En ke puedo ayudole?`

// Exchanger 一次对话交换的处理入口
type Exchanger interface {
	Exchange(ctx context.Context, userID, source, text string) string
}

// Service Telegram 机器人服务,长轮询接收消息
type Service struct {
	bot      *tgbotapi.BotAPI
	pipeline Exchanger
}

// NewService 创建 Telegram 服务
func NewService(cfg *config.TelegramConfig, pipeline Exchanger) (*Service, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	bot.Debug = cfg.Debug

	logx.Info("Telegram bot authorized: account %s", bot.Self.UserName)

	return &Service{
		bot:      bot,
		pipeline: pipeline,
	}, nil
}

// Run 启动长轮询循环,阻塞直到 ctx 取消
// 更新按到达顺序串行处理,保证同一用户的读改写有序
func (s *Service) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := s.bot.GetUpdatesChan(updateConfig)

	logx.Info("Telegram bot started, polling for updates")

	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			logx.Info("Telegram bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			s.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate 处理单条更新,内部异常不中断轮询循环
func (s *Service) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error("Panic while handling Telegram update: %v", r)
		}
	}()

	if update.Message == nil {
		return
	}

	replyText := s.replyFor(ctx, update.Message)
	if replyText == "" {
		return
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, replyText)
	msg.ReplyToMessageID = update.Message.MessageID

	if _, err := s.bot.Send(msg); err != nil {
		logx.Error("Failed to send Telegram message: chat %d, %v", update.Message.Chat.ID, err)
	}
}

// replyFor 计算一条消息的回复文本,空串表示不回复
func (s *Service) replyFor(ctx context.Context, message *tgbotapi.Message) string {
	// 频道消息等场景下没有发送者,直接忽略
	if message.From == nil {
		return ""
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			logx.Info("New user started conversation: %d", message.From.ID)
			return WelcomeMessage
		default:
			return ""
		}
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return ""
	}

	userID := strconv.FormatInt(message.From.ID, 10)

	return s.pipeline.Exchange(ctx, userID, "telegram", text)
}
