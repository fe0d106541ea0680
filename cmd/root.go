package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CollectivaT-dev/ladinobot/internal/chat"
	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/database"
	"github.com/CollectivaT-dev/ladinobot/internal/history"
	"github.com/CollectivaT-dev/ladinobot/internal/knowledge"
	"github.com/CollectivaT-dev/ladinobot/internal/llm"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
	"github.com/CollectivaT-dev/ladinobot/internal/server"
	"github.com/CollectivaT-dev/ladinobot/internal/service"
	"github.com/CollectivaT-dev/ladinobot/internal/telegram"
	"github.com/CollectivaT-dev/ladinobot/internal/translator"
)

// 构建时通过 ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var cfgFile string

// rootCmd 根命令,运行聊天网关
var rootCmd = &cobra.Command{
	Use:   "ladinobot",
	Short: "Ladino 语聊天机器人网关",
	Long:  `LadinoBot 是一个 Telegram 聊天机器人网关:入站消息经机器翻译送往 LLM,回复再翻译回 Ladino 语返回用户。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGateway()
	},
}

// Execute 运行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
}

// runGateway 启动网关:Telegram 机器人 + HTTP 管理 API
func runGateway() error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logx.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logx.Sync()

	logx.Info("LadinoBot starting, version %s, commit %s", Version, GitCommit)

	database.SetPath(cfg.Database.Path)
	defer func() { _ = database.Close() }()

	systemPrompt, err := cfg.LoadSystemPrompt()
	if err != nil {
		return fmt.Errorf("failed to load system prompt: %w", err)
	}

	resources := knowledge.Load(cfg.LLM.KnowledgeDir)
	knowledgeBlock := knowledge.BuildBlock(resources)
	logx.Info("Knowledge base loaded: %d resources, block size %d", len(resources), len(knowledgeBlock))

	invoker, err := llm.NewInvoker(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM invoker: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 缓存预热失败不阻断启动
	if primer, ok := invoker.(llm.CachePrimer); ok && cfg.LLM.PrimeCache {
		if err := primer.PrimeCache(ctx, systemPrompt, knowledgeBlock); err != nil {
			logx.Error("Cache priming failed: %v", err)
		}
	}

	store := history.NewStore(cfg.LLM.HistoryWindow)
	assembler := llm.NewAssembler(knowledgeBlock, cfg.LLM.HistoryWindow)
	chatLogs := service.NewChatLogService()

	var trans translator.Translator = translator.Noop{}
	if cfg.Translator.Enabled {
		trans = translator.NewClient(&cfg.Translator)
	}

	pipeline := chat.NewPipeline(invoker, assembler, store, trans, chatLogs, systemPrompt)

	errCh := make(chan error, 2)

	var httpServer *server.HTTPServer
	if cfg.Server.HTTP.Enabled {
		server.SetVersionInfo(Version, GitCommit, BuildTime)
		httpServer = server.NewHTTPServer(cfg, pipeline, chatLogs, resources)
		go func() {
			if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	if cfg.Telegram.Enabled {
		bot, err := telegram.NewService(&cfg.Telegram, pipeline)
		if err != nil {
			return fmt.Errorf("failed to create telegram service: %w", err)
		}
		go func() {
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("telegram service error: %w", err)
			}
		}()
	}

	if !cfg.Telegram.Enabled && !cfg.Server.HTTP.Enabled {
		return fmt.Errorf("nothing to run: both telegram bot and http server are disabled")
	}

	select {
	case <-ctx.Done():
		logx.Info("Shutdown signal received")
	case err := <-errCh:
		logx.Error("Service failed: %v", err)
		stop()
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logx.Error("Failed to stop HTTP server: %v", err)
		}
	}

	logx.Info("LadinoBot stopped")
	return nil
}
