package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
	"github.com/CollectivaT-dev/ladinobot/internal/database"
	"github.com/CollectivaT-dev/ladinobot/internal/logx"
	"github.com/CollectivaT-dev/ladinobot/internal/model"
	"github.com/CollectivaT-dev/ladinobot/internal/service"
)

var (
	logsUserID string
	logsSource string
	logsLimit  int
)

// logsCmd 查看最近的对话日志
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "查看最近的对话日志",
	Long:  `以表格形式展示最近的对话记录及其 token 用量。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logx.Init(cfg.Log); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer logx.Sync()

		database.SetPath(cfg.Database.Path)
		defer func() { _ = database.Close() }()

		chatLogs := service.NewChatLogService()

		logs, total, err := chatLogs.ListChatLogs(logsUserID, logsSource, 0, logsLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to list chat logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No chat logs found")
			return nil
		}

		rows := make([][]string, 0, len(logs))
		for _, log := range logs {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(log.ID), 10),
				log.CreatedAt.Format("2006-01-02 15:04:05"),
				log.UserID,
				log.Source,
				chatTypeName(log.ChatType),
				truncate(log.Content, 60),
				strconv.Itoa(log.InputTokens),
				strconv.Itoa(log.OutputTokens),
				strconv.Itoa(log.CacheReadTokens),
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("ID", "Time", "User", "Source", "Role", "Content", "Input", "Output", "Cache Read").
			Rows(rows...)

		fmt.Println(t)
		fmt.Println()
		fmt.Printf("Showing %d of %d records\n", len(logs), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsUserID, "user", "", "按用户 ID 过滤")
	logsCmd.Flags().StringVar(&logsSource, "source", "", "按来源过滤 (telegram/api)")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 20, "显示条数")
}

// chatTypeName 消息类型展示名
func chatTypeName(t int) string {
	switch t {
	case model.ChatTypeUser:
		return "user"
	case model.ChatTypeAssistant:
		return "assistant"
	default:
		return strconv.Itoa(t)
	}
}

// truncate 截断长文本用于表格展示
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
