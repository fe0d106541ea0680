package model

import "time"

// 消息类型
const (
	ChatTypeUser      = 1 // 用户提问
	ChatTypeAssistant = 2 // AI回答
)

// ChatLog 对话记录模型
// 只做审计与用量统计,不参与模型上下文组装
type ChatLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at" gorm:"index"`
	ExchangeID string     `json:"exchange_id" gorm:"index;size:36"` // 一次交互的追踪ID
	UserID     string     `json:"user_id" gorm:"index;size:100"`
	Source     string     `json:"source" gorm:"size:50"`  // "telegram" | "api"
	ChatType   int        `json:"chat_type" gorm:"index"` // 1=用户提问, 2=AI回答
	Content    string     `json:"content" gorm:"type:text"`

	// 用量统计,仅在 AI回答 记录上填写
	InputTokens        int `json:"input_tokens"`
	OutputTokens       int `json:"output_tokens"`
	CacheReadTokens    int `json:"cache_read_tokens"`
	CacheCreatedTokens int `json:"cache_created_tokens"`
}

// TableName 指定表名
func (ChatLog) TableName() string {
	return "chat_logs"
}
