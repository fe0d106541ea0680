package service

import (
	"gorm.io/gorm"

	"github.com/CollectivaT-dev/ladinobot/internal/database"
	"github.com/CollectivaT-dev/ladinobot/internal/model"
)

// ChatLogService 对话日志服务
type ChatLogService struct {
	db *gorm.DB
}

// NewChatLogService 创建对话日志服务实例
func NewChatLogService() *ChatLogService {
	return &ChatLogService{
		db: database.GetDB(),
	}
}

// NewChatLogServiceWithDB 使用指定数据库连接创建服务实例
func NewChatLogServiceWithDB(db *gorm.DB) *ChatLogService {
	return &ChatLogService{db: db}
}

// GetDB 获取数据库连接
func (s *ChatLogService) GetDB() *gorm.DB {
	return s.db
}

// CreateChatLog 创建对话日志
func (s *ChatLogService) CreateChatLog(log *model.ChatLog) error {
	return s.db.Create(log).Error
}

// CreateUserMessage 创建用户消息日志
func (s *ChatLogService) CreateUserMessage(exchangeID, userID, source, content string) (*model.ChatLog, error) {
	log := &model.ChatLog{
		ExchangeID: exchangeID,
		UserID:     userID,
		Source:     source,
		ChatType:   model.ChatTypeUser,
		Content:    content,
	}
	if err := s.CreateChatLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

// CreateAssistantMessage 创建AI回复日志,附带用量统计
func (s *ChatLogService) CreateAssistantMessage(exchangeID, userID, source, content string, inputTokens, outputTokens, cacheReadTokens, cacheCreatedTokens int) (*model.ChatLog, error) {
	log := &model.ChatLog{
		ExchangeID:         exchangeID,
		UserID:             userID,
		Source:             source,
		ChatType:           model.ChatTypeAssistant,
		Content:            content,
		InputTokens:        inputTokens,
		OutputTokens:       outputTokens,
		CacheReadTokens:    cacheReadTokens,
		CacheCreatedTokens: cacheCreatedTokens,
	}
	if err := s.CreateChatLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

// ListChatLogs 列出对话日志
func (s *ChatLogService) ListChatLogs(userID, source string, chatType int, limit, offset int) ([]model.ChatLog, int64, error) {
	query := s.db.Model(&model.ChatLog{})

	// 条件过滤
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if chatType > 0 {
		query = query.Where("chat_type = ?", chatType)
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	var logs []model.ChatLog
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}

// UsageSummary 用量汇总
type UsageSummary struct {
	Exchanges          int64 `json:"exchanges"`
	InputTokens        int64 `json:"input_tokens"`
	OutputTokens       int64 `json:"output_tokens"`
	CacheReadTokens    int64 `json:"cache_read_tokens"`
	CacheCreatedTokens int64 `json:"cache_created_tokens"`
}

// GetUsageSummary 获取用量汇总统计
func (s *ChatLogService) GetUsageSummary() (*UsageSummary, error) {
	var summary UsageSummary

	err := s.db.Model(&model.ChatLog{}).
		Where("chat_type = ?", model.ChatTypeAssistant).
		Select(`COUNT(*) AS exchanges,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			COALESCE(SUM(cache_read_tokens), 0) AS cache_read_tokens,
			COALESCE(SUM(cache_created_tokens), 0) AS cache_created_tokens`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// DeleteChatLog 删除对话日志（软删除）
func (s *ChatLogService) DeleteChatLog(id uint) error {
	return s.db.Delete(&model.ChatLog{}, id).Error
}
