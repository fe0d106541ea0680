package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/CollectivaT-dev/ladinobot/internal/model"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ChatLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
