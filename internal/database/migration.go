package database

import (
	"fmt"

	"github.com/amspokrm578/Tooling-application/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Tool{},
		&models.Borrowing{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 一个工具最多只有一条未归还记录。部分唯一索引是最终裁判：
	// 并发借用同一工具时，第二条插入会撞索引而不是双双成功。
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_open_borrowing ON borrowings(tool_id) WHERE returned_at IS NULL",
	).Error; err != nil {
		return fmt.Errorf("create open borrowing index: %w", err)
	}
	return nil
}
