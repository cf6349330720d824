package models

import "time"

// Borrowing 表示一次借用记录。
// ReturnedAt 为 nil 表示工具仍在借出中；同一工具最多只有一条未归还记录。
type Borrowing struct {
	ID         uint       `gorm:"primaryKey"`
	ToolID     uint       `gorm:"index;not null"`
	BorrowerID uint       `gorm:"index;not null"`
	DueDate    time.Time  `gorm:"index;not null"` // 约定归还日期
	ReturnedAt *time.Time `gorm:"index"`          // 实际归还时间
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Tool     Tool `gorm:"foreignKey:ToolID"`
	Borrower User `gorm:"foreignKey:BorrowerID"`
}
