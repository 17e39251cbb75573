package entity

import "time"

// SyncLog 同步审计日志（表名沿用原库 errors_log，只增不改）
// 每次同步尝试的结果一行；Order.status_sync 只保留最近一次
type SyncLog struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      uint64    `gorm:"column:order_id;not null;index:idx_order_id"`
	StatusSync   string    `gorm:"column:status_sync;type:varchar(16);not null"`
	StatusCode   int       `gorm:"column:status_code;not null"`
	ErrorMessage string    `gorm:"column:error_message;type:varchar(512)"`
	RawResponse  string    `gorm:"column:raw_response;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
}

// TableName 指定表名
func (SyncLog) TableName() string {
	return "errors_log"
}

// 审计状态常量
const (
	LogStatusSuccess = "SUCCESS"
	LogStatusFailed  = "FAILED"
	LogStatusSkipped = "SKIPPED"
)
