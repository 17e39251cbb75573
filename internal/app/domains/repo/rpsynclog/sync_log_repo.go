package rpsynclog

import (
	"context"
	"time"
)

// Entry 一次同步尝试的审计记录
type Entry struct {
	OrderID      uint64 // 内部订单 ID
	StatusSync   string // SUCCESS / FAILED / SKIPPED
	StatusCode   int    // 200 成功 / 500 失败 / 0 未发起下游调用
	ErrorMessage string // 人类可读说明
	RawResponse  string // 下游原始响应（可空）
}

// LogRow 审计日志读模型行（errors_log 联 orders 取 grab_order_id）
type LogRow struct {
	ID           uint64    `json:"id"`
	OrderID      uint64    `json:"order_id"`
	GrabOrderID  string    `json:"grab_order_id"`
	StatusSync   string    `json:"status_sync"`
	StatusCode   int       `json:"status_code"`
	ErrorMessage string    `json:"error_message"`
	RawResponse  string    `json:"raw_response,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncLogRepository 同步审计日志仓储接口
// 日志只增不改，是同步历史的唯一事实来源
type SyncLogRepository interface {
	// Append 追加一条审计记录
	Append(ctx context.Context, entry *Entry) error

	// List 按时间倒序分页
	List(ctx context.Context, page, limit int) ([]*LogRow, int64, error)

	// ListByOrder 某订单的全部同步历史
	ListByOrder(ctx context.Context, orderID uint64) ([]*LogRow, error)
}
