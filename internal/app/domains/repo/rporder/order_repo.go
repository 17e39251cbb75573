package rporder

import (
	"context"
	"encoding/json"

	"grabsync/internal/app/domains/entity/etorder"
)

// Stats 订单同步统计
type Stats struct {
	Total   int64 // 订单总数
	Success int64 // 同步成功数
	Failed  int64 // 同步失败数
}

// CustomerRow 客户读模型行（users 联 orders 取 grab_order_id）
type CustomerRow struct {
	ID          uint64 `json:"id"`
	OrderID     uint64 `json:"order_id"`
	GrabOrderID string `json:"grab_order_id"`
	Name        string `json:"customer_name"`
	Phone       string `json:"phone_number"`
	Email       string `json:"customer_email"`
}

// ItemRow 商品读模型行（order_items 联 orders 取 grab_order_id）
type ItemRow struct {
	ID           uint64  `json:"id"`
	OrderID      uint64  `json:"order_id"`
	GrabOrderID  string  `json:"grab_order_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	SalePrice    float64 `json:"sale_price"`
	RegularPrice float64 `json:"regular_price"`
}

// OrderRepository 订单仓储接口（只定义，不实现）
// 实现在 infra/persistence 层之上的 order_repo_impl.go
type OrderRepository interface {
	// Create 首次接收：单事务写入 grab_raw、orders、order_items、users
	// grab_order_id 唯一键冲突返回 errorx.ErrDuplicateOrder
	Create(ctx context.Context, order *etorder.Order) error

	// GetByGrabOrderID 根据 Grab 订单号查询，不存在返回 (nil, nil)
	GetByGrabOrderID(ctx context.Context, grabOrderID string) (*etorder.Order, error)

	// GetByID 根据内部 ID 查询（含明细与客户）
	GetByID(ctx context.Context, orderID uint64) (*etorder.Order, error)

	// UpdatePaymentAndSnapshot 重复接收：单事务追加 grab_raw，
	// 仅更新 payment_status 与 raw_grab_data（明细与客户首录后不可变）
	UpdatePaymentAndSnapshot(ctx context.Context, orderID uint64, status etorder.PaymentStatus, raw json.RawMessage) error

	// UpdateSyncStatus 更新最近一次同步结果
	UpdateSyncStatus(ctx context.Context, orderID uint64, status etorder.SyncStatus) error

	// List 分页查询订单（可按 status_sync 过滤，含明细与客户）
	List(ctx context.Context, syncStatus string, page, limit int) ([]*etorder.Order, int64, error)

	// Stats 聚合统计
	Stats(ctx context.Context) (*Stats, error)

	// ListCustomers 客户读模型分页
	ListCustomers(ctx context.Context, page, limit int) ([]*CustomerRow, int64, error)

	// ListItems 商品读模型分页
	ListItems(ctx context.Context, page, limit int) ([]*ItemRow, int64, error)
}
