package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Order 订单实体
type Order struct {
	// 基础字段
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	GrabOrderID string `gorm:"column:grab_order_id;type:varchar(64);not null;uniqueIndex:uk_grab_order_id"`

	// 订单数据
	TotalAmount   float64        `gorm:"column:total_amount;type:decimal(12,2);not null"`
	PaymentStatus string         `gorm:"column:payment_status;type:varchar(16);not null;default:'PENDING'"`
	RawGrabData   datatypes.JSON `gorm:"column:raw_grab_data;type:json;not null"`

	// 同步状态（只反映最近一次同步结果，历史在 errors_log）
	StatusSync string `gorm:"column:status_sync;type:varchar(16);not null;default:'';index:idx_status_sync"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	// 关联
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Customer *Customer   `gorm:"foreignKey:OrderID"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// 同步状态常量
const (
	SyncStatusSuccess = "SUCCESS"
	SyncStatusFailed  = "FAILED"
)

// OrderItem 订单商品明细
type OrderItem struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      uint64  `gorm:"column:order_id;not null;index:idx_order_id"`
	ProductName  string  `gorm:"column:product_name;type:varchar(255);not null"`
	Quantity     int     `gorm:"column:quantity;not null"`
	SalePrice    float64 `gorm:"column:sale_price;type:decimal(12,2);not null"`
	RegularPrice float64 `gorm:"column:regular_price;type:decimal(12,2);not null"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Customer 客户信息（表名沿用原库 users，与订单 1:1）
type Customer struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID       uint64 `gorm:"column:order_id;not null;index:idx_order_id"`
	CustomerName  string `gorm:"column:customer_name;type:varchar(128);not null"`
	PhoneNumber   string `gorm:"column:phone_number;type:varchar(32)"`
	CustomerEmail string `gorm:"column:customer_email;type:varchar(128)"`
}

// TableName 指定表名
func (Customer) TableName() string {
	return "users"
}
