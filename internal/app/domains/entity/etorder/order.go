package etorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// 错误定义
var (
	ErrInvalidGrabOrderID = errors.New("grab order ID cannot be empty")
	ErrInvalidAmount      = errors.New("total amount must be positive")
	ErrEmptyItems         = errors.New("order must contain at least one item")
	ErrNilCustomer        = errors.New("customer is required")
)

// Order 订单聚合根（领域对象）
type Order struct {
	ID            uint64          // 内部订单ID（MySQL 自增，落库后回填）
	GrabOrderID   string          // Grab 订单号（外部唯一键）
	TotalAmount   float64         // 订单金额
	PaymentStatus PaymentStatus   // 支付状态
	SyncStatus    SyncStatus      // 最近一次同步结果
	RawPayload    json.RawMessage // 最新一次 webhook 原始报文
	Items         []*Item         // 商品明细（首次接收后不可变）
	Customer      *Customer       // 客户信息（首次接收后不可变）
	CreatedAt     time.Time       // 创建时间
	UpdatedAt     time.Time       // 更新时间
}

// Item 商品明细（值对象）
type Item struct {
	ProductName  string
	Quantity     int
	SalePrice    float64
	RegularPrice float64
}

// Customer 客户信息（值对象）
type Customer struct {
	Name  string
	Phone string
	Email string
}

// PaymentStatus 支付状态（写入边界收敛为封闭枚举）
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// ParsePaymentStatus 解析支付状态
// 空串默认 PENDING，未知取值拒绝，防止脏状态落库
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return PaymentStatusPending, nil
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusPending:
		return PaymentStatusPending, nil
	case PaymentStatusCancelled:
		return PaymentStatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown payment status: %q", raw)
	}
}

// SyncStatus 同步状态
type SyncStatus string

const (
	SyncStatusUnset   SyncStatus = ""
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// ParseSyncStatus 解析同步状态
func ParseSyncStatus(raw string) (SyncStatus, error) {
	switch SyncStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case SyncStatusUnset:
		return SyncStatusUnset, nil
	case SyncStatusSuccess:
		return SyncStatusSuccess, nil
	case SyncStatusFailed:
		return SyncStatusFailed, nil
	default:
		return "", fmt.Errorf("unknown sync status: %q", raw)
	}
}

// NewOrder 创建订单（工厂方法）
func NewOrder(grabOrderID string, amount float64, status PaymentStatus, items []*Item, customer *Customer, rawPayload json.RawMessage) (*Order, error) {
	// 业务规则校验
	if grabOrderID == "" {
		return nil, ErrInvalidGrabOrderID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if customer == nil {
		return nil, ErrNilCustomer
	}

	return &Order{
		GrabOrderID:   grabOrderID,
		TotalAmount:   amount,
		PaymentStatus: status,
		SyncStatus:    SyncStatusUnset,
		RawPayload:    rawPayload,
		Items:         items,
		Customer:      customer,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// IsPaid 是否已支付（同步门槛）
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}
