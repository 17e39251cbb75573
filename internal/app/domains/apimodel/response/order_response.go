package response

import (
	"encoding/json"
	"time"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/repo/rpsynclog"
)

// OrderResponse 订单详情响应
type OrderResponse struct {
	ID            uint64              `json:"id"`
	GrabOrderID   string              `json:"grab_order_id"`
	TotalAmount   float64             `json:"total_amount"`
	PaymentStatus string              `json:"payment_status"`
	StatusSync    string              `json:"status_sync"`
	RawGrabData   json.RawMessage     `json:"raw_grab_data,omitempty"`
	Items         []ItemResponse      `json:"items"`
	Customer      *CustomerResponse   `json:"customer,omitempty"`
	SyncHistory   []*rpsynclog.LogRow `json:"sync_history,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ItemResponse 商品明细响应
type ItemResponse struct {
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	SalePrice    float64 `json:"sale_price"`
	RegularPrice float64 `json:"regular_price"`
}

// CustomerResponse 客户信息响应
type CustomerResponse struct {
	Name  string `json:"customer_name"`
	Phone string `json:"phone_number"`
	Email string `json:"customer_email"`
}

// ResyncResponse 手动重同步响应（保持上线前就定下的对外契约）
type ResyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewOrderResponse 领域订单转响应
func NewOrderResponse(order *etorder.Order, history []*rpsynclog.LogRow) *OrderResponse {
	resp := &OrderResponse{
		ID:            order.ID,
		GrabOrderID:   order.GrabOrderID,
		TotalAmount:   order.TotalAmount,
		PaymentStatus: string(order.PaymentStatus),
		StatusSync:    string(order.SyncStatus),
		RawGrabData:   order.RawPayload,
		SyncHistory:   history,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	resp.Items = make([]ItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			SalePrice:    it.SalePrice,
			RegularPrice: it.RegularPrice,
		})
	}

	if order.Customer != nil {
		resp.Customer = &CustomerResponse{
			Name:  order.Customer.Name,
			Phone: order.Customer.Phone,
			Email: order.Customer.Email,
		}
	}

	return resp
}
