package request

import (
	"grabsync/internal/app/domains/entity/etorder"
)

// WebhookRequest Grab webhook 请求体
type WebhookRequest struct {
	OrderID  string           `json:"orderID" binding:"required"`
	Amount   float64          `json:"amount" binding:"required,gt=0"`
	Status   string           `json:"status"`
	Items    []WebhookItem    `json:"items" binding:"required,min=1,dive"`
	Customer *WebhookCustomer `json:"customer" binding:"required"`
}

// WebhookItem webhook 商品明细
type WebhookItem struct {
	Name  string  `json:"name" binding:"required"`
	Qty   int     `json:"qty" binding:"required,gt=0"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

// WebhookCustomer webhook 客户信息
type WebhookCustomer struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ToItems 转换为领域明细（售价与原价同源，上游只给一个价格）
func (r *WebhookRequest) ToItems() []*etorder.Item {
	items := make([]*etorder.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, &etorder.Item{
			ProductName:  it.Name,
			Quantity:     it.Qty,
			SalePrice:    it.Price,
			RegularPrice: it.Price,
		})
	}
	return items
}

// ToCustomer 转换为领域客户
func (r *WebhookRequest) ToCustomer() *etorder.Customer {
	return &etorder.Customer{
		Name:  r.Customer.Name,
		Phone: r.Customer.Phone,
		Email: r.Customer.Email,
	}
}
