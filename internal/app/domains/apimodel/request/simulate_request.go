package request

// SimulateGineeRequest 本地 Ginee 模拟端点请求体
type SimulateGineeRequest struct {
	OrderID string  `json:"order_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
}
