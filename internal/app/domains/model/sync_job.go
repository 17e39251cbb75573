package model

// SyncJob Ginee 同步任务消息（webhook 提交后投递到队列）
type SyncJob struct {
	RequestID     string  `json:"request_id"`     // 请求 ID（全链路追踪 + 下游幂等令牌）
	OrderID       uint64  `json:"order_id"`       // 内部订单 ID
	GrabOrderID   string  `json:"grab_order_id"`  // Grab 订单号
	Amount        float64 `json:"amount"`         // 订单金额
	PaymentStatus string  `json:"payment_status"` // 本次 webhook 收到的支付状态（同步门槛以此为准）
	Trigger       string  `json:"trigger"`        // 触发来源: webhook / manual
	EnqueuedAt    int64   `json:"enqueued_at"`    // 入队时间戳（Unix timestamp）
}

// 触发来源常量
const (
	TriggerWebhook = "webhook" // webhook 自动触发
	TriggerManual  = "manual"  // 操作员手动重同步
)

// SyncResult 同步结果消息（worker → Redis PubSub 通知）
type SyncResult struct {
	RequestID   string `json:"request_id"`             // 对应任务的 request_id
	OrderID     uint64 `json:"order_id"`               // 内部订单 ID
	Status      string `json:"status"`                 // SUCCESS / FAILED / SKIPPED
	Message     string `json:"message"`                // 人类可读结果描述
	RawResponse string `json:"raw_response,omitempty"` // 下游原始响应（失败时保留最后一次）
	ProcessedAt int64  `json:"processed_at"`           // 处理完成时间戳（Unix timestamp）
}

// 同步结果状态常量
const (
	ResultStatusSuccess = "SUCCESS" // 同步成功
	ResultStatusFailed  = "FAILED"  // 重试耗尽仍失败
	ResultStatusSkipped = "SKIPPED" // 未支付，未调用下游
)
