package svwebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/pkg/logger"
)

// JobPublisher 同步任务发布端（mdsync.SyncModule 实现）
type JobPublisher interface {
	PublishJob(ctx context.Context, job *model.SyncJob) error
}

// Result webhook 处理结果
type Result struct {
	Order   *etorder.Order // 提交后的订单（首次接收时带回填 ID）
	Created bool           // true=首次接收，false=重复接收更新
}

// WebhookService webhook 接入服务
// 状态机按 grab_order_id 是否已存在分两条路径，
// 事务提交后才投递同步任务（应答先行，下游健康不拖累 Grab 侧）
type WebhookService struct {
	orderRepo rporder.OrderRepository
	publisher JobPublisher
	logger    logger.Logger
}

// NewWebhookService 创建 webhook 接入服务实例
func NewWebhookService(orderRepo rporder.OrderRepository, publisher JobPublisher, log logger.Logger) *WebhookService {
	return &WebhookService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    log,
	}
}

// HandleWebhook 处理一次 Grab webhook 投递
// 首次接收：单事务写入 grab_raw/orders/order_items/users；
// 重复接收：仅更新 payment_status 与原始报文快照（明细与客户首录后不可变）。
// 唯一键冲突原样返回 errorx.ErrDuplicateOrder，由 handler 按良性重复应答
func (s *WebhookService) HandleWebhook(
	ctx context.Context,
	grabOrderID string,
	amount float64,
	status etorder.PaymentStatus,
	items []*etorder.Item,
	customer *etorder.Customer,
	rawPayload json.RawMessage,
) (*Result, error) {
	existing, err := s.orderRepo.GetByGrabOrderID(ctx, grabOrderID)
	if err != nil {
		return nil, fmt.Errorf("check order exists failed: %w", err)
	}

	var result *Result
	if existing == nil {
		order, err := etorder.NewOrder(grabOrderID, amount, status, items, customer, rawPayload)
		if err != nil {
			return nil, fmt.Errorf("create order entity failed: %w", err)
		}

		// 并发首投时唯一键冲突在这里浮出，原样上抛
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return nil, err
		}
		result = &Result{Order: order, Created: true}
	} else {
		if err := s.orderRepo.UpdatePaymentAndSnapshot(ctx, existing.ID, status, rawPayload); err != nil {
			return nil, fmt.Errorf("update order failed: %w", err)
		}
		existing.PaymentStatus = status
		existing.RawPayload = rawPayload
		result = &Result{Order: existing, Created: false}
	}

	// 事务已提交，投递同步任务；投递失败只记日志，不影响本次接收成功
	job := &model.SyncJob{
		RequestID:     uuid.New().String(),
		OrderID:       result.Order.ID,
		GrabOrderID:   grabOrderID,
		Amount:        result.Order.TotalAmount,
		PaymentStatus: string(status),
		Trigger:       model.TriggerWebhook,
		EnqueuedAt:    time.Now().Unix(),
	}
	if err := s.publisher.PublishJob(ctx, job); err != nil {
		s.logger.Warnf(ctx, "publish sync job failed: order_id=%d, error=%v", result.Order.ID, err)
	}

	return result, nil
}
