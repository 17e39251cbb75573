package svorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/pkg/errorx"
	"grabsync/internal/app/pkg/logger"
)

// SyncDispatcher 同步任务发布 + 结果等待（mdsync.SyncModule 实现）
type SyncDispatcher interface {
	PublishJob(ctx context.Context, job *model.SyncJob) error
	WaitForResult(ctx context.Context, orderID uint64, timeout time.Duration) (*model.SyncResult, error)
}

// OrderService 订单服务：查询 + 手动重同步编排
type OrderService struct {
	orderRepo   rporder.OrderRepository
	logRepo     rpsynclog.SyncLogRepository
	dispatcher  SyncDispatcher
	waitTimeout time.Duration
	logger      logger.Logger
}

// NewOrderService 创建订单服务实例
func NewOrderService(
	orderRepo rporder.OrderRepository,
	logRepo rpsynclog.SyncLogRepository,
	dispatcher SyncDispatcher,
	waitTimeout time.Duration,
	log logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		logRepo:     logRepo,
		dispatcher:  dispatcher,
		waitTimeout: waitTimeout,
		logger:      log,
	}
}

// GetOrder 查询订单详情（含明细、客户）
func (s *OrderService) GetOrder(ctx context.Context, orderID uint64) (*etorder.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

// GetOrderSyncHistory 查询订单的同步审计历史
func (s *OrderService) GetOrderSyncHistory(ctx context.Context, orderID uint64) ([]*rpsynclog.LogRow, error) {
	return s.logRepo.ListByOrder(ctx, orderID)
}

// Resync 手动重同步
// 仅已支付订单可重同步；任务走与 webhook 完全相同的队列与 worker 链路，
// 通过 Smart Wait 等待 worker 回报结果。等待超时返回 (nil, nil)，
// 由 handler 给出处理中应答，任务仍会完成并留审计记录。
// 可重复调用，每次都会追加一条审计日志
func (s *OrderService) Resync(ctx context.Context, orderID uint64) (*model.SyncResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, errorx.ErrOrderNotFound) {
			return nil, errorx.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order failed: %w", err)
	}

	if !order.IsPaid() {
		return nil, errorx.ErrOrderNotPaid
	}

	// 从存量状态重建同步载荷（grab_order_id + total_amount 即下游所需全部）
	job := &model.SyncJob{
		RequestID:     uuid.New().String(),
		OrderID:       order.ID,
		GrabOrderID:   order.GrabOrderID,
		Amount:        order.TotalAmount,
		PaymentStatus: string(order.PaymentStatus),
		Trigger:       model.TriggerManual,
		EnqueuedAt:    time.Now().Unix(),
	}
	if err := s.dispatcher.PublishJob(ctx, job); err != nil {
		return nil, fmt.Errorf("publish resync job failed: %w", err)
	}

	result, err := s.dispatcher.WaitForResult(ctx, order.ID, s.waitTimeout)
	if err != nil {
		// 超时或订阅失败：任务已入队，结果去订单详情里看
		s.logger.Warnf(ctx, "wait for resync result timed out: order_id=%d, error=%v", order.ID, err)
		return nil, nil
	}

	return result, nil
}
