package svsync

import (
	"context"
	"fmt"
	"time"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/infra/metrics"
	"grabsync/internal/app/infra/partner/ginee"
	"grabsync/internal/app/infra/persistence/entity"
	"grabsync/internal/app/pkg/logger"
)

// GineeClient 下游同步客户端（ginee.Client 实现）
type GineeClient interface {
	Sync(ctx context.Context, requestID string, grabOrderID string, amount float64) ginee.Result
}

// ResultNotifier 同步结果通知端（mdsync.SyncModule 实现）
type ResultNotifier interface {
	NotifyResult(ctx context.Context, result *model.SyncResult) error
}

// SyncService 同步执行服务（worker 侧）
// 职责：
// 1. 以任务携带的支付状态为门槛决定是否调用下游
// 2. 调用 Ginee 客户端（有界重试在客户端内部）
// 3. 更新订单最近同步状态并追加审计日志
// 4. 发布结果通知（供手动重同步 Smart Wait）
type SyncService struct {
	orderRepo rporder.OrderRepository
	logRepo   rpsynclog.SyncLogRepository
	client    GineeClient
	notifier  ResultNotifier
	logger    logger.Logger
}

// NewSyncService 创建同步执行服务实例
func NewSyncService(
	orderRepo rporder.OrderRepository,
	logRepo rpsynclog.SyncLogRepository,
	client GineeClient,
	notifier ResultNotifier,
	log logger.Logger,
) *SyncService {
	return &SyncService{
		orderRepo: orderRepo,
		logRepo:   logRepo,
		client:    client,
		notifier:  notifier,
		logger:    log,
	}
}

// ProcessJob 执行一个同步任务
// 下游失败是被记录的业务结果而非错误；返回 error 仅代表落库失败，
// 由消费侧不 ACK 交给队列 TTR 重试
func (s *SyncService) ProcessJob(ctx context.Context, job *model.SyncJob) error {
	status, err := etorder.ParsePaymentStatus(job.PaymentStatus)
	if err != nil {
		// 队列消息里的状态是提交前校验过的，解析失败说明消息损坏，丢弃
		s.logger.Errorf(ctx, "drop sync job with bad payment status: order_id=%d, status=%q", job.OrderID, job.PaymentStatus)
		return nil
	}

	if status != etorder.PaymentStatusPaid {
		return s.recordSkipped(ctx, job, status)
	}

	res := s.client.Sync(ctx, job.RequestID, job.GrabOrderID, job.Amount)
	if res.Success {
		return s.recordSuccess(ctx, job, res)
	}
	return s.recordFailure(ctx, job, res)
}

// recordSkipped 未支付：不调下游，只留审计痕迹，不动 status_sync
func (s *SyncService) recordSkipped(ctx context.Context, job *model.SyncJob, status etorder.PaymentStatus) error {
	message := fmt.Sprintf("Sync skipped: payment status is %s", status)
	if job.Trigger == model.TriggerManual {
		message = "Manual resync skipped: " + message
	}

	entry := &rpsynclog.Entry{
		OrderID:      job.OrderID,
		StatusSync:   entity.LogStatusSkipped,
		StatusCode:   0,
		ErrorMessage: message,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append skipped log failed: %w", err)
	}

	metrics.RecordSyncJob("skipped", job.Trigger, 0)
	s.notify(ctx, job, model.ResultStatusSkipped, message, "")
	s.logger.Infof(ctx, "sync skipped: order_id=%d, payment_status=%s", job.OrderID, status)
	return nil
}

// recordSuccess 同步成功：status_sync=SUCCESS + 审计日志（200）
func (s *SyncService) recordSuccess(ctx context.Context, job *model.SyncJob, res ginee.Result) error {
	message := "Sync to Ginee succeeded"
	if res.Message != "" {
		message = fmt.Sprintf("Sync to Ginee succeeded: %s", res.Message)
	}
	if job.Trigger == model.TriggerManual {
		message = "Manual resync: " + message
	}

	if err := s.orderRepo.UpdateSyncStatus(ctx, job.OrderID, etorder.SyncStatusSuccess); err != nil {
		return fmt.Errorf("update sync status failed: %w", err)
	}

	entry := &rpsynclog.Entry{
		OrderID:      job.OrderID,
		StatusSync:   entity.LogStatusSuccess,
		StatusCode:   200,
		ErrorMessage: message,
		RawResponse:  res.Raw,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append success log failed: %w", err)
	}

	metrics.RecordSyncJob("success", job.Trigger, res.Attempts)
	s.notify(ctx, job, model.ResultStatusSuccess, message, res.Raw)
	s.logger.Infof(ctx, "sync succeeded: order_id=%d, attempts=%d", job.OrderID, res.Attempts)
	return nil
}

// recordFailure 重试耗尽：status_sync=FAILED + 审计日志（500，携带最后一次错误详情）
func (s *SyncService) recordFailure(ctx context.Context, job *model.SyncJob, res ginee.Result) error {
	message := fmt.Sprintf("Sync to Ginee failed after %d attempts: %s", res.Attempts, res.Message)
	if job.Trigger == model.TriggerManual {
		message = "Manual resync: " + message
	}

	if err := s.orderRepo.UpdateSyncStatus(ctx, job.OrderID, etorder.SyncStatusFailed); err != nil {
		return fmt.Errorf("update sync status failed: %w", err)
	}

	entry := &rpsynclog.Entry{
		OrderID:      job.OrderID,
		StatusSync:   entity.LogStatusFailed,
		StatusCode:   500,
		ErrorMessage: message,
		RawResponse:  res.Raw,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append failure log failed: %w", err)
	}

	metrics.RecordSyncJob("failed", job.Trigger, res.Attempts)
	s.notify(ctx, job, model.ResultStatusFailed, message, res.Raw)
	s.logger.Warnf(ctx, "sync failed: order_id=%d, attempts=%d, error=%s", job.OrderID, res.Attempts, res.Message)
	return nil
}

// notify 发布结果通知；通知失败不影响整体流程（DB 已写成功）
func (s *SyncService) notify(ctx context.Context, job *model.SyncJob, status, message, raw string) {
	result := &model.SyncResult{
		RequestID:   job.RequestID,
		OrderID:     job.OrderID,
		Status:      status,
		Message:     message,
		RawResponse: raw,
		ProcessedAt: time.Now().Unix(),
	}
	if err := s.notifier.NotifyResult(ctx, result); err != nil {
		s.logger.Warnf(ctx, "publish sync result notification failed: order_id=%d, error=%v", job.OrderID, err)
	}
}
