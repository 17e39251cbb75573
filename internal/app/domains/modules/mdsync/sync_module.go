package mdsync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grabsync/internal/app/domains/model"
)

// jobTTL 队列消息存活时间（秒）
const jobTTL = 3600

// QueuePublisher 任务队列发布端（lmstfy 适配器实现）
type QueuePublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// ResultBus 同步结果通知总线（Redis Pub/Sub 实现）
type ResultBus interface {
	Publish(ctx context.Context, channel string, message string) error
	Subscribe(ctx context.Context, channel string, timeout time.Duration) (string, error)
}

// SyncModule 同步模块
// 职责：
// 1. 组装队列与通知总线客户端
// 2. 承载同步相关的业务约定（消息格式、频道命名规则）
type SyncModule struct {
	queue     QueuePublisher
	bus       ResultBus
	queueName string
}

// NewSyncModule 创建同步模块实例
func NewSyncModule(queue QueuePublisher, bus ResultBus, queueName string) *SyncModule {
	return &SyncModule{
		queue:     queue,
		bus:       bus,
		queueName: queueName,
	}
}

// PublishJob 发布同步任务到队列
func (m *SyncModule) PublishJob(ctx context.Context, job *model.SyncJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal sync job failed: %w", err)
	}

	if err := m.queue.Publish(m.queueName, payload, jobTTL, 0); err != nil {
		return fmt.Errorf("publish sync job failed: %w", err)
	}
	return nil
}

// WaitForResult 等待同步结果（手动重同步的 Smart Wait）
// 业务约定：频道命名 sync:result:{orderID}
func (m *SyncModule) WaitForResult(ctx context.Context, orderID uint64, timeout time.Duration) (*model.SyncResult, error) {
	payload, err := m.bus.Subscribe(ctx, resultChannel(orderID), timeout)
	if err != nil {
		return nil, err
	}

	var result model.SyncResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal sync result failed: %w", err)
	}
	return &result, nil
}

// NotifyResult 发布同步结果通知
func (m *SyncModule) NotifyResult(ctx context.Context, result *model.SyncResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal sync result failed: %w", err)
	}

	if err := m.bus.Publish(ctx, resultChannel(result.OrderID), string(payload)); err != nil {
		return fmt.Errorf("publish sync result failed: %w", err)
	}
	return nil
}

// resultChannel 结果通知频道命名规则
func resultChannel(orderID uint64) string {
	return fmt.Sprintf("sync:result:%d", orderID)
}
