package rpsynclog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"grabsync/internal/app/infra/persistence/entity"
)

// SyncLogRepositoryImpl 同步审计日志仓储实现（MySQL）
type SyncLogRepositoryImpl struct {
	db *gorm.DB
}

// NewSyncLogRepository 创建仓储实例
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &SyncLogRepositoryImpl{db: db}
}

// Append 追加一条审计记录
func (r *SyncLogRepositoryImpl) Append(ctx context.Context, entry *Entry) error {
	po := &entity.SyncLog{
		OrderID:      entry.OrderID,
		StatusSync:   entry.StatusSync,
		StatusCode:   entry.StatusCode,
		ErrorMessage: entry.ErrorMessage,
		RawResponse:  entry.RawResponse,
		CreatedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).Create(po).Error
}

// List 按时间倒序分页
func (r *SyncLogRepositoryImpl) List(ctx context.Context, page, limit int) ([]*LogRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.SyncLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*LogRow
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Model(&entity.SyncLog{}).
		Select("errors_log.id, errors_log.order_id, orders.grab_order_id, errors_log.status_sync, errors_log.status_code, errors_log.error_message, errors_log.raw_response, errors_log.created_at").
		Joins("JOIN orders ON orders.id = errors_log.order_id").
		Order("errors_log.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListByOrder 某订单的全部同步历史
func (r *SyncLogRepositoryImpl) ListByOrder(ctx context.Context, orderID uint64) ([]*LogRow, error) {
	var rows []*LogRow
	err := r.db.WithContext(ctx).
		Model(&entity.SyncLog{}).
		Select("errors_log.id, errors_log.order_id, orders.grab_order_id, errors_log.status_sync, errors_log.status_code, errors_log.error_message, errors_log.raw_response, errors_log.created_at").
		Joins("JOIN orders ON orders.id = errors_log.order_id").
		Where("errors_log.order_id = ?", orderID).
		Order("errors_log.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
