package rporder

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/infra/persistence/entity"
	"grabsync/internal/app/pkg/errorx"
)

// mysqlDuplicateEntry MySQL 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// OrderRepositoryImpl 订单仓储实现（MySQL）
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// Create 首次接收路径
// 写入顺序固定：grab_raw → orders → order_items → users，整体一个事务
func (r *OrderRepositoryImpl) Create(ctx context.Context, order *etorder.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		raw := &entity.RawEvent{
			GrabOrderID: order.GrabOrderID,
			Payload:     datatypes.JSON(order.RawPayload),
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(raw).Error; err != nil {
			return err
		}

		po := &entity.Order{
			GrabOrderID:   order.GrabOrderID,
			TotalAmount:   order.TotalAmount,
			PaymentStatus: string(order.PaymentStatus),
			StatusSync:    string(order.SyncStatus),
			RawGrabData:   datatypes.JSON(order.RawPayload),
			CreatedAt:     order.CreatedAt,
			UpdatedAt:     order.UpdatedAt,
		}
		if err := tx.Create(po).Error; err != nil {
			return err
		}

		items := make([]entity.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, entity.OrderItem{
				OrderID:      po.ID,
				ProductName:  item.ProductName,
				Quantity:     item.Quantity,
				SalePrice:    item.SalePrice,
				RegularPrice: item.RegularPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		customer := &entity.Customer{
			OrderID:       po.ID,
			CustomerName:  order.Customer.Name,
			PhoneNumber:   order.Customer.Phone,
			CustomerEmail: order.Customer.Email,
		}
		if err := tx.Create(customer).Error; err != nil {
			return err
		}

		order.ID = po.ID
		return nil
	})

	if err != nil {
		if isDuplicateKeyError(err) {
			return errorx.ErrDuplicateOrder
		}
		return err
	}
	return nil
}

// GetByGrabOrderID 根据 Grab 订单号查询（并发首投的仲裁前置检查）
func (r *OrderRepositoryImpl) GetByGrabOrderID(ctx context.Context, grabOrderID string) (*etorder.Order, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).
		Where("grab_order_id = ?", grabOrderID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainModel(&po), nil
}

// GetByID 根据内部 ID 查询（含明细与客户）
func (r *OrderRepositoryImpl) GetByID(ctx context.Context, orderID uint64) (*etorder.Order, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("id = ?", orderID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrOrderNotFound
		}
		return nil, err
	}
	return r.toDomainModel(&po), nil
}

// UpdatePaymentAndSnapshot 重复接收路径
// 明细与客户首录后不可变，这里只允许改 payment_status 和原始报文快照
func (r *OrderRepositoryImpl) UpdatePaymentAndSnapshot(ctx context.Context, orderID uint64, status etorder.PaymentStatus, raw json.RawMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po entity.Order
		if err := tx.Select("grab_order_id").
			Where("id = ?", orderID).
			First(&po).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.ErrOrderNotFound
			}
			return err
		}

		event := &entity.RawEvent{
			GrabOrderID: po.GrabOrderID,
			Payload:     datatypes.JSON(raw),
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		return tx.Model(&entity.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"payment_status": string(status),
				"raw_grab_data":  datatypes.JSON(raw),
				"updated_at":     time.Now(),
			}).Error
	})
}

// UpdateSyncStatus 更新最近一次同步结果
func (r *OrderRepositoryImpl) UpdateSyncStatus(ctx context.Context, orderID uint64, status etorder.SyncStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status_sync": string(status),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errorx.ErrOrderNotFound
	}
	return nil
}

// List 分页查询订单列表
func (r *OrderRepositoryImpl) List(ctx context.Context, syncStatus string, page, limit int) ([]*etorder.Order, int64, error) {
	var total int64
	var pos []entity.Order

	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if syncStatus != "" {
		query = query.Where("status_sync = ?", syncStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*etorder.Order, 0, len(pos))
	for i := range pos {
		orders = append(orders, r.toDomainModel(&pos[i]))
	}

	return orders, total, nil
}

// Stats 聚合统计
func (r *OrderRepositoryImpl) Stats(ctx context.Context) (*Stats, error) {
	var row struct {
		Total   int64
		Success int64
		Failed  int64
	}

	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select(
			"COUNT(*) AS total, " +
				"COALESCE(SUM(CASE WHEN status_sync = 'SUCCESS' THEN 1 ELSE 0 END), 0) AS success, " +
				"COALESCE(SUM(CASE WHEN status_sync = 'FAILED' THEN 1 ELSE 0 END), 0) AS failed",
		).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &Stats{
		Total:   row.Total,
		Success: row.Success,
		Failed:  row.Failed,
	}, nil
}

// ListCustomers 客户读模型分页
func (r *OrderRepositoryImpl) ListCustomers(ctx context.Context, page, limit int) ([]*CustomerRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*CustomerRow
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Select("users.id, users.order_id, orders.grab_order_id, users.customer_name AS name, users.phone_number AS phone, users.customer_email AS email").
		Joins("JOIN orders ON orders.id = users.order_id").
		Order("users.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListItems 商品读模型分页
func (r *OrderRepositoryImpl) ListItems(ctx context.Context, page, limit int) ([]*ItemRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.OrderItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*ItemRow
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Model(&entity.OrderItem{}).
		Select("order_items.id, order_items.order_id, orders.grab_order_id, order_items.product_name, order_items.quantity, order_items.sale_price, order_items.regular_price").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Order("order_items.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *OrderRepositoryImpl) toDomainModel(po *entity.Order) *etorder.Order {
	order := &etorder.Order{
		ID:            po.ID,
		GrabOrderID:   po.GrabOrderID,
		TotalAmount:   po.TotalAmount,
		PaymentStatus: etorder.PaymentStatus(po.PaymentStatus),
		SyncStatus:    etorder.SyncStatus(po.StatusSync),
		RawPayload:    json.RawMessage(po.RawGrabData),
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}

	for i := range po.Items {
		item := po.Items[i]
		order.Items = append(order.Items, &etorder.Item{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			SalePrice:    item.SalePrice,
			RegularPrice: item.RegularPrice,
		})
	}

	if po.Customer != nil {
		order.Customer = &etorder.Customer{
			Name:  po.Customer.CustomerName,
			Phone: po.Customer.PhoneNumber,
			Email: po.Customer.CustomerEmail,
		}
	}

	return order
}

// isDuplicateKeyError 识别唯一键冲突（重复投递的良性信号）
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}
