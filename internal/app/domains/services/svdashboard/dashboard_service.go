package svdashboard

import (
	"context"
	"errors"
	"fmt"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
)

// 看板分页尺寸
const (
	tabPageSize = 5
	logPageSize = 10
)

// ErrBadQuery 看板查询参数非法（未知页签或过滤值）
var ErrBadQuery = errors.New("bad dashboard query")

// 看板页签
const (
	TabOrders = "orders"
	TabUsers  = "users"
	TabItems  = "items"
)

// Page 分页元数据
type Page struct {
	Current    int   `json:"current"`
	TotalPages int   `json:"total_pages"`
	TotalRows  int64 `json:"total_rows"`
}

// View 看板聚合视图
// 统计与审计日志每次都带，主区数据按页签三选一
type View struct {
	Tab          string                  `json:"tab"`
	StatusFilter string                  `json:"status_filter,omitempty"`
	Stats        *rporder.Stats          `json:"stats"`
	Orders       []*etorder.Order        `json:"orders,omitempty"`
	Customers    []*rporder.CustomerRow  `json:"customers,omitempty"`
	Items        []*rporder.ItemRow      `json:"items,omitempty"`
	TabPage      Page                    `json:"tab_page"`
	Logs         []*rpsynclog.LogRow     `json:"logs"`
	LogPage      Page                    `json:"log_page"`
}

// DashboardService 看板读模型服务
type DashboardService struct {
	orderRepo rporder.OrderRepository
	logRepo   rpsynclog.SyncLogRepository
}

// NewDashboardService 创建看板服务实例
func NewDashboardService(orderRepo rporder.OrderRepository, logRepo rpsynclog.SyncLogRepository) *DashboardService {
	return &DashboardService{
		orderRepo: orderRepo,
		logRepo:   logRepo,
	}
}

// GetView 查询看板聚合视图
// tab 为空默认 orders；statusFilter 仅对 orders 页签生效
func (s *DashboardService) GetView(ctx context.Context, tab, statusFilter string, page, logPage int) (*View, error) {
	if tab == "" {
		tab = TabOrders
	}
	if page < 1 {
		page = 1
	}
	if logPage < 1 {
		logPage = 1
	}

	stats, err := s.orderRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("query stats failed: %w", err)
	}

	view := &View{
		Tab:   tab,
		Stats: stats,
	}

	switch tab {
	case TabOrders:
		if statusFilter != "" {
			if _, err := etorder.ParseSyncStatus(statusFilter); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
			}
			view.StatusFilter = statusFilter
		}
		orders, total, err := s.orderRepo.List(ctx, statusFilter, page, tabPageSize)
		if err != nil {
			return nil, fmt.Errorf("query orders failed: %w", err)
		}
		view.Orders = orders
		view.TabPage = newPage(page, total, tabPageSize)
	case TabUsers:
		customers, total, err := s.orderRepo.ListCustomers(ctx, page, tabPageSize)
		if err != nil {
			return nil, fmt.Errorf("query customers failed: %w", err)
		}
		view.Customers = customers
		view.TabPage = newPage(page, total, tabPageSize)
	case TabItems:
		items, total, err := s.orderRepo.ListItems(ctx, page, tabPageSize)
		if err != nil {
			return nil, fmt.Errorf("query items failed: %w", err)
		}
		view.Items = items
		view.TabPage = newPage(page, total, tabPageSize)
	default:
		return nil, fmt.Errorf("%w: unknown tab %q", ErrBadQuery, tab)
	}

	logs, logTotal, err := s.logRepo.List(ctx, logPage, logPageSize)
	if err != nil {
		return nil, fmt.Errorf("query sync logs failed: %w", err)
	}
	view.Logs = logs
	view.LogPage = newPage(logPage, logTotal, logPageSize)

	return view, nil
}

// newPage 计算分页元数据；无数据时总页数按 1 算
func newPage(current int, total int64, size int) Page {
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{
		Current:    current,
		TotalPages: totalPages,
		TotalRows:  total,
	}
}
