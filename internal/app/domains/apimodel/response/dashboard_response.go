package response

import (
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/domains/services/svdashboard"
)

// DashboardResponse 看板聚合响应
type DashboardResponse struct {
	Tab          string                 `json:"tab"`
	StatusFilter string                 `json:"status_filter,omitempty"`
	Stats        StatsResponse          `json:"stats"`
	Orders       []*OrderResponse       `json:"orders,omitempty"`
	Customers    []*rporder.CustomerRow `json:"customers,omitempty"`
	Items        []*rporder.ItemRow     `json:"items,omitempty"`
	TabPage      svdashboard.Page       `json:"tab_page"`
	Logs         []*rpsynclog.LogRow    `json:"logs"`
	LogPage      svdashboard.Page       `json:"log_page"`
}

// StatsResponse 同步统计响应
type StatsResponse struct {
	TotalOrders int64 `json:"total_orders"`
	SyncSuccess int64 `json:"sync_success"`
	SyncFailed  int64 `json:"sync_failed"`
	SyncPending int64 `json:"sync_pending"`
}

// NewDashboardResponse 看板视图转响应
func NewDashboardResponse(view *svdashboard.View) *DashboardResponse {
	resp := &DashboardResponse{
		Tab:          view.Tab,
		StatusFilter: view.StatusFilter,
		Stats: StatsResponse{
			TotalOrders: view.Stats.Total,
			SyncSuccess: view.Stats.Success,
			SyncFailed:  view.Stats.Failed,
			SyncPending: view.Stats.Total - view.Stats.Success - view.Stats.Failed,
		},
		Customers: view.Customers,
		Items:     view.Items,
		TabPage:   view.TabPage,
		Logs:      view.Logs,
		LogPage:   view.LogPage,
	}

	if view.Orders != nil {
		resp.Orders = make([]*OrderResponse, 0, len(view.Orders))
		for _, o := range view.Orders {
			resp.Orders = append(resp.Orders, NewOrderResponse(o, nil))
		}
	}

	return resp
}
