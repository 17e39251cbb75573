package dashboard

import "grabsync/internal/app/domains/services/svdashboard"

// DashboardHandler 看板 HTTP 处理器
type DashboardHandler struct {
	dashboardService *svdashboard.DashboardService
}

// NewDashboardHandler 创建看板处理器实例
func NewDashboardHandler(dashboardService *svdashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}
