package dashboard

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/domains/apimodel/response"
	"grabsync/internal/app/domains/services/svdashboard"
	"grabsync/internal/app/pkg/ginx"
)

// Get 看板聚合查询接口
// GET /dashboard?tab=orders&status=FAILED&page=1&logPage=1
// tab 三选一（orders/users/items），status 只对 orders 页签生效
func (h *DashboardHandler) Get(c *gin.Context) {
	tab := c.DefaultQuery("tab", "orders")
	status := strings.TrimSpace(c.Query("status"))
	page := parsePage(c.Query("page"))
	logPage := parsePage(c.Query("logPage"))

	view, err := h.dashboardService.GetView(c.Request.Context(), tab, status, page, logPage)
	if err != nil {
		if errors.Is(err, svdashboard.ErrBadQuery) {
			ginx.BadRequest(c, err.Error())
			return
		}
		log.Printf("[ERROR] get dashboard failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.NewDashboardResponse(view))
}

// parsePage 非法页码一律回落到第一页
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
