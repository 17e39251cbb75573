package order

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/domains/apimodel/response"
	"grabsync/internal/app/pkg/errorx"
	"grabsync/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      获取订单详情
// @Description  根据内部订单ID获取订单详细信息（含商品明细、客户信息与同步历史）
// @Description
// @Description  使用场景：
// @Description  - 手动重同步返回 code=3001 时，通过此接口轮询同步结果
// @Description  - 查询历史订单详情
// @Tags         orders
// @Produce      json
// @Param        id path int true "内部订单ID"
// @Success      200 {object} ginx.Response{data=response.OrderResponse} "查询成功"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      404 {object} ginx.Response "订单不存在"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		ginx.BadRequest(c, "order id must be a positive integer")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, errorx.ErrOrderNotFound) {
			ginx.NotFound(c, "order not found")
			return
		}
		log.Printf("[ERROR] get order failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	history, err := h.orderService.GetOrderSyncHistory(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("[ERROR] get order sync history failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.NewOrderResponse(order, history))
}
