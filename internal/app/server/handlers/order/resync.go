package order

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/domains/apimodel/response"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/pkg/errorx"
	"grabsync/internal/app/pkg/ginx"
)

// Resync 手动重同步接口
// POST /sync-order/:id
// 应答契约沿用看板前端约定的 {success, message}；
// worker 在等待窗口内没回报结果时返回 code=3001，拿 poll_url 轮询订单详情
func (h *OrderHandler) Resync(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		c.JSON(http.StatusBadRequest, response.ResyncResponse{
			Success: false,
			Message: "order id must be a positive integer",
		})
		return
	}

	result, err := h.orderService.Resync(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, errorx.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, response.ResyncResponse{
				Success: false,
				Message: "Order not found",
			})
		case errors.Is(err, errorx.ErrOrderNotPaid):
			c.JSON(http.StatusBadRequest, response.ResyncResponse{
				Success: false,
				Message: "Only paid orders can be resynced",
			})
		default:
			log.Printf("[ERROR] resync order failed: order_id=%d, err=%v", orderID, err)
			c.JSON(http.StatusInternalServerError, response.ResyncResponse{
				Success: false,
				Message: err.Error(),
			})
		}
		return
	}

	// 等待窗口内没等到 worker 回报，任务仍在执行
	if result == nil {
		ginx.Processing(c, orderID, fmt.Sprintf("/orders/%d", orderID))
		return
	}

	if result.Status != model.ResultStatusSuccess {
		c.JSON(http.StatusInternalServerError, response.ResyncResponse{
			Success: false,
			Message: result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, response.ResyncResponse{
		Success: true,
		Message: result.Message,
	})
}
