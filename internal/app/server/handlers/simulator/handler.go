package simulator

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/domains/apimodel/request"
	"grabsync/internal/app/pkg/ginx"
)

// GineeSimulatorHandler 本地 Ginee 模拟端点
// 只在非生产环境注册，GINEE_ENDPOINT 指回本服务即可做端到端联调
type GineeSimulatorHandler struct{}

// NewGineeSimulatorHandler 创建模拟端点实例
func NewGineeSimulatorHandler() *GineeSimulatorHandler {
	return &GineeSimulatorHandler{}
}

// Simulate 模拟 Ginee 接单
// POST /simulate/ginee
func (h *GineeSimulatorHandler) Simulate(c *gin.Context) {
	var req request.SimulateGineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ok from ginee simulator",
	})
}
