package webhook

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"grabsync/internal/app/domains/apimodel/request"
	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/infra/metrics"
	"grabsync/internal/app/pkg/errorx"
)

// Receive 接收 Grab webhook
// POST /webhook/grab
// 对外契约是纯文本应答：200 "OK"、200 "Duplicate"、400、500 "Error Database: ..."。
// Grab 侧只认状态码，响应体仅用于排查
func (h *WebhookHandler) Receive(c *gin.Context) {
	rawPayload, err := c.GetRawData()
	if err != nil {
		metrics.RecordWebhookOutcome("error")
		c.String(http.StatusBadRequest, "Invalid payload")
		return
	}

	// 原始报文要原样入库，先整体读出再绑定
	var req request.WebhookRequest
	if err := binding.JSON.BindBody(rawPayload, &req); err != nil {
		metrics.RecordWebhookOutcome("rejected")
		c.String(http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	status, err := etorder.ParsePaymentStatus(req.Status)
	if err != nil {
		metrics.RecordWebhookOutcome("rejected")
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.webhookService.HandleWebhook(
		c.Request.Context(),
		req.OrderID,
		req.Amount,
		status,
		req.ToItems(),
		req.ToCustomer(),
		rawPayload,
	)
	if err != nil {
		// 并发首投撞唯一键：对 Grab 来说就是一次良性重复
		if errors.Is(err, errorx.ErrDuplicateOrder) {
			metrics.RecordWebhookOutcome("duplicate")
			c.String(http.StatusOK, "Duplicate")
			return
		}
		log.Printf("[ERROR] handle webhook failed: grab_order_id=%s, err=%v", req.OrderID, err)
		metrics.RecordWebhookOutcome("error")
		c.String(http.StatusInternalServerError, "Error Database: "+err.Error())
		return
	}

	if result.Created {
		metrics.RecordWebhookOutcome("ok")
	} else {
		metrics.RecordWebhookOutcome("updated")
	}
	c.String(http.StatusOK, "OK")
}

// bindErrorMessage 绑定失败转为可排查的单行说明
func bindErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return "Invalid payload: " + fieldErr.Field() + " failed on " + fieldErr.Tag()
	}
	return "Invalid payload: " + err.Error()
}
