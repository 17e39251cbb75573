package webhook

import "grabsync/internal/app/domains/services/svwebhook"

// WebhookHandler Grab webhook HTTP 处理器
type WebhookHandler struct {
	webhookService *svwebhook.WebhookService
}

// NewWebhookHandler 创建 webhook 处理器实例
func NewWebhookHandler(webhookService *svwebhook.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}
