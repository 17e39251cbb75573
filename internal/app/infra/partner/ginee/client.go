package ginee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// syncRequest Ginee 同步请求体
type syncRequest struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// syncResponse Ginee 成功响应体
type syncResponse struct {
	Message string `json:"message"`
}

// Result 同步调用结果（值对象，本客户端从不向外抛错）
type Result struct {
	Success  bool   // 是否成功
	Message  string // 成功时为下游确认消息，失败时为最后一次错误描述
	Raw      string // 下游最后一次原始响应体
	Attempts int    // 实际尝试次数
}

// Client Ginee 同步客户端（有界重试 + 固定间隔）
type Client struct {
	endpoint       string
	maxAttempts    int
	attemptTimeout time.Duration
	retryDelay     time.Duration
	httpClient     *http.Client
}

// NewClient 创建 Ginee 客户端
// maxAttempts 次数用尽即放弃，单次调用超时由 attemptTimeout 控制，
// 失败重试间隔固定 retryDelay（无退避、无抖动）
func NewClient(endpoint string, maxAttempts int, attemptTimeout, retryDelay time.Duration) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Client{
		endpoint:       endpoint,
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
		retryDelay:     retryDelay,
		httpClient:     &http.Client{},
	}
}

// Sync 推送订单到 Ginee
// 任一次成功立即返回；全部失败时携带最后一次错误详情。
// requestID 作为 X-Request-ID 传给下游，便于下游做幂等去重
func (c *Client) Sync(ctx context.Context, requestID string, grabOrderID string, amount float64) Result {
	var lastErr string
	var lastRaw string

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		msg, raw, err := c.attempt(ctx, requestID, grabOrderID, amount)
		if err == nil {
			return Result{
				Success:  true,
				Message:  msg,
				Raw:      raw,
				Attempts: attempt,
			}
		}

		lastErr = err.Error()
		lastRaw = raw

		if attempt == c.maxAttempts {
			break
		}

		// 固定间隔等待后重试；外层 Context 取消则提前放弃
		select {
		case <-ctx.Done():
			return Result{
				Success:  false,
				Message:  lastErr,
				Raw:      lastRaw,
				Attempts: attempt,
			}
		case <-time.After(c.retryDelay):
		}
	}

	return Result{
		Success:  false,
		Message:  lastErr,
		Raw:      lastRaw,
		Attempts: c.maxAttempts,
	}
}

// attempt 单次同步调用
// 返回值: 下游确认消息, 原始响应体, 错误（网络错误 / 超时 / 非 2xx 均视为失败）
func (c *Client) attempt(ctx context.Context, requestID string, grabOrderID string, amount float64) (string, string, error) {
	payload, err := json.Marshal(syncRequest{
		OrderID: grabOrderID,
		Amount:  amount,
	})
	if err != nil {
		return "", "", err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	raw := string(body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 下游有结构化错误体则原样携带，否则退回状态码描述
		if len(raw) > 0 && json.Valid(body) {
			return "", raw, fmt.Errorf("ginee sync failed: status=%d, body=%s", resp.StatusCode, raw)
		}
		return "", raw, fmt.Errorf("ginee sync failed: status=%d", resp.StatusCode)
	}

	var sr syncResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		// 2xx 但响应体不可解析，按成功处理，消息取原始响应
		return raw, raw, nil
	}

	return sr.Message, raw, nil
}
