package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
)

// Message 队列消息
type Message struct {
	ID    string
	Queue string
	Data  []byte
}

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace string, token string) (*Client, error) {
	cli := client.NewLmstfyClient(host, port, namespace, token)
	return &Client{
		cli:       cli,
		namespace: namespace,
	}, nil
}

// Publish 发布消息
// ttl: 消息存活时间（秒），delay: 延迟投递时间（秒），投递失败由队列侧重试 3 次
func (c *Client) Publish(queue string, data []byte, ttl, delay uint32) error {
	_, err := c.cli.Publish(queue, data, ttl, 3, delay)
	if err != nil {
		return fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return nil
}

// Consume 消费消息，超时未拉到返回 nil
func (c *Client) Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error) {
	timeoutSec := uint32(timeout.Seconds())
	ttrSec := uint32(ttr.Seconds())

	job, err := c.cli.Consume(queue, ttrSec, timeoutSec)
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}

	if job == nil {
		return nil, nil
	}

	return &Message{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
	}, nil
}

// Ack 确认消息已处理
func (c *Client) Ack(queue string, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}
