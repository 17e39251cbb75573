package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/atomic"

	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/infra/mq/lmstfy"
	"grabsync/internal/app/pkg/logger"
)

// MessageSource 队列消费端（lmstfy 适配器实现）
type MessageSource interface {
	Consume(queue string, timeout time.Duration, ttr time.Duration) (*lmstfy.Message, error)
	Ack(queue string, jobID string) error
}

// JobProcessor 同步任务执行端（svsync.SyncService 实现）
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *model.SyncJob) error
}

// Options 消费者配置
type Options struct {
	QueueName    string
	Threads      int           // 消费协程数
	Timeout      time.Duration // 拉取消息阻塞超时
	TTR          time.Duration // 消息 Time-To-Run，超时未 ACK 由队列重投
	ErrorBackoff time.Duration // 拉取出错后的退避时间
}

// SyncConsumer 同步任务消费者
// N 个协程轮询拉取，处理成功才 ACK；处理返回 error 时不 ACK，
// 交给队列 TTR 到期后重投。载荷损坏的消息直接 ACK 丢弃
type SyncConsumer struct {
	source  MessageSource
	proc    JobProcessor
	opts    Options
	logger  logger.Logger
	closing *atomic.Bool
	wg      sync.WaitGroup

	// 运行计数，供退出时汇报
	processed *atomic.Int64
	failed    *atomic.Int64
}

// NewSyncConsumer 创建同步任务消费者
func NewSyncConsumer(source MessageSource, proc JobProcessor, opts Options, log logger.Logger) *SyncConsumer {
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.TTR <= 0 {
		opts.TTR = 60 * time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = time.Second
	}
	return &SyncConsumer{
		source:    source,
		proc:      proc,
		opts:      opts,
		logger:    log,
		closing:   atomic.NewBool(false),
		processed: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
	}
}

// Start 启动消费协程
func (c *SyncConsumer) Start(ctx context.Context) {
	c.logger.Infof(ctx, "sync consumer starting: queue=%s, threads=%d", c.opts.QueueName, c.opts.Threads)
	for i := 0; i < c.opts.Threads; i++ {
		c.wg.Add(1)
		go c.run(ctx, i)
	}
}

// Stop 停止消费并等待在途任务完成
func (c *SyncConsumer) Stop(ctx context.Context) {
	c.closing.Store(true)
	c.wg.Wait()
	c.logger.Infof(ctx, "sync consumer stopped: processed=%d, failed=%d", c.processed.Load(), c.failed.Load())
}

// run 单协程消费循环
func (c *SyncConsumer) run(ctx context.Context, workerID int) {
	defer c.wg.Done()

	wctx := logger.WithWorkerID(ctx, workerID)
	for !c.closing.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.source.Consume(c.opts.QueueName, c.opts.Timeout, c.opts.TTR)
		if err != nil {
			c.logger.Warnf(wctx, "consume failed: %v", err)
			time.Sleep(c.opts.ErrorBackoff)
			continue
		}
		if msg == nil {
			continue
		}

		c.handle(wctx, msg)
	}
}

// handle 处理一条消息
func (c *SyncConsumer) handle(ctx context.Context, msg *lmstfy.Message) {
	var job model.SyncJob
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		// 载荷损坏，重投也救不回来，ACK 丢弃
		c.logger.Errorf(ctx, "drop malformed sync job: job_id=%s, error=%v", msg.ID, err)
		c.ack(ctx, msg)
		return
	}

	jctx := logger.WithRequestID(ctx, job.RequestID)
	if err := c.proc.ProcessJob(jctx, &job); err != nil {
		// 不 ACK，等 TTR 到期重投
		c.failed.Inc()
		c.logger.Errorf(jctx, "process sync job failed, leaving for redelivery: job_id=%s, order_id=%d, error=%v", msg.ID, job.OrderID, err)
		return
	}

	c.processed.Inc()
	c.ack(jctx, msg)
}

// ack 确认消息；ACK 失败只记日志，消息会按 TTR 重投并在处理侧幂等
func (c *SyncConsumer) ack(ctx context.Context, msg *lmstfy.Message) {
	if err := c.source.Ack(msg.Queue, msg.ID); err != nil {
		c.logger.Warnf(ctx, "ack failed: job_id=%s, error=%v", msg.ID, err)
	}
}
