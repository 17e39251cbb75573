package mdsync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"grabsync/internal/app/domains/model"
)

type stubQueue struct {
	queue string
	data  []byte
	ttl   uint32
	delay uint32
	err   error
}

func (s *stubQueue) Publish(queue string, data []byte, ttl, delay uint32) error {
	if s.err != nil {
		return s.err
	}
	s.queue = queue
	s.data = data
	s.ttl = ttl
	s.delay = delay
	return nil
}

type stubBus struct {
	published map[string]string
	stored    string
	subErr    error
}

func (s *stubBus) Publish(ctx context.Context, channel string, message string) error {
	if s.published == nil {
		s.published = make(map[string]string)
	}
	s.published[channel] = message
	return nil
}

func (s *stubBus) Subscribe(ctx context.Context, channel string, timeout time.Duration) (string, error) {
	if s.subErr != nil {
		return "", s.subErr
	}
	return s.stored, nil
}

func TestPublishJobWireFormat(t *testing.T) {
	queue := &stubQueue{}
	m := NewSyncModule(queue, &stubBus{}, "ginee_sync")

	job := &model.SyncJob{RequestID: "r1", OrderID: 9, GrabOrderID: "GRAB-9", Amount: 100, PaymentStatus: "PAID", Trigger: model.TriggerWebhook}
	if err := m.PublishJob(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if queue.queue != "ginee_sync" {
		t.Fatalf("expected queue ginee_sync, got %s", queue.queue)
	}
	if queue.delay != 0 {
		t.Fatalf("jobs must not be delayed, got %d", queue.delay)
	}

	var decoded model.SyncJob
	if err := json.Unmarshal(queue.data, &decoded); err != nil {
		t.Fatalf("payload must round-trip: %v", err)
	}
	if decoded.OrderID != 9 || decoded.Trigger != model.TriggerWebhook {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestWaitForResult(t *testing.T) {
	result := &model.SyncResult{RequestID: "r1", OrderID: 9, Status: model.ResultStatusSuccess, Message: "done"}
	payload, _ := json.Marshal(result)
	bus := &stubBus{stored: string(payload)}
	m := NewSyncModule(&stubQueue{}, bus, "ginee_sync")

	got, err := m.WaitForResult(context.Background(), 9, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.ResultStatusSuccess || got.OrderID != 9 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestWaitForResultTimeout(t *testing.T) {
	bus := &stubBus{subErr: context.DeadlineExceeded}
	m := NewSyncModule(&stubQueue{}, bus, "ginee_sync")

	if _, err := m.WaitForResult(context.Background(), 9, time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestNotifyResultChannelNaming(t *testing.T) {
	bus := &stubBus{}
	m := NewSyncModule(&stubQueue{}, bus, "ginee_sync")

	result := &model.SyncResult{RequestID: "r1", OrderID: 42, Status: model.ResultStatusFailed, Message: "boom"}
	if err := m.NotifyResult(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := bus.published["sync:result:42"]; !ok {
		t.Fatalf("expected publish on sync:result:42, got %v", bus.published)
	}
}
