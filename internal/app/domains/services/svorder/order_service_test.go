package svorder

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/pkg/errorx"
	"grabsync/internal/app/pkg/logger"
)

type mockOrderRepo struct {
	orders map[uint64]*etorder.Order
}

func (m *mockOrderRepo) Create(ctx context.Context, order *etorder.Order) error { return nil }

func (m *mockOrderRepo) GetByGrabOrderID(ctx context.Context, grabOrderID string) (*etorder.Order, error) {
	return nil, nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, orderID uint64) (*etorder.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, errorx.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) UpdatePaymentAndSnapshot(ctx context.Context, orderID uint64, status etorder.PaymentStatus, raw json.RawMessage) error {
	return nil
}

func (m *mockOrderRepo) UpdateSyncStatus(ctx context.Context, orderID uint64, status etorder.SyncStatus) error {
	return nil
}

func (m *mockOrderRepo) List(ctx context.Context, syncStatus string, page, limit int) ([]*etorder.Order, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) Stats(ctx context.Context) (*rporder.Stats, error) {
	return &rporder.Stats{}, nil
}

func (m *mockOrderRepo) ListCustomers(ctx context.Context, page, limit int) ([]*rporder.CustomerRow, int64, error) {
	return nil, 0, nil
}

func (m *mockOrderRepo) ListItems(ctx context.Context, page, limit int) ([]*rporder.ItemRow, int64, error) {
	return nil, 0, nil
}

type mockLogRepo struct{}

func (mockLogRepo) Append(ctx context.Context, entry *rpsynclog.Entry) error { return nil }

func (mockLogRepo) List(ctx context.Context, page, limit int) ([]*rpsynclog.LogRow, int64, error) {
	return nil, 0, nil
}

func (mockLogRepo) ListByOrder(ctx context.Context, orderID uint64) ([]*rpsynclog.LogRow, error) {
	return []*rpsynclog.LogRow{{OrderID: orderID, StatusSync: "SUCCESS"}}, nil
}

type mockDispatcher struct {
	mu         sync.Mutex
	jobs       []*model.SyncJob
	publishErr error
	result     *model.SyncResult
	waitErr    error
}

func (m *mockDispatcher) PublishJob(ctx context.Context, job *model.SyncJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockDispatcher) WaitForResult(ctx context.Context, orderID uint64, timeout time.Duration) (*model.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	return m.result, nil
}

func paidOrder(id uint64) *etorder.Order {
	return &etorder.Order{
		ID:            id,
		GrabOrderID:   "GRAB-1",
		TotalAmount:   75000,
		PaymentStatus: etorder.PaymentStatusPaid,
	}
}

func TestResyncOrderNotFound(t *testing.T) {
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{}}
	dispatcher := &mockDispatcher{}
	svc := NewOrderService(repo, mockLogRepo{}, dispatcher, time.Second, logger.NopLogger{})

	_, err := svc.Resync(context.Background(), 99)
	if !errors.Is(err, errorx.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if len(dispatcher.jobs) != 0 {
		t.Fatal("missing order must not publish a job")
	}
}

func TestResyncRejectsUnpaidOrder(t *testing.T) {
	order := paidOrder(5)
	order.PaymentStatus = etorder.PaymentStatusPending
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{5: order}}
	dispatcher := &mockDispatcher{}
	svc := NewOrderService(repo, mockLogRepo{}, dispatcher, time.Second, logger.NopLogger{})

	_, err := svc.Resync(context.Background(), 5)
	if !errors.Is(err, errorx.ErrOrderNotPaid) {
		t.Fatalf("expected ErrOrderNotPaid, got %v", err)
	}
	if len(dispatcher.jobs) != 0 {
		t.Fatal("unpaid order must not publish a job")
	}
}

func TestResyncPublishesManualJobAndWaits(t *testing.T) {
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{5: paidOrder(5)}}
	dispatcher := &mockDispatcher{
		result: &model.SyncResult{OrderID: 5, Status: model.ResultStatusSuccess, Message: "done"},
	}
	svc := NewOrderService(repo, mockLogRepo{}, dispatcher, time.Second, logger.NopLogger{})

	result, err := svc.Resync(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Status != model.ResultStatusSuccess {
		t.Fatalf("expected success result, got %+v", result)
	}

	if len(dispatcher.jobs) != 1 {
		t.Fatalf("expected 1 job published, got %d", len(dispatcher.jobs))
	}
	job := dispatcher.jobs[0]
	if job.Trigger != model.TriggerManual {
		t.Fatalf("expected manual trigger, got %s", job.Trigger)
	}
	if job.OrderID != 5 || job.GrabOrderID != "GRAB-1" || job.Amount != 75000 {
		t.Fatalf("job not rebuilt from stored order: %+v", job)
	}
	if job.PaymentStatus != "PAID" {
		t.Fatalf("expected PAID in job, got %s", job.PaymentStatus)
	}
}

func TestResyncWaitTimeoutReturnsNilResult(t *testing.T) {
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{5: paidOrder(5)}}
	dispatcher := &mockDispatcher{waitErr: context.DeadlineExceeded}
	svc := NewOrderService(repo, mockLogRepo{}, dispatcher, time.Millisecond, logger.NopLogger{})

	result, err := svc.Resync(context.Background(), 5)
	if err != nil {
		t.Fatalf("wait timeout must not be an error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result on timeout, got %+v", result)
	}
	if len(dispatcher.jobs) != 1 {
		t.Fatal("job must still have been published before the wait")
	}
}

func TestResyncPublishFailure(t *testing.T) {
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{5: paidOrder(5)}}
	dispatcher := &mockDispatcher{publishErr: errors.New("queue down")}
	svc := NewOrderService(repo, mockLogRepo{}, dispatcher, time.Second, logger.NopLogger{})

	if _, err := svc.Resync(context.Background(), 5); err == nil {
		t.Fatal("expected error when the job cannot be queued")
	}
}

func TestGetOrderSyncHistory(t *testing.T) {
	repo := &mockOrderRepo{orders: map[uint64]*etorder.Order{5: paidOrder(5)}}
	svc := NewOrderService(repo, mockLogRepo{}, &mockDispatcher{}, time.Second, logger.NopLogger{})

	history, err := svc.GetOrderSyncHistory(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].OrderID != 5 {
		t.Fatalf("unexpected history: %+v", history)
	}
}
