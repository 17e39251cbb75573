package svdashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/pkg/errorx"
)

type stubOrderRepo struct {
	listedStatus string
	listedPage   int
	listedLimit  int
}

func (s *stubOrderRepo) Create(ctx context.Context, order *etorder.Order) error { return nil }

func (s *stubOrderRepo) GetByGrabOrderID(ctx context.Context, grabOrderID string) (*etorder.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, orderID uint64) (*etorder.Order, error) {
	return nil, errorx.ErrOrderNotFound
}

func (s *stubOrderRepo) UpdatePaymentAndSnapshot(ctx context.Context, orderID uint64, status etorder.PaymentStatus, raw json.RawMessage) error {
	return nil
}

func (s *stubOrderRepo) UpdateSyncStatus(ctx context.Context, orderID uint64, status etorder.SyncStatus) error {
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context, syncStatus string, page, limit int) ([]*etorder.Order, int64, error) {
	s.listedStatus = syncStatus
	s.listedPage = page
	s.listedLimit = limit
	return []*etorder.Order{{ID: 1, GrabOrderID: "GRAB-1"}}, 12, nil
}

func (s *stubOrderRepo) Stats(ctx context.Context) (*rporder.Stats, error) {
	return &rporder.Stats{Total: 12, Success: 8, Failed: 2}, nil
}

func (s *stubOrderRepo) ListCustomers(ctx context.Context, page, limit int) ([]*rporder.CustomerRow, int64, error) {
	return []*rporder.CustomerRow{{ID: 1, Name: "Budi"}}, 1, nil
}

func (s *stubOrderRepo) ListItems(ctx context.Context, page, limit int) ([]*rporder.ItemRow, int64, error) {
	return []*rporder.ItemRow{{ID: 1, ProductName: "Sate"}}, 6, nil
}

type stubLogRepo struct {
	listedPage  int
	listedLimit int
}

func (s *stubLogRepo) Append(ctx context.Context, entry *rpsynclog.Entry) error { return nil }

func (s *stubLogRepo) List(ctx context.Context, page, limit int) ([]*rpsynclog.LogRow, int64, error) {
	s.listedPage = page
	s.listedLimit = limit
	return []*rpsynclog.LogRow{{ID: 1, OrderID: 1}}, 25, nil
}

func (s *stubLogRepo) ListByOrder(ctx context.Context, orderID uint64) ([]*rpsynclog.LogRow, error) {
	return nil, nil
}

func TestGetViewOrdersTab(t *testing.T) {
	orderRepo := &stubOrderRepo{}
	logRepo := &stubLogRepo{}
	svc := NewDashboardService(orderRepo, logRepo)

	view, err := svc.GetView(context.Background(), "", "FAILED", 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.Tab != TabOrders {
		t.Fatalf("empty tab must default to orders, got %s", view.Tab)
	}
	if orderRepo.listedStatus != "FAILED" || orderRepo.listedPage != 2 || orderRepo.listedLimit != 5 {
		t.Fatalf("unexpected list call: status=%s page=%d limit=%d", orderRepo.listedStatus, orderRepo.listedPage, orderRepo.listedLimit)
	}
	if logRepo.listedPage != 3 || logRepo.listedLimit != 10 {
		t.Fatalf("unexpected log call: page=%d limit=%d", logRepo.listedPage, logRepo.listedLimit)
	}

	// 12 行、每页 5 行 → 3 页
	if view.TabPage.TotalPages != 3 {
		t.Fatalf("expected 3 tab pages, got %d", view.TabPage.TotalPages)
	}
	// 25 行、每页 10 行 → 3 页
	if view.LogPage.TotalPages != 3 {
		t.Fatalf("expected 3 log pages, got %d", view.LogPage.TotalPages)
	}
	if view.Stats.Total != 12 || view.Stats.Success != 8 {
		t.Fatalf("unexpected stats: %+v", view.Stats)
	}
}

func TestGetViewUsersAndItemsTabs(t *testing.T) {
	svc := NewDashboardService(&stubOrderRepo{}, &stubLogRepo{})

	view, err := svc.GetView(context.Background(), TabUsers, "", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Customers) != 1 || view.Orders != nil {
		t.Fatalf("users tab must carry customers only: %+v", view)
	}

	view, err = svc.GetView(context.Background(), TabItems, "", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 || view.Customers != nil {
		t.Fatalf("items tab must carry items only: %+v", view)
	}
}

func TestGetViewRejectsBadQuery(t *testing.T) {
	svc := NewDashboardService(&stubOrderRepo{}, &stubLogRepo{})

	if _, err := svc.GetView(context.Background(), "payments", "", 1, 1); !errors.Is(err, ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery for unknown tab, got %v", err)
	}
	if _, err := svc.GetView(context.Background(), TabOrders, "BOGUS", 1, 1); !errors.Is(err, ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery for unknown status filter, got %v", err)
	}
}

func TestGetViewNormalizesPages(t *testing.T) {
	orderRepo := &stubOrderRepo{}
	logRepo := &stubLogRepo{}
	svc := NewDashboardService(orderRepo, logRepo)

	if _, err := svc.GetView(context.Background(), TabOrders, "", 0, -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderRepo.listedPage != 1 || logRepo.listedPage != 1 {
		t.Fatalf("pages must be clamped to 1, got tab=%d log=%d", orderRepo.listedPage, logRepo.listedPage)
	}
}
