package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/domains/entity/etorder"
	"grabsync/internal/app/domains/model"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/services/svwebhook"
	"grabsync/internal/app/pkg/errorx"
	"grabsync/internal/app/pkg/logger"
)

type stubOrderRepo struct {
	mu        sync.Mutex
	existing  *etorder.Order
	createErr error
	updateErr error
	created   *etorder.Order
}

func (s *stubOrderRepo) Create(ctx context.Context, order *etorder.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = 1
	s.created = order
	return nil
}

func (s *stubOrderRepo) GetByGrabOrderID(ctx context.Context, grabOrderID string) (*etorder.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, orderID uint64) (*etorder.Order, error) {
	return nil, errorx.ErrOrderNotFound
}

func (s *stubOrderRepo) UpdatePaymentAndSnapshot(ctx context.Context, orderID uint64, status etorder.PaymentStatus, raw json.RawMessage) error {
	return s.updateErr
}

func (s *stubOrderRepo) UpdateSyncStatus(ctx context.Context, orderID uint64, status etorder.SyncStatus) error {
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context, syncStatus string, page, limit int) ([]*etorder.Order, int64, error) {
	return nil, 0, nil
}

func (s *stubOrderRepo) Stats(ctx context.Context) (*rporder.Stats, error) {
	return &rporder.Stats{}, nil
}

func (s *stubOrderRepo) ListCustomers(ctx context.Context, page, limit int) ([]*rporder.CustomerRow, int64, error) {
	return nil, 0, nil
}

func (s *stubOrderRepo) ListItems(ctx context.Context, page, limit int) ([]*rporder.ItemRow, int64, error) {
	return nil, 0, nil
}

type stubPublisher struct {
	mu   sync.Mutex
	jobs []*model.SyncJob
}

func (s *stubPublisher) PublishJob(ctx context.Context, job *model.SyncJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

func newTestRouter(repo *stubOrderRepo, pub *stubPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := svwebhook.NewWebhookService(repo, pub, logger.NopLogger{})
	h := NewWebhookHandler(svc)

	r := gin.New()
	r.POST("/webhook/grab", h.Receive)
	return r
}

const validPayload = `{
	"orderID": "GRAB-100",
	"amount": 50000,
	"status": "PAID",
	"items": [{"name": "Nasi Goreng", "qty": 2, "price": 25000}],
	"customer": {"name": "Budi", "phone": "0812", "email": "budi@example.com"}
}`

func TestReceiveOK(t *testing.T) {
	repo := &stubOrderRepo{}
	pub := &stubPublisher{}
	r := newTestRouter(repo, pub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/grab", strings.NewReader(validPayload))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "OK" {
		t.Fatalf("expected plain OK body, got %q", w.Body.String())
	}
	if repo.created == nil {
		t.Fatal("expected order persisted")
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("expected sync job published, got %d", len(pub.jobs))
	}
}

func TestReceiveDuplicate(t *testing.T) {
	repo := &stubOrderRepo{createErr: errorx.ErrDuplicateOrder}
	r := newTestRouter(repo, &stubPublisher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/grab", strings.NewReader(validPayload))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("duplicate must still be 200, got %d", w.Code)
	}
	if w.Body.String() != "Duplicate" {
		t.Fatalf("expected Duplicate body, got %q", w.Body.String())
	}
}

func TestReceiveRejectsMissingItems(t *testing.T) {
	r := newTestRouter(&stubOrderRepo{}, &stubPublisher{})

	payload := `{"orderID":"GRAB-1","amount":100,"items":[],"customer":{"name":"Budi"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/grab", strings.NewReader(payload))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReceiveRejectsUnknownStatus(t *testing.T) {
	r := newTestRouter(&stubOrderRepo{}, &stubPublisher{})

	payload := strings.Replace(validPayload, `"PAID"`, `"REFUNDED"`, 1)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/grab", strings.NewReader(payload))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestReceiveDatabaseError(t *testing.T) {
	repo := &stubOrderRepo{
		existing:  &etorder.Order{ID: 3, GrabOrderID: "GRAB-100"},
		updateErr: errTestDB,
	}
	r := newTestRouter(repo, &stubPublisher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/grab", strings.NewReader(validPayload))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "Error Database: ") {
		t.Fatalf("expected Error Database prefix, got %q", w.Body.String())
	}
}

var errTestDB = errors.New("connection refused")
