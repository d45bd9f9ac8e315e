package handoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/slot"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	t.Parallel()

	rdb := newFakeRedis()
	store := NewRedisStore(rdb, 10*time.Minute)
	po := domain.PurchaseOrder{
		ID:       "PO-HYKJ-0001",
		Vendor:   "华印科技",
		Status:   domain.PurchaseOrderOpen,
		Expected: slot.Date{Year: 2025, Month: 6, Day: 5},
		Lines:    []domain.PurchaseOrderLine{{SKU: "HYKJ-AB1234", Name: "帆布袋", Ordered: 100}},
	}

	if err := store.Put(context.Background(), po); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ttl := rdb.ttls["po_detail_PO-HYKJ-0001"]; ttl != 10*time.Minute {
		t.Fatalf("expected ttl 10m, got %v", ttl)
	}

	got, err := store.Get(context.Background(), po.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Vendor != po.Vendor || got.Expected != po.Expected || len(got.Lines) != 1 {
		t.Fatalf("expected %+v, got %+v", po, got)
	}
}

func TestRedisStore_ZeroDates(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(newFakeRedis(), time.Minute)
	if err := store.Put(context.Background(), domain.PurchaseOrder{ID: "PO-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(context.Background(), "PO-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != "PO-1" || !got.Expected.IsZero() {
		t.Fatalf("expected PO-1 without expected date, got %+v", got)
	}
}

func TestRedisStore_Missing(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(newFakeRedis(), time.Minute)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrHandoffNotFound) {
		t.Fatalf("expected ErrHandoffNotFound, got %v", err)
	}
}

func TestRedisStore_BackendError(t *testing.T) {
	t.Parallel()

	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	store := NewRedisStore(rdb, time.Minute)

	if err := store.Put(context.Background(), domain.PurchaseOrder{ID: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := store.Get(context.Background(), "x"); err == nil || errors.Is(err, domain.ErrHandoffNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
