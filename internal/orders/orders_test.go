package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/jobs"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

type fakeStore struct {
	orders map[uuid.UUID]store.Order
	stats  map[uuid.UUID]store.SellerStats

	orderCalls int
	statsCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[uuid.UUID]store.Order),
		stats:  make(map[uuid.UUID]store.SellerStats),
	}
}

func (f *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (store.Order, error) {
	f.orderCalls++
	o, ok := f.orders[id]
	if !ok {
		return store.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o store.Order) (store.Order, error) {
	o.ID = uuid.New()
	o.Status = "placed"
	f.orders[o.ID] = o
	f.stats[o.SellerID] = store.SellerStats{
		SellerID:     o.SellerID,
		TotalOrders:  f.stats[o.SellerID].TotalOrders + 1,
		RevenueCents: f.stats[o.SellerID].RevenueCents + o.TotalCents,
	}
	return o, nil
}

func (f *fakeStore) GetSellerStats(_ context.Context, sellerID uuid.UUID) (store.SellerStats, error) {
	f.statsCalls++
	st, ok := f.stats[sellerID]
	if !ok {
		return store.SellerStats{}, store.ErrNotFound
	}
	return st, nil
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (f *fakeQueue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeQueue) {
	t.Helper()
	c := cache.New()
	t.Cleanup(c.Close)
	fs := newFakeStore()
	fq := &fakeQueue{}
	return New(fs, c, fq, zerolog.Nop()), fs, fq
}

func TestPlaceOrderWritesThrough(t *testing.T) {
	svc, fs, _ := newTestService(t)

	o, err := svc.PlaceOrder(context.Background(), store.Order{
		BuyerID: uuid.New(), SellerID: uuid.New(), ProductID: uuid.New(), TotalCents: 4500,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// The fresh order was written through: reading it must not touch
	// the store.
	got, err := svc.GetOrder(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "placed" {
		t.Errorf("Status = %q, want placed", got.Status)
	}
	if fs.orderCalls != 0 {
		t.Errorf("store hit %d times for a written-through order, want 0", fs.orderCalls)
	}
}

func TestPlaceOrderEnqueuesFollowUps(t *testing.T) {
	svc, _, fq := newTestService(t)

	_, err := svc.PlaceOrder(context.Background(), store.Order{
		BuyerID: uuid.New(), SellerID: uuid.New(), ProductID: uuid.New(), TotalCents: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(fq.tasks) != 2 {
		t.Fatalf("enqueued %d tasks, want 2", len(fq.tasks))
	}
	types := map[string]bool{}
	for _, task := range fq.tasks {
		types[task.Type()] = true
	}
	if !types[jobs.TaskStatsRecompute] || !types[jobs.TaskNotifyOrder] {
		t.Errorf("unexpected task set: %v", types)
	}
}

func TestPlaceOrderInvalidatesStats(t *testing.T) {
	svc, fs, _ := newTestService(t)
	seller := uuid.New()

	if _, err := svc.PlaceOrder(context.Background(), store.Order{
		BuyerID: uuid.New(), SellerID: seller, ProductID: uuid.New(), TotalCents: 100,
	}); err != nil {
		t.Fatal(err)
	}

	st, err := svc.SellerStats(context.Background(), seller)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalOrders != 1 {
		t.Errorf("TotalOrders = %d, want 1", st.TotalOrders)
	}

	// Second order must evict the cached stats.
	if _, err := svc.PlaceOrder(context.Background(), store.Order{
		BuyerID: uuid.New(), SellerID: seller, ProductID: uuid.New(), TotalCents: 200,
	}); err != nil {
		t.Fatal(err)
	}
	st, err = svc.SellerStats(context.Background(), seller)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalOrders != 2 {
		t.Errorf("stale stats after second order: TotalOrders = %d, want 2", st.TotalOrders)
	}
	if fs.statsCalls != 2 {
		t.Errorf("stats store hits = %d, want 2", fs.statsCalls)
	}
}

func TestRecomputeStatsEnqueuesAndInvalidates(t *testing.T) {
	svc, fs, fq := newTestService(t)
	seller := uuid.New()
	fs.stats[seller] = store.SellerStats{SellerID: seller, TotalOrders: 1}

	// Warm the cache, then trigger a manual recompute.
	if _, err := svc.SellerStats(context.Background(), seller); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecomputeStats(context.Background(), seller); err != nil {
		t.Fatal(err)
	}

	if len(fq.tasks) != 1 || fq.tasks[0].Type() != jobs.TaskStatsRecompute {
		t.Fatalf("unexpected tasks: %v", fq.tasks)
	}
	if _, err := svc.SellerStats(context.Background(), seller); err != nil {
		t.Fatal(err)
	}
	if fs.statsCalls != 2 {
		t.Errorf("stats store hits = %d, want 2 (cache must be dropped)", fs.statsCalls)
	}
}

func TestSellerStatsCached(t *testing.T) {
	svc, fs, _ := newTestService(t)
	seller := uuid.New()
	fs.stats[seller] = store.SellerStats{SellerID: seller, TotalOrders: 5}

	for i := 0; i < 3; i++ {
		if _, err := svc.SellerStats(context.Background(), seller); err != nil {
			t.Fatal(err)
		}
	}
	if fs.statsCalls != 1 {
		t.Errorf("stats store hits = %d, want 1", fs.statsCalls)
	}
}
