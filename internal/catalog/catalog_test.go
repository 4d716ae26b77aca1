package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

type fakeStore struct {
	products map[uuid.UUID]store.Product
	services map[uuid.UUID]store.ServiceListing

	getCalls     int
	listCalls    int
	serviceCalls int
	lastCategory string
	lastQuery    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]store.Product),
		services: make(map[uuid.UUID]store.ServiceListing),
	}
}

func (f *fakeStore) GetProduct(_ context.Context, id uuid.UUID) (store.Product, error) {
	f.getCalls++
	p, ok := f.products[id]
	if !ok {
		return store.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, p store.Product) (store.Product, error) {
	p.ID = uuid.New()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) UpdateProduct(_ context.Context, p store.Product) (store.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return store.Product{}, store.ErrNotFound
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) ListProductsBySeller(_ context.Context, sellerID uuid.UUID, category, query string) ([]store.Product, error) {
	f.listCalls++
	f.lastCategory, f.lastQuery = category, query
	var out []store.Product
	for _, p := range f.products {
		if p.SellerID == sellerID && (category == "" || p.Category == category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetService(_ context.Context, id uuid.UUID) (store.ServiceListing, error) {
	f.serviceCalls++
	sl, ok := f.services[id]
	if !ok {
		return store.ServiceListing{}, store.ErrNotFound
	}
	return sl, nil
}

func (f *fakeStore) CreateService(_ context.Context, sl store.ServiceListing) (store.ServiceListing, error) {
	sl.ID = uuid.New()
	f.services[sl.ID] = sl
	return sl, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	c := cache.New()
	t.Cleanup(c.Close)
	fs := newFakeStore()
	return New(fs, c, zerolog.Nop()), fs
}

func TestListBySellerCachedPerFilter(t *testing.T) {
	svc, fs := newTestService(t)
	seller := uuid.New()
	fs.products[uuid.New()] = store.Product{SellerID: seller, Category: "clothing", Name: "Suit"}

	ctx := context.Background()

	// Same filter twice: one store hit.
	for i := 0; i < 2; i++ {
		if _, err := svc.ListBySeller(ctx, seller, Filter{Category: "clothing"}); err != nil {
			t.Fatal(err)
		}
	}
	if fs.listCalls != 1 {
		t.Fatalf("store hit %d times for one filter, want 1", fs.listCalls)
	}

	// Different filter: its own entry.
	if _, err := svc.ListBySeller(ctx, seller, Filter{Category: "furniture"}); err != nil {
		t.Fatal(err)
	}
	if fs.listCalls != 2 {
		t.Errorf("store hit %d times across two filters, want 2", fs.listCalls)
	}
}

func TestListFilterNormalization(t *testing.T) {
	svc, fs := newTestService(t)
	seller := uuid.New()

	ctx := context.Background()
	if _, err := svc.ListBySeller(ctx, seller, Filter{Category: "  Clothing ", Query: " LINEN "}); err != nil {
		t.Fatal(err)
	}
	if fs.lastCategory != "clothing" || fs.lastQuery != "linen" {
		t.Errorf("filter not normalized: category=%q query=%q", fs.lastCategory, fs.lastQuery)
	}

	// The normalized variant must share the cache entry.
	if _, err := svc.ListBySeller(ctx, seller, Filter{Category: "clothing", Query: "linen"}); err != nil {
		t.Fatal(err)
	}
	if fs.listCalls != 1 {
		t.Errorf("store hit %d times for equivalent filters, want 1", fs.listCalls)
	}
}

func TestUpdateProductInvalidatesItemAndListings(t *testing.T) {
	svc, fs := newTestService(t)
	seller := uuid.New()
	p, err := svc.CreateProduct(context.Background(), store.Product{SellerID: seller, Name: "Suit", Category: "clothing"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := svc.GetProduct(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListBySeller(ctx, seller, Filter{}); err != nil {
		t.Fatal(err)
	}

	p.Name = "Linen Suit"
	if _, err := svc.UpdateProduct(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Linen Suit" {
		t.Errorf("stale product after update: %q", got.Name)
	}
	if fs.getCalls != 2 {
		t.Errorf("product store hits = %d, want 2", fs.getCalls)
	}

	if _, err := svc.ListBySeller(ctx, seller, Filter{}); err != nil {
		t.Fatal(err)
	}
	if fs.listCalls != 2 {
		t.Errorf("listing store hits = %d, want 2 (listing must be re-read)", fs.listCalls)
	}
}

func TestCreateServiceInvalidatesNamespace(t *testing.T) {
	svc, fs := newTestService(t)
	sl, err := svc.CreateService(context.Background(), store.ServiceListing{SellerID: uuid.New(), Name: "Tailoring"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := svc.GetService(ctx, sl.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateService(ctx, store.ServiceListing{SellerID: uuid.New(), Name: "Repair"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetService(ctx, sl.ID); err != nil {
		t.Fatal(err)
	}
	if fs.serviceCalls != 2 {
		t.Errorf("service store hits = %d, want 2 (namespace must be dropped)", fs.serviceCalls)
	}
}
