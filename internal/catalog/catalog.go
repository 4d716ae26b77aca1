// Package catalog serves product and service listings — single items
// and filtered browse queries — through the cache, invalidating on
// every mutation.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

// Store is the slice of the persistence layer this service needs.
type Store interface {
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
	CreateProduct(ctx context.Context, p store.Product) (store.Product, error)
	UpdateProduct(ctx context.Context, p store.Product) (store.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID uuid.UUID, category, query string) ([]store.Product, error)
	GetService(ctx context.Context, id uuid.UUID) (store.ServiceListing, error)
	CreateService(ctx context.Context, sl store.ServiceListing) (store.ServiceListing, error)
}

type Service struct {
	store Store
	cache *cache.Cache
	log   zerolog.Logger
}

func New(st Store, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		cache: c,
		log:   log.With().Str("component", "catalog").Logger(),
	}
}

// Filter narrows a seller's listing query.
type Filter struct {
	Category string
	Query    string
}

// subKey renders the filter as a normalized, order-stable sub-key so
// equivalent queries share one cache entry. The unfiltered listing gets
// its own sub-key to stay apart from single-item entries.
func (f Filter) subKey() string {
	return "list|cat=" + norm(f.Category) + "|q=" + norm(f.Query)
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetProduct returns a product by id, cached for the medium TTL class.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSProduct, id.String()), cache.TTLMedium,
		func(ctx context.Context) (store.Product, error) {
			return s.store.GetProduct(ctx, id)
		})
}

// GetService returns a service listing by id, cached for the medium
// TTL class.
func (s *Service) GetService(ctx context.Context, id uuid.UUID) (store.ServiceListing, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSService, id.String()), cache.TTLMedium,
		func(ctx context.Context) (store.ServiceListing, error) {
			return s.store.GetService(ctx, id)
		})
}

// ListBySeller returns a seller's published products for the given
// filter. Browse results churn with every mutation, so they get the
// short TTL class and a filter-derived sub-key under the seller's id.
func (s *Service) ListBySeller(ctx context.Context, sellerID uuid.UUID, f Filter) ([]store.Product, error) {
	key := cache.NewKey(cache.NSProduct, sellerID.String()).WithSub(f.subKey())
	return cache.Fetch(ctx, s.cache, key, cache.TTLShort,
		func(ctx context.Context) ([]store.Product, error) {
			return s.store.ListProductsBySeller(ctx, sellerID, norm(f.Category), norm(f.Query))
		})
}

// CreateProduct inserts a product and drops the seller's cached
// listings; the product itself is not cached until someone reads it.
func (s *Service) CreateProduct(ctx context.Context, p store.Product) (store.Product, error) {
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return store.Product{}, fmt.Errorf("create product: %w", err)
	}
	n := s.cache.InvalidateID(cache.NSProduct, created.SellerID.String())
	s.log.Debug().Str("product", created.ID.String()).Int("invalidated", n).Msg("product created")
	return created, nil
}

// UpdateProduct overwrites a product and invalidates both its cached
// entry and every listing of its seller that might include it.
func (s *Service) UpdateProduct(ctx context.Context, p store.Product) (store.Product, error) {
	updated, err := s.store.UpdateProduct(ctx, p)
	if err != nil {
		return store.Product{}, fmt.Errorf("update product: %w", err)
	}
	n := s.cache.InvalidateID(cache.NSProduct, updated.ID.String())
	n += s.cache.InvalidateID(cache.NSProduct, updated.SellerID.String())
	s.log.Debug().Str("product", updated.ID.String()).Int("invalidated", n).Msg("product updated")
	return updated, nil
}

// CreateService inserts a service listing. Service browse surfaces are
// small enough that the whole namespace is dropped on mutation.
func (s *Service) CreateService(ctx context.Context, sl store.ServiceListing) (store.ServiceListing, error) {
	created, err := s.store.CreateService(ctx, sl)
	if err != nil {
		return store.ServiceListing{}, fmt.Errorf("create service: %w", err)
	}
	n := s.cache.InvalidateNamespace(cache.NSService)
	s.log.Debug().Str("service", created.ID.String()).Int("invalidated", n).Msg("service created")
	return created, nil
}
