// Package httpapi exposes the marketplace read services over JSON
// HTTP: chi for routing, zerolog/hlog for request logging, and a debug
// endpoint over the cache's stats and metrics counters.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/accounts"
	"github.com/thecodersourabh/salvatore-api/internal/catalog"
	"github.com/thecodersourabh/salvatore-api/internal/orders"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

// Accounts is the account surface the handlers need.
type Accounts interface {
	GetUser(ctx context.Context, id uuid.UUID) (store.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (store.Profile, error)
	UpdateProfile(ctx context.Context, p store.Profile) (store.Profile, error)
}

// Catalog is the listings surface the handlers need.
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
	CreateProduct(ctx context.Context, p store.Product) (store.Product, error)
	UpdateProduct(ctx context.Context, p store.Product) (store.Product, error)
	GetService(ctx context.Context, id uuid.UUID) (store.ServiceListing, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, f catalog.Filter) ([]store.Product, error)
}

// Orders is the order surface the handlers need.
type Orders interface {
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	PlaceOrder(ctx context.Context, o store.Order) (store.Order, error)
	SellerStats(ctx context.Context, sellerID uuid.UUID) (store.SellerStats, error)
	RecomputeStats(ctx context.Context, sellerID uuid.UUID) error
}

var (
	_ Accounts = (*accounts.Service)(nil)
	_ Catalog  = (*catalog.Service)(nil)
	_ Orders   = (*orders.Service)(nil)
)

type Server struct {
	Router *chi.Mux

	accounts Accounts
	catalog  Catalog
	orders   Orders
	cache    *cache.Cache
	metrics  *cache.Counters
	log      zerolog.Logger
}

type Options struct {
	Accounts Accounts
	Catalog  Catalog
	Orders   Orders
	Cache    *cache.Cache
	Metrics  *cache.Counters
	Log      zerolog.Logger
}

func New(opts Options) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:   r,
		accounts: opts.Accounts,
		catalog:  opts.Catalog,
		orders:   opts.Orders,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		log:      opts.Log.With().Str("component", "httpapi").Logger(),
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.log.Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/users/{id}", s.handleGetUser)
		r.Get("/users/{id}/profile", s.handleGetProfile)
		r.Put("/users/{id}/profile", s.handleUpdateProfile)

		r.Get("/products/{id}", s.handleGetProduct)
		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Get("/services/{id}", s.handleGetService)

		r.Get("/sellers/{sellerID}/products", s.handleListSellerProducts)
		r.Get("/sellers/{sellerID}/stats", s.handleSellerStats)
		r.Post("/sellers/{sellerID}/stats/recompute", s.handleRecomputeStats)

		r.Get("/orders/{id}", s.handleGetOrder)
		r.Post("/orders", s.handlePlaceOrder)
	})

	r.Get("/debug/cache", s.handleDebugCache)

	return s
}
