// Package orders serves order reads and seller statistics through the
// cache, and hands follow-up work (stats recompute, notification) to
// the background worker when an order is placed.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/jobs"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

// Store is the slice of the persistence layer this service needs.
type Store interface {
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	CreateOrder(ctx context.Context, o store.Order) (store.Order, error)
	GetSellerStats(ctx context.Context, sellerID uuid.UUID) (store.SellerStats, error)
}

// Enqueuer hands tasks to the background worker. *asynq.Client
// satisfies it.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

type Service struct {
	store Store
	cache *cache.Cache
	queue Enqueuer
	log   zerolog.Logger
}

func New(st Store, c *cache.Cache, q Enqueuer, log zerolog.Logger) *Service {
	return &Service{
		store: st,
		cache: c,
		queue: q,
		log:   log.With().Str("component", "orders").Logger(),
	}
}

// GetOrder returns an order by id, cached for the medium TTL class.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSOrder, id.String()), cache.TTLMedium,
		func(ctx context.Context) (store.Order, error) {
			return s.store.GetOrder(ctx, id)
		})
}

// SellerStats returns a seller's aggregates. Stats go stale the moment
// an order lands, so they get the short TTL class on top of the
// explicit invalidation in PlaceOrder.
func (s *Service) SellerStats(ctx context.Context, sellerID uuid.UUID) (store.SellerStats, error) {
	return cache.Fetch(ctx, s.cache, cache.NewKey(cache.NSStats, sellerID.String()), cache.TTLShort,
		func(ctx context.Context) (store.SellerStats, error) {
			return s.store.GetSellerStats(ctx, sellerID)
		})
}

// PlaceOrder persists a new order, writes it through to the cache,
// drops the seller's cached stats, and enqueues the recompute and
// notification tasks. Enqueue failures are logged, not returned: the
// order is already placed and the short stats TTL bounds the staleness.
func (s *Service) PlaceOrder(ctx context.Context, o store.Order) (store.Order, error) {
	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return store.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.cache.Put(cache.NewKey(cache.NSOrder, created.ID.String()), created, cache.TTLMedium)
	s.cache.InvalidateID(cache.NSStats, created.SellerID.String())

	if task, err := jobs.NewStatsRecomputeTask(created.SellerID); err == nil {
		if _, err := s.queue.Enqueue(task, asynq.Queue(jobs.QueueStats), asynq.MaxRetry(5)); err != nil {
			s.log.Error().Err(err).Str("seller", created.SellerID.String()).Msg("enqueue stats recompute")
		}
	}
	if task, err := jobs.NewNotifyOrderTask(created.ID, created.BuyerID, created.SellerID, created.TotalCents); err == nil {
		if _, err := s.queue.Enqueue(task, asynq.Queue(jobs.QueueDefault)); err != nil {
			s.log.Error().Err(err).Str("order", created.ID.String()).Msg("enqueue order notification")
		}
	}

	s.log.Info().Str("order", created.ID.String()).Int64("total_cents", created.TotalCents).Msg("order placed")
	return created, nil
}

// RecomputeStats queues a stats rebuild for a seller, the manual
// counterpart of the enqueue PlaceOrder does, and drops the cached
// aggregates so the next read waits for fresh data at worst one fetch.
func (s *Service) RecomputeStats(ctx context.Context, sellerID uuid.UUID) error {
	task, err := jobs.NewStatsRecomputeTask(sellerID)
	if err != nil {
		return fmt.Errorf("recompute stats: %w", err)
	}
	if _, err := s.queue.Enqueue(task, asynq.Queue(jobs.QueueStats), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("recompute stats: %w", err)
	}
	s.cache.InvalidateID(cache.NSStats, sellerID.String())
	return nil
}
