package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetOrder fetches an order by id.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	var o Order
	err := s.pool.QueryRow(ctx,
		`SELECT id, buyer_id, seller_id, product_id, status, total_cents, created_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Status, &o.TotalCents, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// CreateOrder inserts a new order in the "placed" state.
func (s *Store) CreateOrder(ctx context.Context, o Order) (Order, error) {
	var out Order
	err := s.pool.QueryRow(ctx,
		`INSERT INTO orders (id, buyer_id, seller_id, product_id, status, total_cents, created_at)
		 VALUES ($1, $2, $3, $4, 'placed', $5, now())
		 RETURNING id, buyer_id, seller_id, product_id, status, total_cents, created_at`,
		uuid.New(), o.BuyerID, o.SellerID, o.ProductID, o.TotalCents,
	).Scan(&out.ID, &out.BuyerID, &out.SellerID, &out.ProductID, &out.Status, &out.TotalCents, &out.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return out, nil
}

// GetSellerStats fetches the precomputed aggregates for a seller.
func (s *Store) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (SellerStats, error) {
	var st SellerStats
	err := s.pool.QueryRow(ctx,
		`SELECT seller_id, total_orders, revenue_cents, avg_order_cents, updated_at
		 FROM seller_stats WHERE seller_id = $1`, sellerID,
	).Scan(&st.SellerID, &st.TotalOrders, &st.RevenueCents, &st.AvgOrderCents, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SellerStats{}, ErrNotFound
	}
	if err != nil {
		return SellerStats{}, fmt.Errorf("get seller stats: %w", err)
	}
	return st, nil
}

// RecomputeSellerStats rebuilds a seller's aggregates from their
// orders. Run by the worker after each placed order.
func (s *Store) RecomputeSellerStats(ctx context.Context, sellerID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO seller_stats (seller_id, total_orders, revenue_cents, avg_order_cents, updated_at)
		 SELECT $1,
		        COUNT(*),
		        COALESCE(SUM(total_cents), 0),
		        COALESCE(AVG(total_cents), 0)::bigint,
		        now()
		 FROM orders WHERE seller_id = $1
		 ON CONFLICT (seller_id) DO UPDATE SET
		   total_orders    = EXCLUDED.total_orders,
		   revenue_cents   = EXCLUDED.revenue_cents,
		   avg_order_cents = EXCLUDED.avg_order_cents,
		   updated_at      = EXCLUDED.updated_at`,
		sellerID)
	if err != nil {
		return fmt.Errorf("recompute seller stats: %w", err)
	}
	return nil
}
