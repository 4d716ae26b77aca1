package store

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account, buyer or seller.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is a seller's progressive-profiling record. Completion is
// the percentage of onboarding steps finished and is recomputed on
// every update.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Skills      []string  `json:"skills"`
	Completion  int32     `json:"completion"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Team groups sellers under one storefront.
type Team struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a physical listing.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceListing is a service offering (tailoring, repair, design...)
// listed alongside products.
type ServiceListing struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	RateCents int64     `json:"rate_cents"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a purchase of one product.
type Order struct {
	ID         uuid.UUID `json:"id"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// SellerStats are aggregates over a seller's orders, recomputed by the
// worker and cached with a short TTL.
type SellerStats struct {
	SellerID      uuid.UUID `json:"seller_id"`
	TotalOrders   int64     `json:"total_orders"`
	RevenueCents  int64     `json:"revenue_cents"`
	AvgOrderCents int64     `json:"avg_order_cents"`
	UpdatedAt     time.Time `json:"updated_at"`
}
