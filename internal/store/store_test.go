package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestStoreRoundTrip exercises the full query surface against a real
// database. It needs DATABASE_URL and a schema loaded from schema.sql;
// without one it skips, so `go test ./...` stays green on laptops.
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping store integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	st := New(pool)

	suffix := time.Now().UnixNano()
	seller, err := st.CreateUser(ctx, fmt.Sprintf("seller%d@example.com", suffix), "Seller")
	require.NoError(t, err)
	buyer, err := st.CreateUser(ctx, fmt.Sprintf("buyer%d@example.com", suffix), "Buyer")
	require.NoError(t, err)

	got, err := st.GetUser(ctx, seller.ID)
	require.NoError(t, err)
	require.Equal(t, seller.Email, got.Email)

	byEmail, err := st.GetUserByEmail(ctx, seller.Email)
	require.NoError(t, err)
	require.Equal(t, seller.ID, byEmail.ID)

	// Profile upsert twice: second write overwrites, no merge.
	p, err := st.UpsertProfile(ctx, Profile{UserID: seller.ID, DisplayName: "Sal", Completion: 33})
	require.NoError(t, err)
	require.Equal(t, "Sal", p.DisplayName)

	p, err = st.UpsertProfile(ctx, Profile{
		UserID: seller.ID, DisplayName: "Salvatore", Bio: "tailor",
		Skills: []string{"tailoring"}, Completion: 100,
	})
	require.NoError(t, err)
	require.Equal(t, "Salvatore", p.DisplayName)
	require.Equal(t, int32(100), p.Completion)

	prod, err := st.CreateProduct(ctx, Product{
		SellerID: seller.ID, Name: "Linen Suit", Category: "clothing", PriceCents: 45000,
	})
	require.NoError(t, err)
	require.False(t, prod.Published)

	prod.Published = true
	prod, err = st.UpdateProduct(ctx, prod)
	require.NoError(t, err)

	list, err := st.ListProductsBySeller(ctx, seller.ID, "clothing", "linen")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = st.ListProductsBySeller(ctx, seller.ID, "furniture", "")
	require.NoError(t, err)
	require.Empty(t, list)

	order, err := st.CreateOrder(ctx, Order{
		BuyerID: buyer.ID, SellerID: seller.ID, ProductID: prod.ID, TotalCents: 45000,
	})
	require.NoError(t, err)
	require.Equal(t, "placed", order.Status)

	require.NoError(t, st.RecomputeSellerStats(ctx, seller.ID))
	stats, err := st.GetSellerStats(ctx, seller.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalOrders)
	require.Equal(t, int64(45000), stats.RevenueCents)
}

func TestGetUserNotFound(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping store integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = New(pool).GetUser(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
