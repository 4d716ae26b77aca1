package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productCols = `id, seller_id, name, description, category, price_cents, published, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category,
		&p.PriceCents, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProduct fetches a product by id.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a new, unpublished product.
func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	out, err := scanProduct(s.pool.QueryRow(ctx,
		`INSERT INTO products (id, seller_id, name, description, category, price_cents, published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, now(), now())
		 RETURNING `+productCols,
		uuid.New(), p.SellerID, p.Name, p.Description, p.Category, p.PriceCents))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return out, nil
}

// UpdateProduct overwrites a product's editable fields.
func (s *Store) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	out, err := scanProduct(s.pool.QueryRow(ctx,
		`UPDATE products SET
		   name = $2, description = $3, category = $4, price_cents = $5,
		   published = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productCols,
		p.ID, p.Name, p.Description, p.Category, p.PriceCents, p.Published))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return out, nil
}

// ListProductsBySeller returns a seller's published products, newest
// first, optionally narrowed by category and a name search term.
func (s *Store) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID, category, query string) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productCols+` FROM products
		 WHERE seller_id = $1 AND published
		   AND ($2 = '' OR category = $2)
		   AND ($3 = '' OR name ILIKE '%' || $3 || '%')
		 ORDER BY created_at DESC`,
		sellerID, category, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// GetService fetches a service listing by id.
func (s *Store) GetService(ctx context.Context, id uuid.UUID) (ServiceListing, error) {
	var sl ServiceListing
	err := s.pool.QueryRow(ctx,
		`SELECT id, seller_id, name, category, rate_cents, published, created_at
		 FROM services WHERE id = $1`, id,
	).Scan(&sl.ID, &sl.SellerID, &sl.Name, &sl.Category, &sl.RateCents, &sl.Published, &sl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceListing{}, ErrNotFound
	}
	if err != nil {
		return ServiceListing{}, fmt.Errorf("get service: %w", err)
	}
	return sl, nil
}

// CreateService inserts a new service listing.
func (s *Store) CreateService(ctx context.Context, sl ServiceListing) (ServiceListing, error) {
	var out ServiceListing
	err := s.pool.QueryRow(ctx,
		`INSERT INTO services (id, seller_id, name, category, rate_cents, published, created_at)
		 VALUES ($1, $2, $3, $4, $5, true, now())
		 RETURNING id, seller_id, name, category, rate_cents, published, created_at`,
		uuid.New(), sl.SellerID, sl.Name, sl.Category, sl.RateCents,
	).Scan(&out.ID, &out.SellerID, &out.Name, &out.Category, &out.RateCents, &out.Published, &out.CreatedAt)
	if err != nil {
		return ServiceListing{}, fmt.Errorf("create service: %w", err)
	}
	return out, nil
}
