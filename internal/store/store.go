// Package store is the postgres persistence layer: hand-written pgx
// queries behind a single Store type. It is the "live fetch" side of
// every cache miss; the services above it decide what gets cached and
// when it gets invalidated.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist. Handlers map it to
// 404; services propagate it without caching anything.
var ErrNotFound = errors.New("store: not found")

// Store runs queries against a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps a pool. The pool's lifetime belongs to the caller.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
