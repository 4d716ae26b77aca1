package cache

import "sync/atomic"

// Metrics receives cache activity counts. Implementations must be safe
// for concurrent use.
type Metrics interface {
	Hit()
	Miss()
	Expire()
	Invalidate(removed int)
	Sweep(evicted int)
}

// NopMetrics discards everything. The default when nothing is injected.
type NopMetrics struct{}

func (NopMetrics) Hit()           {}
func (NopMetrics) Miss()          {}
func (NopMetrics) Expire()        {}
func (NopMetrics) Invalidate(int) {}
func (NopMetrics) Sweep(int)      {}

var _ Metrics = NopMetrics{}

// Counters is an atomic Metrics implementation backing the api's
// debug endpoint.
type Counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	expired     atomic.Int64
	invalidated atomic.Int64
	swept       atomic.Int64
}

var _ Metrics = (*Counters)(nil)

func (m *Counters) Hit()             { m.hits.Add(1) }
func (m *Counters) Miss()            { m.misses.Add(1) }
func (m *Counters) Expire()          { m.expired.Add(1) }
func (m *Counters) Invalidate(n int) { m.invalidated.Add(int64(n)) }
func (m *Counters) Sweep(n int)      { m.swept.Add(int64(n)) }

// CounterSnapshot is a point-in-time copy of the counters.
type CounterSnapshot struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Expired     int64 `json:"expired"`
	Invalidated int64 `json:"invalidated"`
	Swept       int64 `json:"swept"`
}

// Snapshot returns the current counter values.
func (m *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Expired:     m.expired.Load(),
		Invalidated: m.invalidated.Load(),
		Swept:       m.swept.Load(),
	}
}
