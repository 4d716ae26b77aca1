// Package cache implements the namespaced TTL cache shared by the
// marketplace read services: an in-process store keyed by structured
// (namespace, identifier, sub-key) tuples, with per-entry TTLs, lazy
// expiry on read, indexed invalidation, and a periodic janitor sweep.
//
// There is no package-level singleton. Each binary constructs one Cache
// in its composition root and hands it to every service that needs it.
package cache

import (
	"container/heap"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Well-known namespaces. Conventions shared by the services; the cache
// itself accepts any string.
const (
	NSUser         = "user"
	NSProduct      = "product"
	NSOrder        = "order"
	NSService      = "service"
	NSNotification = "notification"
	NSTeam         = "team"
	NSProfile      = "profile"
	NSStats        = "stats"
	NSAPI          = "api"
)

// TTL classes. Conventions, not enforced; callers may pass any duration.
const (
	TTLShort    = 1 * time.Minute
	TTLMedium   = 5 * time.Minute // default when Put is called with ttl == 0
	TTLLong     = 15 * time.Minute
	TTLExtended = 60 * time.Minute
)

// sweepInterval is how often the janitor wakes up. Fixed system
// parameter, deliberately not configurable per instance.
const sweepInterval = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
	seq      uint64 // matches the newest heap item for this key
}

func (e *entry) expiresAt() time.Time { return e.storedAt.Add(e.ttl) }

// Cache is the namespaced TTL store. All methods are safe for
// concurrent use and none of them can fail: a miss is a boolean,
// never an error.
type Cache struct {
	mu      sync.RWMutex
	buckets map[string]map[string]map[string]*entry // namespace -> identifier -> sub-key
	size    int
	heap    expiryHeap
	seq     uint64

	now     func() time.Time
	log     zerolog.Logger
	metrics Metrics
	sf      singleflight.Group

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithLogger attaches a logger for sweep and invalidation debug lines.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log.With().Str("component", "cache").Logger() }
}

// WithMetrics injects a Metrics sink. Defaults to NopMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// withNow overrides the clock. Tests only.
func withNow(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New constructs a cache and starts its janitor goroutine. The caller
// owns the instance and must Close it to stop the janitor.
func New(opts ...Option) *Cache {
	c := &Cache{
		buckets: make(map[string]map[string]map[string]*entry),
		now:     time.Now,
		log:     zerolog.Nop(),
		metrics: NopMetrics{},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	go c.janitor()
	return c
}

// Close stops the janitor and waits for it to exit. The cache remains
// usable afterwards; only the background sweep is gone.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stop) })
	<-c.done
}

// Put stores value under key, unconditionally replacing any previous
// entry (overwrite, not merge) and restarting its lifetime at now.
// A zero ttl selects TTLMedium. Negative TTLs are accepted: the entry
// is born expired and every read of it is a miss.
func (c *Cache) Put(key Key, value any, ttl time.Duration) {
	if ttl == 0 {
		ttl = TTLMedium
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ids, ok := c.buckets[key.Namespace]
	if !ok {
		ids = make(map[string]map[string]*entry)
		c.buckets[key.Namespace] = ids
	}
	subs, ok := ids[key.ID]
	if !ok {
		subs = make(map[string]*entry)
		ids[key.ID] = subs
	}
	if _, exists := subs[key.Sub]; !exists {
		c.size++
	}

	c.seq++
	e := &entry{value: value, storedAt: c.now(), ttl: ttl, seq: c.seq}
	subs[key.Sub] = e
	heap.Push(&c.heap, heapItem{key: key, expiresAt: e.expiresAt(), seq: e.seq})
}

// Get returns the live value for key, or (nil, false) on a miss. An
// entry is live while now < storedAt+ttl; reading an expired entry
// evicts it before reporting the miss, so stats stop counting it
// without waiting for the janitor.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.RLock()
	e, ok := c.lookup(key)
	if ok && c.now().Before(e.expiresAt()) {
		v := e.value
		c.mu.RUnlock()
		c.metrics.Hit()
		return v, true
	}
	c.mu.RUnlock()

	if !ok {
		c.metrics.Miss()
		return nil, false
	}

	// Expired on read: evict lazily. Re-check under the write lock in
	// case another goroutine overwrote the key in between.
	c.mu.Lock()
	if cur, still := c.lookup(key); still && cur == e {
		c.removeLocked(key)
	}
	c.mu.Unlock()
	c.metrics.Expire()
	c.metrics.Miss()
	return nil, false
}

// Delete removes the exact key. Removing an absent key is a no-op.
func (c *Cache) Delete(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = make(map[string]map[string]map[string]*entry)
	c.size = 0
	c.heap = c.heap[:0]
}

// InvalidateNamespace removes every entry in ns, whatever its
// identifier or sub-key, and returns the number removed. Other
// namespaces are untouched: invalidation walks the namespace bucket,
// so scope cannot leak the way a substring match would.
func (c *Cache) InvalidateNamespace(ns string) int {
	c.mu.Lock()
	n := 0
	if ids, ok := c.buckets[ns]; ok {
		for _, subs := range ids {
			n += len(subs)
		}
		delete(c.buckets, ns)
		c.size -= n
	}
	c.mu.Unlock()

	if n > 0 {
		c.metrics.Invalidate(n)
		c.log.Debug().Str("namespace", ns).Int("removed", n).Msg("namespace invalidated")
	}
	return n
}

// InvalidateID removes every entry for (ns, id) across all of its
// sub-keys and returns the number removed. Entries under other
// identifiers in the same namespace survive.
func (c *Cache) InvalidateID(ns, id string) int {
	c.mu.Lock()
	n := 0
	if ids, ok := c.buckets[ns]; ok {
		if subs, ok := ids[id]; ok {
			n = len(subs)
			delete(ids, id)
			c.size -= n
			if len(ids) == 0 {
				delete(c.buckets, ns)
			}
		}
	}
	c.mu.Unlock()

	if n > 0 {
		c.metrics.Invalidate(n)
		c.log.Debug().Str("namespace", ns).Str("id", id).Int("removed", n).Msg("identifier invalidated")
	}
	return n
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Stats is a diagnostic snapshot of the store.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Stats reports the current size and the composite form of every
// stored key, sorted. Diagnostics only; not meant for hot paths.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	s := Stats{Size: c.size, Keys: make([]string, 0, c.size)}
	for ns, ids := range c.buckets {
		for id, subs := range ids {
			for sub := range subs {
				s.Keys = append(s.Keys, Key{Namespace: ns, ID: id, Sub: sub}.String())
			}
		}
	}
	c.mu.RUnlock()
	sort.Strings(s.Keys)
	return s
}

// lookup finds the entry for key. Caller holds the lock.
func (c *Cache) lookup(key Key) (*entry, bool) {
	ids, ok := c.buckets[key.Namespace]
	if !ok {
		return nil, false
	}
	subs, ok := ids[key.ID]
	if !ok {
		return nil, false
	}
	e, ok := subs[key.Sub]
	return e, ok
}

// removeLocked deletes key and prunes empty buckets. Caller holds the
// write lock.
func (c *Cache) removeLocked(key Key) {
	ids, ok := c.buckets[key.Namespace]
	if !ok {
		return
	}
	subs, ok := ids[key.ID]
	if !ok {
		return
	}
	if _, ok := subs[key.Sub]; !ok {
		return
	}
	delete(subs, key.Sub)
	c.size--
	if len(subs) == 0 {
		delete(ids, key.ID)
	}
	if len(ids) == 0 {
		delete(c.buckets, key.Namespace)
	}
}
