package cache

import (
	"container/heap"
	"time"
)

type heapItem struct {
	key       Key
	expiresAt time.Time
	seq       uint64
}

// expiryHeap is a min-heap ordered by expiry deadline. Overwriting an
// entry leaves the old deadline behind as a stale item; the sweep
// recognizes stale items by sequence number and skips them instead of
// tracking heap positions (lazy deletion).
type expiryHeap []heapItem

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *expiryHeap) Push(x any) { *h = append(*h, x.(heapItem)) }

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

func (c *Cache) janitor() {
	defer close(c.done)
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

// sweep pops expired heap items and evicts the entries they still
// refer to. It never looks past the first live deadline, so a tick
// costs O(log n) per eviction rather than a full scan of the store.
func (c *Cache) sweep() {
	c.mu.Lock()
	now := c.now()
	evicted := 0
	for len(c.heap) > 0 && !c.heap[0].expiresAt.After(now) {
		it := heap.Pop(&c.heap).(heapItem)
		e, ok := c.lookup(it.key)
		if !ok || e.seq != it.seq {
			continue // overwritten or already gone
		}
		c.removeLocked(it.key)
		evicted++
	}
	remaining := c.size
	c.mu.Unlock()

	if evicted > 0 {
		c.metrics.Sweep(evicted)
		c.log.Debug().Int("evicted", evicted).Int("remaining", remaining).Msg("janitor sweep")
	}
}
