// Package tiered composes a cache and a backing store into a two-level
// memory with read-allocate access.
package tiered

import (
	"fmt"

	"github.com/sarchlab/memsim/cache"
	"github.com/sarchlab/memsim/mem"
)

var _ mem.Accessor[int] = (*Memory[int])(nil)

// WritePolicy decides what a write does to the cache after the backing
// store has accepted it.
type WritePolicy int

const (
	// WriteThrough leaves the cache untouched. A resident address keeps
	// returning its old value until the slot is evicted.
	WriteThrough WritePolicy = iota
	// WriteInvalidate drops the written address from the cache.
	WriteInvalidate
	// WriteUpdate refreshes the written address if it is resident. It does
	// not allocate on write.
	WriteUpdate
)

func (p WritePolicy) String() string {
	switch p {
	case WriteThrough:
		return "write-through"
	case WriteInvalidate:
		return "write-invalidate"
	case WriteUpdate:
		return "write-update"
	default:
		return fmt.Sprintf("WritePolicy(%d)", int(p))
	}
}

// ParseWritePolicy converts a name produced by String back into a
// WritePolicy.
func ParseWritePolicy(name string) (WritePolicy, error) {
	switch name {
	case "", "write-through":
		return WriteThrough, nil
	case "write-invalidate":
		return WriteInvalidate, nil
	case "write-update":
		return WriteUpdate, nil
	default:
		return 0, fmt.Errorf("unknown write policy %q", name)
	}
}

// Statistics holds tiered memory access statistics.
type Statistics struct {
	Reads         uint64
	Writes        uint64
	Hits          uint64
	Misses        uint64
	Allocations   uint64
	Invalidations uint64
	Updates       uint64
}

// HitRate returns Hits/Reads, or zero before the first read.
func (s Statistics) HitRate() float64 {
	if s.Reads == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Reads)
}

// Memory places a cache in front of a backing store. It owns both.
type Memory[D any] struct {
	cache  cache.Cache[D]
	store  mem.Accessor[D]
	policy WritePolicy
	stats  Statistics
}

// Option configures a Memory.
type Option[D any] func(m *Memory[D])

// WithWritePolicy selects the write policy. The default is WriteThrough.
func WithWritePolicy[D any](p WritePolicy) Option[D] {
	return func(m *Memory[D]) {
		m.policy = p
	}
}

// New creates a tiered memory.
func New[D any](
	c cache.Cache[D],
	store mem.Accessor[D],
	opts ...Option[D],
) *Memory[D] {
	m := &Memory[D]{
		cache: c,
		store: store,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Cache returns the first level.
func (m *Memory[D]) Cache() cache.Cache[D] {
	return m.cache
}

// WritePolicy returns the configured write policy.
func (m *Memory[D]) WritePolicy() WritePolicy {
	return m.policy
}

// Stats returns access statistics.
func (m *Memory[D]) Stats() Statistics {
	return m.stats
}

// ResetStats clears access statistics.
func (m *Memory[D]) ResetStats() {
	m.stats = Statistics{}
}

// Get reads addr from the cache, falling back to the backing store on a
// miss. A value fetched from the store is allocated into the cache.
func (m *Memory[D]) Get(addr uint32) (D, bool, error) {
	var zero D

	m.stats.Reads++

	data, ok, err := m.cache.Get(addr)
	if err != nil {
		return zero, false, err
	}

	if ok {
		m.stats.Hits++
		return data, true, nil
	}

	m.stats.Misses++

	data, ok, err = m.store.Get(addr)
	if err != nil || !ok {
		return zero, false, err
	}

	if err := m.cache.Set(addr, data); err != nil {
		return zero, false, err
	}

	m.stats.Allocations++

	return data, true, nil
}

// Set writes data to the backing store, then applies the write policy to
// the cache. Addresses the cache cannot hold are rejected before the store
// is touched. A store error is returned as is and leaves the cache alone.
func (m *Memory[D]) Set(addr uint32, data D) error {
	m.stats.Writes++

	if g := m.cache.Geometry(); !g.Contains(addr) {
		return fmt.Errorf("%w: address 0x%X exceeds %d-bit address space",
			mem.ErrOutOfRange, addr, g.AddressSize)
	}

	if err := m.store.Set(addr, data); err != nil {
		return err
	}

	switch m.policy {
	case WriteInvalidate:
		dropped, err := m.cache.Invalidate(addr)
		if err != nil {
			return err
		}

		if dropped {
			m.stats.Invalidations++
		}
	case WriteUpdate:
		updated, err := m.cache.Update(addr, data)
		if err != nil {
			return err
		}

		if updated {
			m.stats.Updates++
		}
	}

	return nil
}

// Flush invalidates the whole cache. The store already holds every write.
func (m *Memory[D]) Flush() {
	m.cache.Reset()
}
