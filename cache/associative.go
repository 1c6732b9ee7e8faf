package cache

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/memsim/address"
	"github.com/sarchlab/memsim/mem"
)

var _ Cache[int] = (*Associative[int])(nil)

// RandSource picks replacement victims. *rand.Rand satisfies it.
type RandSource interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Associative is a fully associative cache with uniform random replacement.
//
// Lookup scans every slot and returns the first one, in slot order, that
// holds the address. Set never searches before inserting, so the same
// address may occupy several slots at once.
type Associative[D any] struct {
	*sim.HookableBase

	geometry address.Geometry
	slots    []Slot[D]
	rng      RandSource
}

// NewAssociative creates a fully associative cache with every slot invalid.
func NewAssociative[D any](
	g address.Geometry,
	rng RandSource,
) (*Associative[D], error) {
	if err := g.Validate(address.Associative); err != nil {
		return nil, err
	}

	if rng == nil {
		return nil, errors.New("associative cache needs a random source")
	}

	return &Associative[D]{
		HookableBase: sim.NewHookableBase(),
		geometry:     g,
		slots:        make([]Slot[D], g.Positions()),
		rng:          rng,
	}, nil
}

// Geometry returns the cache geometry.
func (c *Associative[D]) Geometry() address.Geometry {
	return c.geometry
}

// Slots returns a copy of the slot array.
func (c *Associative[D]) Slots() []Slot[D] {
	out := make([]Slot[D], len(c.slots))
	copy(out, c.slots)

	return out
}

// Get returns the value of the first slot holding addr.
func (c *Associative[D]) Get(addr uint32) (D, bool, error) {
	var zero D

	if err := c.check(addr); err != nil {
		return zero, false, err
	}

	tag := c.geometry.AssociativeTag(addr)
	word := c.geometry.Word(addr)

	for i := range c.slots {
		if c.slots[i].holds(tag, word) {
			invoke(c.HookableBase, c, HookPosHit,
				AccessInfo{Addr: addr, Tag: tag, Slot: i})
			return c.slots[i].Data, true, nil
		}
	}

	invoke(c.HookableBase, c, HookPosMiss,
		AccessInfo{Addr: addr, Tag: tag, Slot: -1})

	return zero, false, nil
}

// Set stores data in a uniformly chosen slot, replacing whatever was there.
func (c *Associative[D]) Set(addr uint32, data D) error {
	if err := c.check(addr); err != nil {
		return err
	}

	tag := c.geometry.AssociativeTag(addr)
	word := c.geometry.Word(addr)

	victim := c.rng.Intn(len(c.slots))
	if victim < 0 || victim >= len(c.slots) {
		return fmt.Errorf("%w: random source chose slot %d of %d",
			mem.ErrOutOfRange, victim, len(c.slots))
	}

	slot := &c.slots[victim]
	if slot.Valid && !slot.holds(tag, word) {
		invoke(c.HookableBase, c, HookPosEvict, EvictInfo{
			Slot: victim,
			Tag:  slot.Tag,
			Word: slot.Word,
			Addr: addr,
		})
	}

	*slot = Slot[D]{Data: data, Tag: tag, Word: word, Valid: true}

	return nil
}

// Update replaces the value of every slot holding addr.
func (c *Associative[D]) Update(addr uint32, data D) (bool, error) {
	return c.forResident(addr, func(s *Slot[D]) { s.Data = data })
}

// Invalidate drops every slot holding addr.
func (c *Associative[D]) Invalidate(addr uint32) (bool, error) {
	return c.forResident(addr, func(s *Slot[D]) { *s = Slot[D]{} })
}

// Reset invalidates every slot.
func (c *Associative[D]) Reset() {
	clear(c.slots)
}

func (c *Associative[D]) forResident(
	addr uint32,
	fn func(s *Slot[D]),
) (bool, error) {
	if err := c.check(addr); err != nil {
		return false, err
	}

	tag := c.geometry.AssociativeTag(addr)
	word := c.geometry.Word(addr)

	found := false
	for i := range c.slots {
		if c.slots[i].holds(tag, word) {
			fn(&c.slots[i])
			found = true
		}
	}

	return found, nil
}

func (c *Associative[D]) check(addr uint32) error {
	if !c.geometry.Contains(addr) {
		return fmt.Errorf("%w: address 0x%X exceeds %d-bit address space",
			mem.ErrOutOfRange, addr, c.geometry.AddressSize)
	}

	return nil
}
