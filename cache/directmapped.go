package cache

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/memsim/address"
	"github.com/sarchlab/memsim/mem"
)

var _ Cache[int] = (*DirectMapped[int])(nil)

// DirectMapped is a cache where every address maps to exactly one slot.
//
// The slot of an address is its line index scaled by the line size plus its
// word offset, so each word of a line has a slot of its own.
type DirectMapped[D any] struct {
	*sim.HookableBase

	geometry address.Geometry
	slots    []Slot[D]
}

// NewDirectMapped creates a direct-mapped cache with every slot invalid.
func NewDirectMapped[D any](g address.Geometry) (*DirectMapped[D], error) {
	if err := g.Validate(address.Direct); err != nil {
		return nil, err
	}

	return &DirectMapped[D]{
		HookableBase: sim.NewHookableBase(),
		geometry:     g,
		slots:        make([]Slot[D], g.Positions()),
	}, nil
}

// Geometry returns the cache geometry.
func (c *DirectMapped[D]) Geometry() address.Geometry {
	return c.geometry
}

// Slots returns a copy of the slot array.
func (c *DirectMapped[D]) Slots() []Slot[D] {
	out := make([]Slot[D], len(c.slots))
	copy(out, c.slots)

	return out
}

// Get returns the cached value for addr if the slot it maps to holds addr's
// tag.
func (c *DirectMapped[D]) Get(addr uint32) (D, bool, error) {
	var zero D

	index, err := c.index(addr)
	if err != nil {
		return zero, false, err
	}

	tag := c.geometry.Tag(addr)
	info := AccessInfo{Addr: addr, Tag: tag, Slot: index}

	slot := &c.slots[index]
	if !slot.holds(tag, c.geometry.Word(addr)) {
		invoke(c.HookableBase, c, HookPosMiss, info)
		return zero, false, nil
	}

	invoke(c.HookableBase, c, HookPosHit, info)

	return slot.Data, true, nil
}

// Set stores data in the slot addr maps to, replacing whatever was there.
func (c *DirectMapped[D]) Set(addr uint32, data D) error {
	index, err := c.index(addr)
	if err != nil {
		return err
	}

	tag := c.geometry.Tag(addr)
	word := c.geometry.Word(addr)

	slot := &c.slots[index]
	if slot.Valid && slot.Tag != tag {
		invoke(c.HookableBase, c, HookPosEvict, EvictInfo{
			Slot: index,
			Tag:  slot.Tag,
			Word: slot.Word,
			Addr: addr,
		})
	}

	*slot = Slot[D]{Data: data, Tag: tag, Word: word, Valid: true}

	return nil
}

// Update replaces the cached value for addr if it is resident.
func (c *DirectMapped[D]) Update(addr uint32, data D) (bool, error) {
	slot, err := c.resident(addr)
	if err != nil || slot == nil {
		return false, err
	}

	slot.Data = data

	return true, nil
}

// Invalidate drops addr from the cache if it is resident.
func (c *DirectMapped[D]) Invalidate(addr uint32) (bool, error) {
	slot, err := c.resident(addr)
	if err != nil || slot == nil {
		return false, err
	}

	*slot = Slot[D]{}

	return true, nil
}

// Reset invalidates every slot.
func (c *DirectMapped[D]) Reset() {
	clear(c.slots)
}

func (c *DirectMapped[D]) resident(addr uint32) (*Slot[D], error) {
	index, err := c.index(addr)
	if err != nil {
		return nil, err
	}

	slot := &c.slots[index]
	if !slot.holds(c.geometry.Tag(addr), c.geometry.Word(addr)) {
		return nil, nil
	}

	return slot, nil
}

func (c *DirectMapped[D]) index(addr uint32) (int, error) {
	if !c.geometry.Contains(addr) {
		return 0, fmt.Errorf("%w: address 0x%X exceeds %d-bit address space",
			mem.ErrOutOfRange, addr, c.geometry.AddressSize)
	}

	line := c.geometry.Line(addr) % c.geometry.Lines()
	index := line*c.geometry.LineSize + c.geometry.Word(addr)

	return int(index), nil
}
