// Package store provides flat backing stores that sit behind a cache.
package store

import (
	"fmt"

	"github.com/sarchlab/memsim/mem"
)

var _ mem.Accessor[int] = (*RAM[int])(nil)

// RAM is a flat array of values, one per address.
type RAM[D any] struct {
	cells []D
}

// NewRAM creates a RAM holding size zero values.
func NewRAM[D any](size uint32) *RAM[D] {
	return &RAM[D]{cells: make([]D, size)}
}

// Size returns the number of addressable cells.
func (r *RAM[D]) Size() uint32 {
	return uint32(len(r.cells))
}

// Get returns a copy of the value at addr.
func (r *RAM[D]) Get(addr uint32) (D, bool, error) {
	var zero D

	if err := r.check(addr); err != nil {
		return zero, false, err
	}

	return r.cells[addr], true, nil
}

// Set stores data at addr.
func (r *RAM[D]) Set(addr uint32, data D) error {
	if err := r.check(addr); err != nil {
		return err
	}

	r.cells[addr] = data

	return nil
}

func (r *RAM[D]) check(addr uint32) error {
	if uint64(addr) >= uint64(len(r.cells)) {
		return fmt.Errorf("%w: address 0x%X, store size %d",
			mem.ErrOutOfRange, addr, len(r.cells))
	}

	return nil
}
