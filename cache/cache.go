// Package cache provides direct-mapped and fully associative cache models
// that hold one word per slot.
package cache

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/memsim/address"
	"github.com/sarchlab/memsim/mem"
)

// Cache is the contract a tiered memory needs from its first level.
type Cache[D any] interface {
	mem.Accessor[D]
	sim.Hookable

	// Update replaces the data of every slot currently holding addr and
	// reports whether any slot did. It never allocates.
	Update(addr uint32, data D) (bool, error)

	// Invalidate drops every slot currently holding addr and reports
	// whether any slot did.
	Invalidate(addr uint32) (bool, error)

	// Reset returns every slot to the invalid state.
	Reset()

	Geometry() address.Geometry
}

// Slot is one cache position.
//
// A slot starts invalid with a zero tag and zero data. Invalid slots never
// hit, so a cold cache misses on every address, including those whose tag
// field happens to be zero.
type Slot[D any] struct {
	Data  D
	Tag   uint32
	Word  uint32
	Valid bool
}

func (s *Slot[D]) holds(tag, word uint32) bool {
	return s.Valid && s.Tag == tag && s.Word == word
}

// Hook positions invoked by both cache organizations.
var (
	// HookPosHit fires when Get finds the address. Item is an AccessInfo.
	HookPosHit = &sim.HookPos{Name: "CacheHit"}
	// HookPosMiss fires when Get does not find the address. Item is an
	// AccessInfo with Slot set to -1 for associative caches.
	HookPosMiss = &sim.HookPos{Name: "CacheMiss"}
	// HookPosEvict fires when Set overwrites a valid slot that held a
	// different address. Item is an EvictInfo.
	HookPosEvict = &sim.HookPos{Name: "CacheEvict"}
)

// AccessInfo describes a lookup reported to hooks.
type AccessInfo struct {
	Addr uint32
	Tag  uint32
	Slot int
}

// EvictInfo describes a slot losing its previous contents.
type EvictInfo struct {
	Slot int

	// Tag and Word identify the entry that was dropped.
	Tag  uint32
	Word uint32

	// Addr is the address that took the slot.
	Addr uint32
}

func invoke(h *sim.HookableBase, domain sim.Hookable, pos *sim.HookPos, item interface{}) {
	h.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   item,
	})
}
