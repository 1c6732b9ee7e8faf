// Package address decomposes addresses into tag, line, and word fields for a
// cache geometry.
package address

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/memsim/mem"
)

// Organization selects how addresses map onto cache slots.
type Organization int

const (
	// Direct maps each address to exactly one slot.
	Direct Organization = iota
	// Associative lets any address live in any slot.
	Associative
)

func (o Organization) String() string {
	switch o {
	case Direct:
		return "direct"
	case Associative:
		return "associative"
	default:
		return fmt.Sprintf("Organization(%d)", int(o))
	}
}

// ParseOrganization converts a name produced by String back into an
// Organization.
func ParseOrganization(name string) (Organization, error) {
	switch name {
	case "direct", "direct-mapped":
		return Direct, nil
	case "associative", "fully-associative":
		return Associative, nil
	default:
		return 0, fmt.Errorf("unknown cache organization %q", name)
	}
}

// Geometry holds cache geometry parameters.
type Geometry struct {
	// CacheSize in bits
	CacheSize uint32 `json:"cache_size"`
	// LineSize in words per line
	LineSize uint32 `json:"line_size"`
	// AddressSize in bits
	AddressSize uint32 `json:"address_size"`
}

// Positions returns the number of slots a cache of this geometry holds.
func (g Geometry) Positions() uint32 {
	return g.CacheSize / 8
}

// Lines returns the number of lines of a direct-mapped cache.
func (g Geometry) Lines() uint32 {
	return g.Positions() / g.LineSize
}

// AddressMask has the low AddressSize bits set.
func (g Geometry) AddressMask() uint32 {
	return ^uint32(0) >> (32 - g.AddressSize)
}

// WordMask selects the word offset within a line.
func (g Geometry) WordMask() uint32 {
	return g.LineSize - 1
}

// LineMask selects the line index of a direct-mapped cache. It sits
// directly above the word field.
func (g Geometry) LineMask() uint32 {
	return (g.Lines() - 1) << bits.Len32(g.WordMask())
}

// TagMask selects the tag of a direct-mapped cache: every address bit not
// used by the line or word field.
func (g Geometry) TagMask() uint32 {
	return g.AddressMask() ^ (g.LineMask() | g.WordMask())
}

// AssociativeTagMask selects the tag of a fully associative cache, which has
// no line field.
func (g Geometry) AssociativeTagMask() uint32 {
	return g.AddressMask() ^ g.WordMask()
}

// Word extracts the word field of addr.
func (g Geometry) Word(addr uint32) uint32 {
	return Field(addr, g.WordMask())
}

// Line extracts the line field of addr.
func (g Geometry) Line(addr uint32) uint32 {
	return Field(addr, g.LineMask())
}

// Tag extracts the direct-mapped tag field of addr.
func (g Geometry) Tag(addr uint32) uint32 {
	return Field(addr, g.TagMask())
}

// AssociativeTag extracts the fully associative tag field of addr.
func (g Geometry) AssociativeTag(addr uint32) uint32 {
	return Field(addr, g.AssociativeTagMask())
}

// Contains reports whether addr fits in the address space.
func (g Geometry) Contains(addr uint32) bool {
	return addr&^g.AddressMask() == 0
}

// Field isolates the bits of addr selected by mask and shifts them down to
// bit zero. An empty mask yields zero.
func Field(addr, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}

	return (addr & mask) >> bits.TrailingZeros32(mask)
}

// Validate checks that the geometry produces disjoint, contiguous masks for
// the given organization.
func (g Geometry) Validate(org Organization) error {
	if g.AddressSize == 0 || g.AddressSize > 32 {
		return fmt.Errorf("%w: address_size must be in [1, 32], got %d",
			mem.ErrInvalidGeometry, g.AddressSize)
	}

	if g.LineSize == 0 || g.LineSize&(g.LineSize-1) != 0 {
		return fmt.Errorf("%w: line_size must be a power of two, got %d",
			mem.ErrInvalidGeometry, g.LineSize)
	}

	if g.CacheSize == 0 || g.CacheSize%8 != 0 {
		return fmt.Errorf("%w: cache_size must be a non-zero multiple of 8, got %d",
			mem.ErrInvalidGeometry, g.CacheSize)
	}

	used := g.WordMask()

	switch org {
	case Direct:
		if g.Positions()%g.LineSize != 0 {
			return fmt.Errorf("%w: %d positions is not a multiple of line_size %d",
				mem.ErrInvalidGeometry, g.Positions(), g.LineSize)
		}

		lines := g.Lines()
		if lines&(lines-1) != 0 {
			return fmt.Errorf("%w: line count must be a power of two, got %d",
				mem.ErrInvalidGeometry, lines)
		}

		used |= g.LineMask()
	case Associative:
	default:
		return fmt.Errorf("%w: unknown organization %v",
			mem.ErrInvalidGeometry, org)
	}

	if used&^g.AddressMask() != 0 {
		return fmt.Errorf("%w: %s index needs %d bits, address_size is %d",
			mem.ErrInvalidGeometry, org, bits.Len32(used), g.AddressSize)
	}

	return nil
}
