// Package mem defines the access contract shared by every memory component
// in memsim: backing stores, caches, and tiered memories.
package mem

import "errors"

var (
	// ErrOutOfRange is returned when an address falls outside the space a
	// component can serve.
	ErrOutOfRange = errors.New("address out of range")

	// ErrInvalidGeometry is returned when a cache geometry cannot produce
	// well-formed address masks.
	ErrInvalidGeometry = errors.New("invalid cache geometry")
)

// Accessor is anything that can be read and written by address.
//
// Get reports ok == false when the component holds no value for the
// address. That is a miss for a cache and never happens for an in-range
// backing store. A non-nil error always means the access itself was
// invalid.
type Accessor[D any] interface {
	Get(addr uint32) (data D, ok bool, err error)
	Set(addr uint32, data D) error
}
