package cesk

import "errors"

// Host-level configuration errors returned by Driver construction and
// Reachable. These are ordinary Go errors for caller misuse caught before
// stepping begins; they are distinct from Abort outcomes (§7), which are
// data produced by evaluation itself and never escape as a Go error.
var (
	// ErrNilAllocator is returned when a Driver is built with a nil
	// Allocator.
	ErrNilAllocator = errors.New("cesk: nil allocator")

	// ErrNegativeBound is returned when WithBound is given a negative
	// step bound.
	ErrNegativeBound = errors.New("cesk: negative bound")
)
