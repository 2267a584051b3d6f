package cesk

import "reflect"

// Store is an immutable Address -> set-of-Storable mapping. Writes join
// (§4.2): WeakUpdate never discards what was previously held at an address,
// it only ever adds to it. This is what lets the same Store type back both
// the concrete machine (where alloc is injective, so each address ever
// receives exactly one Storable and the join is vacuous) and the abstract
// machine (where alloc collapses many dynamic addresses onto one, and the
// join is exactly what makes the resulting over-approximation sound).
//
// A Store value is never mutated after construction; WeakUpdate returns a
// new Store that shares the unaffected address buckets with its receiver,
// following the copy-on-write discipline the package's Configuration type
// relies on to let old configurations survive untouched in a driver's
// visited set.
type Store struct {
	cells map[Address][]Storable
}

// NewStore returns the empty store.
func NewStore() Store {
	return Store{}
}

// Lookup returns the set of Storable values held at a, or nil if a has never
// been written.
func (s Store) Lookup(a Address) []Storable {
	return s.cells[a]
}

// WeakUpdate returns a Store equal to s except that v has been joined into
// the set held at a. If v is already present (by deep equality) the
// returned Store is observationally identical to s.
func (s Store) WeakUpdate(a Address, v Storable) Store {
	existing := s.cells[a]
	for _, have := range existing {
		if reflect.DeepEqual(have, v) {
			return s
		}
	}

	next := make(map[Address][]Storable, len(s.cells)+1)
	for k, vs := range s.cells {
		next[k] = vs
	}

	grown := make([]Storable, len(existing), len(existing)+1)
	copy(grown, existing)
	next[a] = append(grown, v)

	return Store{cells: next}
}

// Subsumes reports whether every Storable held at every address of other is
// also held at the same address of s — i.e. whether s is a superset of
// other, address-wise. Used by the store-monotonicity property (§8).
func (s Store) Subsumes(other Store) bool {
	for a, vs := range other.cells {
		have := s.cells[a]
		for _, v := range vs {
			found := false
			for _, h := range have {
				if reflect.DeepEqual(h, v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// Addresses returns every address the store has ever been written at, in no
// particular order. Intended for diagnostics and structural-key encoding,
// not for use inside Step.
func (s Store) Addresses() []Address {
	out := make([]Address, 0, len(s.cells))
	for a := range s.cells {
		out = append(out, a)
	}
	return out
}
