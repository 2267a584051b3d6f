package cesk

import "hash/fnv"

// Time is an opaque counter used only by Allocator implementations (§3);
// the machine itself never inspects its value beyond equality.
type Time int64

// Allocator supplies the two abstraction hooks of §4.1: Alloc decides where
// the next Storable is placed, Tick decides the next Time. Both must be
// pure, deterministic functions of the Configuration and Kont passed to
// them, so that the reachable set computed by Reachable is well-defined.
//
// Swapping the Allocator is the only thing that distinguishes a concrete run
// (ConcreteAllocator) from an abstract one (ConstantAllocator, KCFAAllocator,
// or a caller-supplied implementation) — Step and Reachable never branch on
// which Allocator is in use.
type Allocator interface {
	Alloc(cfg Configuration, k Kont) Address
	Tick(cfg Configuration, k Kont) Time
}

// ConcreteAllocator returns a globally fresh address derived from the
// configuration's current time, and increments time by one (§4.1's
// concrete instantiation). Because every call observes a distinct Time, no
// two calls ever return the same Address: the store's WeakUpdate therefore
// behaves as a strong update in practice, even though it is still
// implemented as a join.
type ConcreteAllocator struct{}

func (ConcreteAllocator) Alloc(cfg Configuration, _ Kont) Address {
	return Address(cfg.Time)
}

func (ConcreteAllocator) Tick(cfg Configuration, _ Kont) Time {
	return cfg.Time + 1
}

// ConstantAllocator collapses the entire address and time domain onto a
// single point each. This is the 0-CFA-style abstraction used to demonstrate
// finite reachability even for non-terminating concrete programs such as the
// omega combinator (§8): every allocation joins into the same address, so
// the store's per-address set is the only thing that can grow, and it is
// bounded by the (finite) set of distinct Storable values syntax can
// produce for a given program.
type ConstantAllocator struct{}

func (ConstantAllocator) Alloc(Configuration, Kont) Address { return 0 }

func (ConstantAllocator) Tick(Configuration, Kont) Time { return 0 }

// KCFAAllocator implements the k-CFA-style tuple-of-syntactic-positions
// abstraction §4.1 names explicitly: an address is derived from a bounded
// window of the last K continuation frames (read by walking the
// continuation chain through the store), of which only each frame's
// constructor name is hashed, into a domain of N buckets.
// N bounds the address (and time) domain, which is what makes Reachable
// terminate for any K: widening the window only changes which programs are
// distinguished, never whether the domain stays finite.
type KCFAAllocator struct {
	// K is how many continuation frames back from the current one are
	// folded into the context. K <= 0 is treated as 1: the current frame
	// is always hashed.
	K int
	// N is the number of address/time buckets context hashes into. N <= 0
	// is treated as 1.
	N int
}

func (a KCFAAllocator) buckets() int {
	if a.N <= 0 {
		return 1
	}
	return a.N
}

func (a KCFAAllocator) context(cfg Configuration, k Kont) uint64 {
	h := fnv.New64a()
	cur := k
	for i := 0; i < a.K || i == 0; i++ {
		_, _ = h.Write([]byte(kontTag(cur)))
		parent, ok := parentOf(cur)
		if !ok || i+1 >= a.K {
			break
		}
		next := resolveKont(cfg.Store, parent)
		if next == nil {
			break
		}
		cur = next
	}
	return h.Sum64()
}

func (a KCFAAllocator) Alloc(cfg Configuration, k Kont) Address {
	return Address(a.context(cfg, k) % uint64(a.buckets()))
}

func (a KCFAAllocator) Tick(cfg Configuration, k Kont) Time {
	return Time(a.context(cfg, k) % uint64(a.buckets()))
}

// kontTag returns a short discriminator string for k's dynamic type, used
// only to build the k-CFA hash context.
func kontTag(k Kont) string {
	switch k.(type) {
	case Empty:
		return "Empty"
	case KApp1:
		return "KApp1"
	case KApp2:
		return "KApp2"
	case KRef:
		return "KRef"
	case KDeref:
		return "KDeref"
	case KSeq:
		return "KSeq"
	case KPromisify:
		return "KPromisify"
	case KResolve1:
		return "KResolve1"
	case KResolve2:
		return "KResolve2"
	case KReject1:
		return "KReject1"
	case KReject2:
		return "KReject2"
	case KOnResolve1:
		return "KOnResolve1"
	case KOnResolve2:
		return "KOnResolve2"
	case KOnReject1:
		return "KOnReject1"
	case KOnReject2:
		return "KOnReject2"
	case KLink1:
		return "KLink1"
	case KLink2:
		return "KLink2"
	default:
		return "?"
	}
}

// parentOf returns the address of k's parent continuation, if it has one.
// Empty has no parent.
func parentOf(k Kont) (Address, bool) {
	switch v := k.(type) {
	case Empty:
		return 0, false
	case KApp1:
		return v.Parent, true
	case KApp2:
		return v.Parent, true
	case KRef:
		return v.Parent, true
	case KDeref:
		return v.Parent, true
	case KSeq:
		return v.Parent, true
	case KPromisify:
		return v.Parent, true
	case KResolve1:
		return v.Parent, true
	case KResolve2:
		return v.Parent, true
	case KReject1:
		return v.Parent, true
	case KReject2:
		return v.Parent, true
	case KOnResolve1:
		return v.Parent, true
	case KOnResolve2:
		return v.Parent, true
	case KOnReject1:
		return v.Parent, true
	case KOnReject2:
		return v.Parent, true
	case KLink1:
		return v.Parent, true
	case KLink2:
		return v.Parent, true
	default:
		return 0, false
	}
}

// resolveKont returns one StoredKont held at a, or nil if a holds none.
func resolveKont(s Store, a Address) Kont {
	for _, sv := range s.Lookup(a) {
		if sk, ok := sv.(StoredKont); ok {
			return sk.Kont
		}
	}
	return nil
}
