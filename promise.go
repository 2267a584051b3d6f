package cesk

// PromiseStatus is the lifecycle state of a promise address (§3's per-address
// state machine): absent/not-a-promise, Pending, or one of the two terminal
// states Fulfilled/Rejected.
type PromiseStatus int

const (
	// NotPromise is the zero value: the address has never been promisified.
	NotPromise PromiseStatus = iota
	Pending
	Fulfilled
	Rejected
)

func (s PromiseStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "not-promise"
	}
}

// PromiseValue is the resolved-or-not value of a promise address: Status
// NotPromise/Pending carry no payload, Fulfilled/Rejected carry the value
// and its closing environment (§9: "environments close values" — a handler
// run later must see the value in its original scope, not the scope of
// whatever drained the reaction queue).
type PromiseValue struct {
	Status PromiseStatus
	Value  Expr
	Env    Environment
}

// PromiseState maps Address to PromiseValue. A missing key is equivalent to
// NotPromise per the zero value of PromiseValue.
type PromiseState map[Address]PromiseValue

// Get returns the PromiseValue at a, or the zero value (NotPromise) if a has
// never been promisified.
func (p PromiseState) Get(a Address) PromiseValue {
	return p[a]
}

// Set returns a PromiseState equal to p except a now maps to v.
func (p PromiseState) Set(a Address, v PromiseValue) PromiseState {
	out := make(PromiseState, len(p)+1)
	for k, val := range p {
		out[k] = val
	}
	out[a] = v
	return out
}

// Reaction is one entry of a FulfillReactions or RejectReactions table: a
// handler expression, the environment it closes over, and the address of
// the child promise OnResolve/OnReject allocated for it.
type Reaction struct {
	Handler Expr
	Env     Environment
	Child   Address
}

// ReactionTable maps a promise Address to its ordered reactions. Order is
// significant (§9): ECMAScript-style promise reaction ordering is
// observable, so this is a slice, never a set.
type ReactionTable map[Address][]Reaction

// Append returns a ReactionTable equal to t except r has been appended to
// a's reaction list.
func (t ReactionTable) Append(a Address, r Reaction) ReactionTable {
	out := make(ReactionTable, len(t)+1)
	for k, vs := range t {
		out[k] = vs
	}
	out[a] = appendCopy(out[a], r)
	return out
}

// Clear returns a ReactionTable equal to t except a's reaction list has been
// dropped, per the invariant that FulfillReactions(a)/RejectReactions(a) are
// empty once a promise leaves Pending (§3 invariant 4).
func (t ReactionTable) Clear(a Address) ReactionTable {
	if _, ok := t[a]; !ok {
		return t
	}
	out := make(ReactionTable, len(t))
	for k, vs := range t {
		if k == a {
			continue
		}
		out[k] = vs
	}
	return out
}

// PromiseLinks maps a parent promise Address to the ordered sequence of
// child promise addresses its resolution/rejection must propagate to.
type PromiseLinks map[Address][]Address

// Append returns a PromiseLinks equal to l except child has been appended to
// parent's link list.
func (l PromiseLinks) Append(parent, child Address) PromiseLinks {
	out := make(PromiseLinks, len(l)+1)
	for k, vs := range l {
		out[k] = vs
	}
	out[parent] = appendCopy(out[parent], child)
	return out
}

// Clear returns a PromiseLinks equal to l except parent's link list has been
// dropped.
func (l PromiseLinks) Clear(parent Address) PromiseLinks {
	if _, ok := l[parent]; !ok {
		return l
	}
	out := make(PromiseLinks, len(l))
	for k, vs := range l {
		if k == parent {
			continue
		}
		out[k] = vs
	}
	return out
}

// LinkEntry is one pending link propagation: the settled value of a parent
// promise, and the child address it must be forwarded to.
type LinkEntry struct {
	Value  PromiseValue
	Target Address
}

// LinkQueue is the ordered FIFO of pending link propagations (§3).
type LinkQueue []LinkEntry

// Push returns a LinkQueue equal to q with e appended.
func (q LinkQueue) Push(e LinkEntry) LinkQueue {
	return appendCopy(q, e)
}

// Pop returns the head of q, the remaining queue, and true; or the zero
// LinkEntry, q, and false if q is empty.
func (q LinkQueue) Pop() (LinkEntry, LinkQueue, bool) {
	if len(q) == 0 {
		return LinkEntry{}, q, false
	}
	return q[0], q[1:], true
}

// ReactionEntry is one pending reaction dispatch: the settled value that
// triggered it, the handler expression and its closing environment, and the
// child promise address the handler's result must resolve or reject.
type ReactionEntry struct {
	Value   PromiseValue
	Handler Expr
	Env     Environment
	Child   Address
}

// ReactionQueue is the ordered FIFO of pending reaction dispatches (§3).
type ReactionQueue []ReactionEntry

// Push returns a ReactionQueue equal to q with e appended.
func (q ReactionQueue) Push(e ReactionEntry) ReactionQueue {
	return appendCopy(q, e)
}

// Pop returns the head of q, the remaining queue, and true; or the zero
// ReactionEntry, q, and false if q is empty.
func (q ReactionQueue) Pop() (ReactionEntry, ReactionQueue, bool) {
	if len(q) == 0 {
		return ReactionEntry{}, q, false
	}
	return q[0], q[1:], true
}

// appendCopy appends v to a fresh copy of s, never reusing s's backing
// array. Required because the abstract step relation fans a single
// Configuration out into many successors that must not alias each other's
// queue or table storage.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}
