package cesk

import (
	"fmt"
	"sync/atomic"
)

// Variable names a binder. Variables are opaque outside of equality and
// hashing; the concrete integer value carries no meaning of its own.
type Variable int64

// Address names a store cell. Like Variable, an Address is opaque outside of
// equality and hashing and is not stable across runs (§6).
type Address int64

var variableCounter atomic.Int64

// NewVariable returns a Variable distinct from every Variable previously
// returned by NewVariable in this process. Programs built from literal
// integers (as the seed scenarios in spec §8 do) need not use it.
func NewVariable() Variable {
	return Variable(variableCounter.Add(1))
}

func (v Variable) String() string { return fmt.Sprintf("v%d", int64(v)) }

func (a Address) String() string { return fmt.Sprintf("a%d", int64(a)) }

// Expr is the tagged sum of expression constructors. The marker method is
// unexported so the set of implementations is closed to this package;
// dispatch on Expr is always by type switch, never by virtual method.
type Expr interface {
	exprMarker()
}

type (
	// Var references a binder. Unbound at evaluation time yields
	// Abort("Unbound variable").
	Var struct {
		Name Variable
	}

	// Abs is a single-argument lambda abstraction.
	Abs struct {
		Param Variable
		Body  Expr
	}

	// App is function application, left-to-right: Fn is evaluated before Arg.
	App struct {
		Fn, Arg Expr
	}

	// Cst is a string literal, and a value.
	Cst struct {
		Value string
	}

	// Ptr makes a heap address first-class. Ptr is a value.
	Ptr struct {
		Addr Address
	}

	// Ref allocates a fresh cell holding the result of evaluating Expr.
	Ref struct {
		Expr Expr
	}

	// Deref reads the value held by the address Expr evaluates to.
	Deref struct {
		Expr Expr
	}

	// Seq evaluates First, discards its value, then evaluates Second.
	Seq struct {
		First, Second Expr
	}

	// Promisify marks the address Expr evaluates to as a pending promise,
	// if it is not a promise already.
	Promisify struct {
		Expr Expr
	}

	// Resolve fulfills the promise named by Promise with the value Value.
	Resolve struct {
		Promise, Value Expr
	}

	// Reject rejects the promise named by Promise with the value Value.
	Reject struct {
		Promise, Value Expr
	}

	// OnResolve registers Handler as a fulfill reaction of Promise and
	// returns the address of a new derived (child) promise.
	OnResolve struct {
		Promise, Handler Expr
	}

	// OnReject registers Handler as a reject reaction of Promise and
	// returns the address of a new derived (child) promise.
	OnReject struct {
		Promise, Handler Expr
	}

	// Link forwards Parent's eventual resolution or rejection to Child.
	Link struct {
		Parent, Child Expr
	}
)

func (Var) exprMarker()       {}
func (Abs) exprMarker()       {}
func (App) exprMarker()       {}
func (Cst) exprMarker()       {}
func (Ptr) exprMarker()       {}
func (Ref) exprMarker()       {}
func (Deref) exprMarker()     {}
func (Seq) exprMarker()       {}
func (Promisify) exprMarker() {}
func (Resolve) exprMarker()   {}
func (Reject) exprMarker()    {}
func (OnResolve) exprMarker() {}
func (OnReject) exprMarker()  {}
func (Link) exprMarker()      {}

// IsValue reports whether e matches Abs(_,_) | Cst(_) | Ptr(_), per §3.
func IsValue(e Expr) bool {
	switch e.(type) {
	case Abs, Cst, Ptr:
		return true
	default:
		return false
	}
}

// Environment maps Variable to Address. Environments are never mutated in
// place once shared by a Configuration; Bind always returns a new map.
type Environment map[Variable]Address

// Bind returns a new Environment equal to e with v additionally (or newly)
// bound to a. e is left unmodified.
func (e Environment) Bind(v Variable, a Address) Environment {
	out := make(Environment, len(e)+1)
	for k, val := range e {
		out[k] = val
	}
	out[v] = a
	return out
}

// Lookup returns the address bound to v, and whether it was bound.
func (e Environment) Lookup(v Variable) (Address, bool) {
	a, ok := e[v]
	return a, ok
}

// Kont is the tagged sum of evaluation contexts / continuations. Every
// two-operand form carries the other (not-yet-evaluated, or already
// evaluated) operand together with the environment it closes over, plus the
// address of the parent continuation it resumes into.
type Kont interface {
	kontMarker()
}

type (
	// Empty is the outermost continuation, installed at address 0 by inject.
	Empty struct{}

	// KApp1 awaits the function value of an App; Arg/Env is the argument
	// expression and the environment it is evaluated in once the function
	// position has a value.
	KApp1 struct {
		Arg    Expr
		Env    Environment
		Parent Address
	}

	// KApp2 awaits the argument value of an App; Fn is the (value)
	// expression occupying the function position, closed over Env.
	KApp2 struct {
		Fn     Expr
		Env    Environment
		Parent Address
	}

	// KRef awaits the value to store behind a fresh address.
	KRef struct {
		Parent Address
	}

	// KDeref awaits the address whose cell should be read.
	KDeref struct {
		Parent Address
	}

	// KSeq awaits (and discards) the value of Seq's first operand, then
	// resumes evaluation of Next under Env.
	KSeq struct {
		Next   Expr
		Env    Environment
		Parent Address
	}

	// KPromisify awaits the address to promisify.
	KPromisify struct {
		Parent Address
	}

	// KResolve1 awaits the promise address of a Resolve; Value/Env is the
	// resolution value expression and its environment.
	KResolve1 struct {
		Value  Expr
		Env    Environment
		Parent Address
	}

	// KResolve2 awaits the resolution value, having already evaluated the
	// promise address to Addr.
	KResolve2 struct {
		Addr   Address
		Parent Address
	}

	// KReject1 is Reject's analogue of KResolve1.
	KReject1 struct {
		Value  Expr
		Env    Environment
		Parent Address
	}

	// KReject2 is Reject's analogue of KResolve2.
	KReject2 struct {
		Addr   Address
		Parent Address
	}

	// KOnResolve1 awaits the promise address of an OnResolve; Handler/Env
	// is the handler expression and its environment.
	KOnResolve1 struct {
		Handler Expr
		Env     Environment
		Parent  Address
	}

	// KOnResolve2 awaits the handler value, having already evaluated the
	// promise address to Addr.
	KOnResolve2 struct {
		Addr   Address
		Parent Address
	}

	// KOnReject1 is KOnResolve1's analogue for OnReject.
	KOnReject1 struct {
		Handler Expr
		Env     Environment
		Parent  Address
	}

	// KOnReject2 is KOnResolve2's analogue for OnReject.
	KOnReject2 struct {
		Addr   Address
		Parent Address
	}

	// KLink1 awaits the parent promise address of a Link; Child/Env is the
	// child expression and its environment.
	KLink1 struct {
		Child  Expr
		Env    Environment
		Parent Address
	}

	// KLink2 awaits the child promise address, having already evaluated
	// the parent promise address to Addr.
	KLink2 struct {
		Addr   Address
		Parent Address
	}
)

func (Empty) kontMarker()       {}
func (KApp1) kontMarker()       {}
func (KApp2) kontMarker()       {}
func (KRef) kontMarker()        {}
func (KDeref) kontMarker()      {}
func (KSeq) kontMarker()        {}
func (KPromisify) kontMarker()  {}
func (KResolve1) kontMarker()   {}
func (KResolve2) kontMarker()   {}
func (KReject1) kontMarker()    {}
func (KReject2) kontMarker()    {}
func (KOnResolve1) kontMarker() {}
func (KOnResolve2) kontMarker() {}
func (KOnReject1) kontMarker()  {}
func (KOnReject2) kontMarker()  {}
func (KLink1) kontMarker()      {}
func (KLink2) kontMarker()      {}

// Storable is the tagged sum of things a Store address may hold.
type Storable interface {
	storableMarker()
}

type (
	// StoredKont holds a continuation frame.
	StoredKont struct {
		Kont Kont
	}

	// StoredValue holds a value expression together with the environment
	// it was closed over when stored.
	StoredValue struct {
		Expr Expr
		Env  Environment
	}
)

func (StoredKont) storableMarker()  {}
func (StoredValue) storableMarker() {}
