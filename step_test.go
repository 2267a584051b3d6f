package cesk

import "testing"

func TestStepUnboundVariableAborts(t *testing.T) {
	cfg := Inject(Var{Name: Variable(0)})
	out := Step(cfg, Empty{}, ConcreteAllocator{})

	if len(out) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(out))
	}
	abort, ok := out[0].(Abort)
	if !ok || abort.Reason != ReasonUnboundVariable {
		t.Fatalf("expected Abort(%q), got %#v", ReasonUnboundVariable, out[0])
	}
}

func TestStepKApp2NonAbsAborts(t *testing.T) {
	cfg := Inject(Cst{Value: "x"})
	k := KApp2{Fn: Cst{Value: "not a function"}, Env: Environment{}, Parent: 0}

	out := Step(cfg, k, ConcreteAllocator{})
	if len(out) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(out))
	}
	if _, ok := out[0].(Abort); !ok {
		t.Fatalf("expected Abort, got %#v", out[0])
	}
}

func TestStepStuckYieldsDone(t *testing.T) {
	cfg := Inject(Cst{Value: "x"})
	out := Step(cfg, Empty{}, ConcreteAllocator{})

	if len(out) != 1 {
		t.Fatalf("expected exactly one outcome, got %d", len(out))
	}
	done, ok := out[0].(Done)
	if !ok {
		t.Fatalf("expected Done, got %#v", out[0])
	}
	if done.Config.Expr != (Cst{Value: "x"}) {
		t.Fatalf("expected Done to preserve the stuck expression, got %#v", done.Config.Expr)
	}
}

// --- Seed scenarios (spec §8) ---

func singleDone(t *testing.T, result *Result) Done {
	t.Helper()
	if len(result.Abort) != 0 {
		t.Fatalf("expected no aborts, got %#v", result.Abort)
	}
	if len(result.Done) != 1 {
		t.Fatalf("expected exactly one terminal outcome, got %d: %#v", len(result.Done), result.Done)
	}
	return result.Done[0]
}

func TestSeedIdentity(t *testing.T) {
	x := Variable(0)
	prog := App{
		Fn:  Abs{Param: x, Body: Var{Name: x}},
		Arg: Cst{Value: "hi"},
	}

	done := singleDone(t, Run(prog))
	if done.Config.Expr != (Cst{Value: "hi"}) {
		t.Fatalf("expected Cst(hi), got %#v", done.Config.Expr)
	}
}

func TestSeedKCombinator(t *testing.T) {
	x, y := Variable(0), Variable(1)
	k := Abs{Param: x, Body: Abs{Param: y, Body: Var{Name: x}}}
	prog := App{
		Fn:  App{Fn: k, Arg: Cst{Value: "a"}},
		Arg: Cst{Value: "b"},
	}

	done := singleDone(t, Run(prog))
	if done.Config.Expr != (Cst{Value: "a"}) {
		t.Fatalf("expected Cst(a), got %#v", done.Config.Expr)
	}
}

func TestSeedRefDeref(t *testing.T) {
	prog := Deref{Expr: Ref{Expr: Cst{Value: "x"}}}

	done := singleDone(t, Run(prog))
	if done.Config.Expr != (Cst{Value: "x"}) {
		t.Fatalf("expected Cst(x), got %#v", done.Config.Expr)
	}

	addrs := done.Config.Store.Addresses()
	// continuation frames also live in the store; only the Ref-allocated
	// cell holds a value
	valueAddrs := 0
	for _, a := range addrs {
		for _, sv := range done.Config.Store.Lookup(a) {
			if _, ok := sv.(StoredValue); ok {
				valueAddrs++
				break
			}
		}
	}
	if valueAddrs != 1 {
		t.Fatalf("expected exactly 1 store address holding a value (the ref cell), got %d", valueAddrs)
	}
	found := false
	for _, a := range addrs {
		for _, sv := range done.Config.Store.Lookup(a) {
			if v, ok := sv.(StoredValue); ok && v.Expr == (Cst{Value: "x"}) && len(v.Env) == 0 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected the final store to hold StoredValue(Cst(x), {}) at some address")
	}
}

func TestSeedSeq(t *testing.T) {
	prog := Seq{First: Cst{Value: "a"}, Second: Cst{Value: "b"}}

	done := singleDone(t, Run(prog))
	if done.Config.Expr != (Cst{Value: "b"}) {
		t.Fatalf("expected Cst(b), got %#v", done.Config.Expr)
	}
}

func storeContainsString(store Store, want string) bool {
	for _, a := range store.Addresses() {
		for _, sv := range store.Lookup(a) {
			if v, ok := sv.(StoredValue); ok {
				if c, ok := v.Expr.(Cst); ok && c.Value == want {
					return true
				}
			}
		}
	}
	return false
}

func countFulfilled(p PromiseState) int {
	n := 0
	for _, v := range p {
		if v.Status == Fulfilled {
			n++
		}
	}
	return n
}

// TestSeedPromiseExample1 builds spec §8's Example-1 program:
//
//	App(Abs(v0, Seq(Promisify(v0),
//	             Seq(OnResolve(v0, Abs(v42, Ref(v42))),
//	                 Resolve(v0, Cst("hello"))))),
//	    Ref(Cst("Promise1")))
func TestSeedPromiseExample1(t *testing.T) {
	v0 := Variable(0)
	v42 := Variable(42)

	handler := Abs{Param: v42, Body: Ref{Expr: Var{Name: v42}}}
	body := Seq{
		First: Promisify{Expr: Var{Name: v0}},
		Second: Seq{
			First:  OnResolve{Promise: Var{Name: v0}, Handler: handler},
			Second: Resolve{Promise: Var{Name: v0}, Value: Cst{Value: "hello"}},
		},
	}
	prog := App{
		Fn:  Abs{Param: v0, Body: body},
		Arg: Ref{Expr: Cst{Value: "Promise1"}},
	}

	result := Run(prog)
	if len(result.Abort) != 0 {
		t.Fatalf("expected no aborts, got %#v", result.Abort)
	}
	if len(result.Done) == 0 {
		t.Fatalf("expected at least one terminal outcome")
	}

	ok := false
	for _, d := range result.Done {
		if countFulfilled(d.Config.Promises) >= 1 && storeContainsString(d.Config.Store, "hello") {
			ok = true
			break
		}
	}
	if !ok {
		t.Fatalf("expected at least one Done outcome with a fulfilled promise and \"hello\" reachable in the store")
	}
}

// TestSeedPromiseExample2 builds a two-promise linking program (spec §8's
// Example-2): x and y are promisified, y is linked from x, y registers an
// onResolve handler, then x is resolved — which must propagate through the
// link queue to y and then through the reaction queue to y's child promise.
// A trailing Ref after the Resolve call gives the link queue a non-value
// expression to drain into, since E-Link-Loop only fires when the current
// expression is not yet a value.
func TestSeedPromiseExample2(t *testing.T) {
	vx := Variable(200)
	vy := Variable(201)
	vh := Variable(242)

	handler := Abs{Param: vh, Body: Ref{Expr: Var{Name: vh}}}
	inner := Seq{
		First: Promisify{Expr: Var{Name: vx}},
		Second: Seq{
			First: Promisify{Expr: Var{Name: vy}},
			Second: Seq{
				First: Link{Parent: Var{Name: vx}, Child: Var{Name: vy}},
				Second: Seq{
					First: OnResolve{Promise: Var{Name: vy}, Handler: handler},
					Second: Seq{
						First:  Resolve{Promise: Var{Name: vx}, Value: Cst{Value: "hello"}},
						Second: Ref{Expr: Cst{Value: "done"}},
					},
				},
			},
		},
	}
	prog := App{
		Fn: Abs{Param: vx, Body: App{
			Fn:  Abs{Param: vy, Body: inner},
			Arg: Ref{Expr: Cst{Value: "PromiseY"}},
		}},
		Arg: Ref{Expr: Cst{Value: "PromiseX"}},
	}

	result := Run(prog)
	if len(result.Abort) != 0 {
		t.Fatalf("expected no aborts, got %#v", result.Abort)
	}

	ok := false
	for _, d := range result.Done {
		if countFulfilled(d.Config.Promises) >= 2 && storeContainsString(d.Config.Store, "hello") {
			ok = true
			break
		}
	}
	if !ok {
		t.Fatalf("expected at least one Done outcome where the link propagated: x and y (at least) fulfilled, \"hello\" reachable in the store")
	}
}
