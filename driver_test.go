package cesk

import (
	"errors"
	"testing"
)

func TestNewDriverDefaults(t *testing.T) {
	d, err := NewDriver()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.allocator.(ConcreteAllocator); !ok {
		t.Fatalf("expected default allocator ConcreteAllocator, got %#v", d.allocator)
	}
	if d.bound != nil {
		t.Fatalf("expected unbounded default, got %v", *d.bound)
	}
}

func TestNewDriverNilAllocator(t *testing.T) {
	_, err := NewDriver(WithAllocator(nil))
	if !errors.Is(err, ErrNilAllocator) {
		t.Fatalf("expected ErrNilAllocator, got %v", err)
	}
}

func TestNewDriverNegativeBound(t *testing.T) {
	_, err := NewDriver(WithBound(-1))
	if !errors.Is(err, ErrNegativeBound) {
		t.Fatalf("expected ErrNegativeBound, got %v", err)
	}
}

func TestDriverReachableBoundStopsEarly(t *testing.T) {
	d, err := NewDriver(WithBound(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := d.Reachable(Cst{Value: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Done) != 0 || len(result.Abort) != 0 {
		t.Fatalf("expected a zero-step bound to explore nothing, got %#v", result)
	}
}

func TestDriverReachableCollectsVisitedWhenRequested(t *testing.T) {
	d, err := NewDriver(WithReachableSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := d.Reachable(Cst{Value: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Visited == nil {
		t.Fatalf("expected Visited to be populated when WithReachableSet is set")
	}
	if len(result.Visited) == 0 {
		t.Fatalf("expected at least the injected configuration to be visited")
	}
}

func TestDriverReachableOmitsVisitedByDefault(t *testing.T) {
	d, err := NewDriver()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := d.Reachable(Cst{Value: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Visited != nil {
		t.Fatalf("expected Visited to be nil unless WithReachableSet was used")
	}
}

func TestRunConvenienceWrapper(t *testing.T) {
	result := Run(Cst{Value: "x"})
	if len(result.Done) != 1 {
		t.Fatalf("expected exactly one Done outcome, got %#v", result.Done)
	}
	if result.Done[0].Config.Expr != (Cst{Value: "x"}) {
		t.Fatalf("expected the stuck constant to be returned, got %#v", result.Done[0].Config.Expr)
	}
}

func TestDriverReachableUsesConfiguredAllocator(t *testing.T) {
	d, err := NewDriver(WithAllocator(ConstantAllocator{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// omega: (λx. x x)(λx. x x) diverges under an exact-address allocator but
	// must stay finite when every allocation collapses onto one address.
	omega := Abs{Param: Variable(0), Body: App{Fn: Var{Name: Variable(0)}, Arg: Var{Name: Variable(0)}}}
	prog := App{Fn: omega, Arg: omega}

	result, err := d.Reachable(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatalf("expected a result")
	}
}
