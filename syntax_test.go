package cesk

import "testing"

func TestIsValue(t *testing.T) {
	values := []Expr{
		Abs{Param: Variable(0), Body: Var{Name: Variable(0)}},
		Cst{Value: "x"},
		Ptr{Addr: Address(1)},
	}
	for _, v := range values {
		if !IsValue(v) {
			t.Errorf("expected %#v to be a value", v)
		}
	}

	nonValues := []Expr{
		Var{Name: Variable(0)},
		App{Fn: Cst{Value: "f"}, Arg: Cst{Value: "x"}},
		Ref{Expr: Cst{Value: "x"}},
		Seq{First: Cst{Value: "a"}, Second: Cst{Value: "b"}},
	}
	for _, v := range nonValues {
		if IsValue(v) {
			t.Errorf("expected %#v not to be a value", v)
		}
	}
}

func TestEnvironmentBindIsImmutable(t *testing.T) {
	base := Environment{Variable(0): Address(1)}
	extended := base.Bind(Variable(1), Address(2))

	if _, ok := base.Lookup(Variable(1)); ok {
		t.Fatalf("Bind mutated the receiver: found v1 in base environment")
	}
	if a, ok := extended.Lookup(Variable(1)); !ok || a != Address(2) {
		t.Fatalf("extended environment missing v1, got %v %v", a, ok)
	}
	if a, ok := extended.Lookup(Variable(0)); !ok || a != Address(1) {
		t.Fatalf("extended environment lost v0, got %v %v", a, ok)
	}
}

func TestNewVariableDistinct(t *testing.T) {
	a := NewVariable()
	b := NewVariable()
	if a == b {
		t.Fatalf("NewVariable returned the same variable twice: %v", a)
	}
}
