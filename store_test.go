package cesk

import "testing"

func TestStoreWeakUpdateJoins(t *testing.T) {
	s := NewStore()
	s = s.WeakUpdate(0, StoredValue{Expr: Cst{Value: "a"}, Env: Environment{}})
	s = s.WeakUpdate(0, StoredValue{Expr: Cst{Value: "b"}, Env: Environment{}})

	got := s.Lookup(0)
	if len(got) != 2 {
		t.Fatalf("expected 2 joined storables at address 0, got %d: %#v", len(got), got)
	}
}

func TestStoreWeakUpdateDedupes(t *testing.T) {
	s := NewStore()
	v := StoredValue{Expr: Cst{Value: "a"}, Env: Environment{}}
	s = s.WeakUpdate(0, v)
	s2 := s.WeakUpdate(0, v)

	if len(s2.Lookup(0)) != 1 {
		t.Fatalf("expected re-writing an identical storable to be a no-op, got %d entries", len(s2.Lookup(0)))
	}
}

func TestStoreWeakUpdateDoesNotMutateReceiver(t *testing.T) {
	s := NewStore()
	s = s.WeakUpdate(0, StoredValue{Expr: Cst{Value: "a"}, Env: Environment{}})

	s2 := s.WeakUpdate(0, StoredValue{Expr: Cst{Value: "b"}, Env: Environment{}})

	if len(s.Lookup(0)) != 1 {
		t.Fatalf("WeakUpdate mutated its receiver: expected 1 entry, got %d", len(s.Lookup(0)))
	}
	if len(s2.Lookup(0)) != 2 {
		t.Fatalf("expected the new store to have 2 entries, got %d", len(s2.Lookup(0)))
	}
}

func TestStoreSubsumesMonotone(t *testing.T) {
	before := NewStore().WeakUpdate(0, StoredValue{Expr: Cst{Value: "a"}, Env: Environment{}})
	after := before.WeakUpdate(1, StoredValue{Expr: Cst{Value: "b"}, Env: Environment{}})

	if !after.Subsumes(before) {
		t.Fatalf("expected store grown by WeakUpdate to subsume its predecessor")
	}
	if before.Subsumes(after) {
		t.Fatalf("expected the smaller store not to subsume the larger one")
	}
}
