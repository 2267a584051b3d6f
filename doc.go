// Package cesk implements an abstract CESK*-style machine for a small
// lambda calculus extended with string constants, mutable heap references,
// sequencing, and an ECMAScript-flavored promise model (promisify, resolve,
// reject, onResolve, onReject, link).
//
// The machine is formulated so that it runs identically as a concrete
// interpreter (one successor per configuration) and as an abstract
// interpreter (a nondeterministic step relation whose reachable
// configuration set is finite, enabling a fixed-point computation over
// states). The "*" in CESK* names the store-allocated continuation
// representation: continuations are data, stored in the same heap as
// values, which makes the machine state first-order and finitely
// representable once the allocator collapses the address space.
//
// # Components
//
// Five cooperating pieces make up the package:
//
//   - Syntax ([Expr], [Kont]): the AST for expressions and evaluation
//     contexts / continuations, both closed tagged sums dispatched by type
//     switch, never by virtual method.
//   - Store ([Store], [Storable]): an address -> set-of-storables mapping
//     with join-on-write ([Store.WeakUpdate]); this is the single point
//     that makes the same abstraction sound for both concrete and
//     abstract evaluation.
//   - Promise tables ([PromiseState], [ReactionTable], [PromiseLinks],
//     [LinkQueue], [ReactionQueue]): the pending / fulfilled
//     / rejected lifecycle, its ordered reaction and link bookkeeping, and
//     the two FIFO queues that drain when a promise settles.
//   - Allocator/time ([Allocator]): the abstraction hooks that decide fresh
//     address identity and when to collapse it, turning the same step
//     relation into a concrete or an abstract interpreter.
//   - Step relation ([Step]) and driver ([Reachable]): [Step] takes a
//     [Configuration] and its current continuation and produces a set of
//     [Outcome] values; [Reachable] closes this relation under successor to
//     a fixed point.
//
// # Example
//
//	x := cesk.NewVariable()
//	prog := cesk.App{
//		Fn:  cesk.Abs{Param: x, Body: cesk.Var{Name: x}},
//		Arg: cesk.Cst{Value: "hi"},
//	}
//	result := cesk.Run(prog)
//	// result.Done has exactly one element, whose Expr is Cst{Value: "hi"}.
package cesk
