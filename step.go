package cesk

// Step computes the successors of cfg under its current continuation k
// (§4.3). k must be one of the Kont values cfg.Continuations() returns;
// Reachable calls Step once per element of that set, since under
// abstraction a configuration's continuation address may hold more than
// one stored continuation.
//
// The rules are organized in three independent groups, matched against
// disjoint parts of (cfg.Expr, k):
//
//   - expression-evaluation rules, keyed on the constructor of cfg.Expr
//     when it is not yet a value (Var, App, Ref, Deref, Seq, Promisify,
//     Resolve, Reject, OnResolve, OnReject, Link);
//   - continuation-reduction rules, keyed on the constructor of k, which
//     only ever fire once cfg.Expr is a value;
//   - the two queue-drain rules (E-Link-Loop, E-Reaction-Loop), which can
//     fire alongside whichever of the above applies, and are the reason a
//     configuration with non-empty queues can have more than one
//     successor even outside of store nondeterminism.
//
// A configuration for which none of these fire is Done (stuck, per §4.3).
// Because E-Link-Loop only fires on a non-value, this includes a value
// under Empty whose LinkQueue is still non-empty.
func Step(cfg Configuration, k Kont, alloc Allocator) []Outcome {
	var out []Outcome

	if IsValue(cfg.Expr) {
		out = append(out, stepReduction(cfg, k, alloc)...)
	} else {
		out = append(out, stepEval(cfg, k, alloc)...)
	}

	if !IsValue(cfg.Expr) && len(cfg.LinkQueue) > 0 {
		out = append(out, stepLinkDrain(cfg, k, alloc))
	}
	if IsValue(cfg.Expr) && len(cfg.ReactionQueue) > 0 {
		out = append(out, stepReactionDrain(cfg, k, alloc))
	}

	if len(out) == 0 {
		return []Outcome{Done{Config: cfg}}
	}
	return out
}

// stepEval dispatches the expression-evaluation rules: cfg.Expr is not yet a
// value, so it is the thing to reduce next, independent of k.
func stepEval(cfg Configuration, k Kont, alloc Allocator) []Outcome {
	switch e := cfg.Expr.(type) {
	case Var:
		return stepVar(cfg, k, alloc, e)
	case App:
		return stepApp(cfg, k, alloc, e)
	case Ref:
		return stepRefEval(cfg, k, alloc, e)
	case Deref:
		return stepDerefEval(cfg, k, alloc, e)
	case Seq:
		return stepSeqEval(cfg, k, alloc, e)
	case Promisify:
		return stepPromisifyEval(cfg, k, alloc, e)
	case Resolve:
		return stepResolveEval(cfg, k, alloc, e)
	case Reject:
		return stepRejectEval(cfg, k, alloc, e)
	case OnResolve:
		return stepOnResolveEval(cfg, k, alloc, e)
	case OnReject:
		return stepOnRejectEval(cfg, k, alloc, e)
	case Link:
		return stepLinkEval(cfg, k, alloc, e)
	default:
		return nil
	}
}

// stepReduction dispatches the continuation-reduction rules: cfg.Expr is
// already a value, so k decides what happens to it.
func stepReduction(cfg Configuration, k Kont, alloc Allocator) []Outcome {
	switch kk := k.(type) {
	case KApp1:
		return stepKApp1(cfg, alloc, kk)
	case KApp2:
		return stepKApp2(cfg, alloc, kk)
	case KRef:
		return stepKRef(cfg, alloc, kk)
	case KDeref:
		return stepKDeref(cfg, kk)
	case KSeq:
		return stepKSeq(cfg, kk)
	case KPromisify:
		return stepKPromisify(cfg, kk)
	case KResolve1:
		return stepKResolve1(cfg, alloc, kk)
	case KResolve2:
		return stepKResolve2(cfg, kk)
	case KReject1:
		return stepKReject1(cfg, alloc, kk)
	case KReject2:
		return stepKReject2(cfg, kk)
	case KOnResolve1:
		return stepKOnResolve1(cfg, alloc, kk)
	case KOnResolve2:
		return stepKOnResolve2(cfg, alloc, kk)
	case KOnReject1:
		return stepKOnReject1(cfg, alloc, kk)
	case KOnReject2:
		return stepKOnReject2(cfg, alloc, kk)
	case KLink1:
		return stepKLink1(cfg, alloc, kk)
	case KLink2:
		return stepKLink2(cfg, kk)
	case Empty:
		return nil
	default:
		return nil
	}
}

// next builds the successor Configuration, ticking time via alloc. Most
// rules that allocate funnel through this; stepKOnResolve2/stepKOnReject2
// and the two queue drains tick on their own, and stepVar ticks without
// allocating. The remaining rules (KDeref, KSeq, KPromisify, KResolve2,
// KReject2, KLink2, and the no-op cases of KOnResolve2/KOnReject2) leave
// time unchanged.
func next(cfg Configuration, k Kont, alloc Allocator, expr Expr, env Environment, store Store, kont Address) Outcome {
	n := cfg
	n.Expr = expr
	n.Env = env
	n.Store = store
	n.Kont = kont
	n.Time = alloc.Tick(cfg, k)
	return Next{Config: n}
}

func addrOf(e Expr) (Address, bool) {
	if p, ok := e.(Ptr); ok {
		return p.Addr, true
	}
	return 0, false
}

// --- Variable ---

func stepVar(cfg Configuration, k Kont, alloc Allocator, e Var) []Outcome {
	a, ok := cfg.Env.Lookup(e.Name)
	if !ok {
		return []Outcome{Abort{Reason: ReasonUnboundVariable}}
	}
	var out []Outcome
	for _, sv := range cfg.Store.Lookup(a) {
		switch s := sv.(type) {
		case StoredValue:
			n := cfg
			n.Expr = s.Expr
			n.Env = s.Env
			// continuation pointer is unchanged, time is ticked, per §4.3
			n.Time = alloc.Tick(cfg, k)
			out = append(out, Next{Config: n})
		case StoredKont:
			out = append(out, Abort{Reason: ReasonNonValueStorable})
		}
	}
	return out
}

// --- Application ---

func stepApp(cfg Configuration, k Kont, alloc Allocator, e App) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KApp1{Arg: e.Arg, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Fn, cfg.Env, store, a)}
}

func stepKApp1(cfg Configuration, alloc Allocator, k KApp1) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KApp2{Fn: cfg.Expr, Env: cfg.Env, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Arg, k.Env, store, a)}
}

func stepKApp2(cfg Configuration, alloc Allocator, k KApp2) []Outcome {
	abs, ok := k.Fn.(Abs)
	if !ok {
		return []Outcome{Abort{Reason: "KApp2 applied to non-Abs value"}}
	}
	a := alloc.Alloc(cfg, k)
	env1 := k.Env.Bind(abs.Param, a)
	store := cfg.Store.WeakUpdate(a, StoredValue{Expr: cfg.Expr, Env: cfg.Env})
	return []Outcome{next(cfg, k, alloc, abs.Body, env1, store, k.Parent)}
}

// --- Ref / Deref ---

func stepRefEval(cfg Configuration, k Kont, alloc Allocator, e Ref) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KRef{Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Expr, cfg.Env, store, a)}
}

func stepKRef(cfg Configuration, alloc Allocator, k KRef) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredValue{Expr: cfg.Expr, Env: cfg.Env})
	return []Outcome{next(cfg, k, alloc, Ptr{Addr: a}, cfg.Env, store, k.Parent)}
}

func stepDerefEval(cfg Configuration, k Kont, alloc Allocator, e Deref) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KDeref{Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Expr, cfg.Env, store, a)}
}

func stepKDeref(cfg Configuration, k KDeref) []Outcome {
	p, ok := cfg.Expr.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: "Deref of non-pointer value"}}
	}
	vals := cfg.Store.Lookup(p.Addr)
	if len(vals) == 0 {
		return []Outcome{Abort{Reason: ReasonNonValueStorable}}
	}
	var out []Outcome
	for _, sv := range vals {
		switch s := sv.(type) {
		case StoredValue:
			n := cfg
			n.Expr = s.Expr
			n.Env = s.Env
			n.Kont = k.Parent
			out = append(out, Next{Config: n})
		case StoredKont:
			out = append(out, Abort{Reason: ReasonNonValueStorable})
		}
	}
	return out
}

// --- Seq ---

func stepSeqEval(cfg Configuration, k Kont, alloc Allocator, e Seq) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KSeq{Next: e.Second, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.First, cfg.Env, store, a)}
}

func stepKSeq(cfg Configuration, k KSeq) []Outcome {
	n := cfg
	n.Expr = k.Next
	n.Env = k.Env
	n.Kont = k.Parent
	return []Outcome{Next{Config: n}}
}

// --- Promisify ---

func stepPromisifyEval(cfg Configuration, k Kont, alloc Allocator, e Promisify) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KPromisify{Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Expr, cfg.Env, store, a)}
}

func stepKPromisify(cfg Configuration, k KPromisify) []Outcome {
	p, ok := cfg.Expr.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: "Promisify of non-pointer value"}}
	}
	n := cfg
	if cfg.Promises.Get(p.Addr).Status == NotPromise {
		n.Promises = cfg.Promises.Set(p.Addr, PromiseValue{Status: Pending})
	}
	n.Expr = Cst{Value: "Undef"}
	n.Kont = k.Parent
	return []Outcome{Next{Config: n}}
}

// --- Resolve ---

func stepResolveEval(cfg Configuration, k Kont, alloc Allocator, e Resolve) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KResolve1{Value: e.Value, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Promise, cfg.Env, store, a)}
}

func stepKResolve1(cfg Configuration, alloc Allocator, k KResolve1) []Outcome {
	addr, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "Resolve of non-pointer promise expression"}}
	}
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KResolve2{Addr: addr, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Value, k.Env, store, a)}
}

func stepKResolve2(cfg Configuration, k KResolve2) []Outcome {
	st := cfg.Promises.Get(k.Addr)
	n := cfg
	n.Expr = Cst{Value: "Undef"}
	n.Kont = k.Parent
	switch st.Status {
	case NotPromise:
		return []Outcome{Abort{Reason: ReasonPromiseMisuse}}
	case Pending:
		pv := PromiseValue{Status: Fulfilled, Value: cfg.Expr, Env: cfg.Env}
		n.Promises = cfg.Promises.Set(k.Addr, pv)
		linkQ := n.LinkQueue
		for _, child := range cfg.Links[k.Addr] {
			linkQ = linkQ.Push(LinkEntry{Value: pv, Target: child})
		}
		reactQ := n.ReactionQueue
		for _, r := range cfg.FulfillReactions[k.Addr] {
			reactQ = reactQ.Push(ReactionEntry{Value: pv, Handler: r.Handler, Env: r.Env, Child: r.Child})
		}
		n.LinkQueue = linkQ
		n.ReactionQueue = reactQ
		n.FulfillReactions = cfg.FulfillReactions.Clear(k.Addr)
		n.RejectReactions = cfg.RejectReactions.Clear(k.Addr)
		n.Links = cfg.Links.Clear(k.Addr)
		return []Outcome{Next{Config: n}}
	default: // Fulfilled or Rejected: no-op
		return []Outcome{Next{Config: n}}
	}
}

// --- Reject (symmetric to Resolve) ---

func stepRejectEval(cfg Configuration, k Kont, alloc Allocator, e Reject) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KReject1{Value: e.Value, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Promise, cfg.Env, store, a)}
}

func stepKReject1(cfg Configuration, alloc Allocator, k KReject1) []Outcome {
	addr, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "Reject of non-pointer promise expression"}}
	}
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KReject2{Addr: addr, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Value, k.Env, store, a)}
}

func stepKReject2(cfg Configuration, k KReject2) []Outcome {
	st := cfg.Promises.Get(k.Addr)
	n := cfg
	n.Expr = Cst{Value: "Undef"}
	n.Kont = k.Parent
	switch st.Status {
	case NotPromise:
		return []Outcome{Abort{Reason: ReasonPromiseMisuse}}
	case Pending:
		pv := PromiseValue{Status: Rejected, Value: cfg.Expr, Env: cfg.Env}
		n.Promises = cfg.Promises.Set(k.Addr, pv)
		linkQ := n.LinkQueue
		for _, child := range cfg.Links[k.Addr] {
			linkQ = linkQ.Push(LinkEntry{Value: pv, Target: child})
		}
		reactQ := n.ReactionQueue
		for _, r := range cfg.RejectReactions[k.Addr] {
			reactQ = reactQ.Push(ReactionEntry{Value: pv, Handler: r.Handler, Env: r.Env, Child: r.Child})
		}
		n.LinkQueue = linkQ
		n.ReactionQueue = reactQ
		n.FulfillReactions = cfg.FulfillReactions.Clear(k.Addr)
		n.RejectReactions = cfg.RejectReactions.Clear(k.Addr)
		n.Links = cfg.Links.Clear(k.Addr)
		return []Outcome{Next{Config: n}}
	default:
		return []Outcome{Next{Config: n}}
	}
}

// --- OnResolve ---

func stepOnResolveEval(cfg Configuration, k Kont, alloc Allocator, e OnResolve) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KOnResolve1{Handler: e.Handler, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Promise, cfg.Env, store, a)}
}

func stepKOnResolve1(cfg Configuration, alloc Allocator, k KOnResolve1) []Outcome {
	addr, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "OnResolve of non-pointer promise expression"}}
	}
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KOnResolve2{Addr: addr, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Handler, k.Env, store, a)}
}

func stepKOnResolve2(cfg Configuration, alloc Allocator, k KOnResolve2) []Outcome {
	st := cfg.Promises.Get(k.Addr)
	switch st.Status {
	case NotPromise:
		return []Outcome{Abort{Reason: ReasonPromiseMisuse}}
	case Pending:
		child := alloc.Alloc(cfg, k)
		n := cfg
		n.Promises = cfg.Promises.Set(child, PromiseValue{Status: Pending})
		n.FulfillReactions = cfg.FulfillReactions.Append(k.Addr, Reaction{Handler: cfg.Expr, Env: cfg.Env, Child: child})
		n.Expr = Ptr{Addr: child}
		n.Kont = k.Parent
		n.Time = alloc.Tick(cfg, k)
		return []Outcome{Next{Config: n}}
	case Fulfilled:
		child := alloc.Alloc(cfg, k)
		n := cfg
		n.Promises = cfg.Promises.Set(child, PromiseValue{Status: Pending})
		n.ReactionQueue = cfg.ReactionQueue.Push(ReactionEntry{Value: st, Handler: cfg.Expr, Env: cfg.Env, Child: child})
		n.Expr = Ptr{Addr: child}
		n.Kont = k.Parent
		n.Time = alloc.Tick(cfg, k)
		return []Outcome{Next{Config: n}}
	default: // Rejected
		n := cfg
		n.Expr = Cst{Value: "Undef"}
		n.Kont = k.Parent
		return []Outcome{Next{Config: n}}
	}
}

// --- OnReject (symmetric to OnResolve) ---

func stepOnRejectEval(cfg Configuration, k Kont, alloc Allocator, e OnReject) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KOnReject1{Handler: e.Handler, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Promise, cfg.Env, store, a)}
}

func stepKOnReject1(cfg Configuration, alloc Allocator, k KOnReject1) []Outcome {
	addr, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "OnReject of non-pointer promise expression"}}
	}
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KOnReject2{Addr: addr, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Handler, k.Env, store, a)}
}

func stepKOnReject2(cfg Configuration, alloc Allocator, k KOnReject2) []Outcome {
	st := cfg.Promises.Get(k.Addr)
	switch st.Status {
	case NotPromise:
		return []Outcome{Abort{Reason: ReasonPromiseMisuse}}
	case Pending:
		child := alloc.Alloc(cfg, k)
		n := cfg
		n.Promises = cfg.Promises.Set(child, PromiseValue{Status: Pending})
		n.RejectReactions = cfg.RejectReactions.Append(k.Addr, Reaction{Handler: cfg.Expr, Env: cfg.Env, Child: child})
		n.Expr = Ptr{Addr: child}
		n.Kont = k.Parent
		n.Time = alloc.Tick(cfg, k)
		return []Outcome{Next{Config: n}}
	case Rejected:
		child := alloc.Alloc(cfg, k)
		n := cfg
		n.Promises = cfg.Promises.Set(child, PromiseValue{Status: Pending})
		n.ReactionQueue = cfg.ReactionQueue.Push(ReactionEntry{Value: st, Handler: cfg.Expr, Env: cfg.Env, Child: child})
		n.Expr = Ptr{Addr: child}
		n.Kont = k.Parent
		n.Time = alloc.Tick(cfg, k)
		return []Outcome{Next{Config: n}}
	default: // Fulfilled
		n := cfg
		n.Expr = Cst{Value: "Undef"}
		n.Kont = k.Parent
		return []Outcome{Next{Config: n}}
	}
}

// --- Link ---

func stepLinkEval(cfg Configuration, k Kont, alloc Allocator, e Link) []Outcome {
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KLink1{Child: e.Child, Env: cfg.Env, Parent: cfg.Kont}})
	return []Outcome{next(cfg, k, alloc, e.Parent, cfg.Env, store, a)}
}

func stepKLink1(cfg Configuration, alloc Allocator, k KLink1) []Outcome {
	addr, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "Link of non-pointer parent expression"}}
	}
	a := alloc.Alloc(cfg, k)
	store := cfg.Store.WeakUpdate(a, StoredKont{Kont: KLink2{Addr: addr, Parent: k.Parent}})
	return []Outcome{next(cfg, k, alloc, k.Child, k.Env, store, a)}
}

func stepKLink2(cfg Configuration, k KLink2) []Outcome {
	child, ok := addrOf(cfg.Expr)
	if !ok {
		return []Outcome{Abort{Reason: "Link of non-pointer child expression"}}
	}
	n := cfg
	n.Links = cfg.Links.Append(k.Addr, child)
	n.Expr = Cst{Value: "Undef"}
	n.Kont = k.Parent
	return []Outcome{Next{Config: n}}
}

// --- Queue drains ---

// stepLinkDrain implements E-Link-Loop. The current expression is not a
// value and the LinkQueue is non-empty: the head propagation is spliced in
// ahead of the current expression without disturbing the continuation.
//
// A literal AST splice ("Resolve(Ptr(target), v); e0") cannot be expressed
// as a single Expr under a single Environment, because v's closing
// environment (carried on the promise value) and e0's environment
// (cfg.Env) may differ. Instead the continuation chain that a literal
// Seq(Resolve(...), e0) would eventually build is constructed directly:
// a KSeq frame preserves e0/cfg.Env for later, a KResolve2 (or KReject2)
// frame underneath it carries out the resolution once v is (trivially,
// being already a value) re-observed under its own environment.
func stepLinkDrain(cfg Configuration, k Kont, alloc Allocator) Outcome {
	head, rest, ok := cfg.LinkQueue.Pop()
	if !ok {
		return Done{Config: cfg}
	}

	ticked := cfg
	ticked.Time = alloc.Tick(cfg, k)
	aSeq := alloc.Alloc(cfg, k)
	aRes := alloc.Alloc(ticked, k)
	finalTime := alloc.Tick(ticked, k)

	store := cfg.Store.WeakUpdate(aSeq, StoredKont{Kont: KSeq{Next: cfg.Expr, Env: cfg.Env, Parent: cfg.Kont}})
	var resolver Kont
	if head.Value.Status == Rejected {
		resolver = KReject2{Addr: head.Target, Parent: aSeq}
	} else {
		resolver = KResolve2{Addr: head.Target, Parent: aSeq}
	}
	store = store.WeakUpdate(aRes, StoredKont{Kont: resolver})

	n := cfg
	n.Expr = head.Value.Value
	n.Env = head.Value.Env
	n.Store = store
	n.LinkQueue = rest
	n.Kont = aRes
	n.Time = finalTime
	return Next{Config: n}
}

// stepReactionDrain implements E-Reaction-Loop. The current expression is
// already a value and the ReactionQueue is non-empty: that value is
// discarded in favor of applying the head reaction's handler to the
// settled promise value, then resolving or rejecting the reaction's child
// promise with the result.
//
// As with stepLinkDrain, the handler's environment and the settled value's
// environment may differ, so App(λ, v) is built as a continuation chain
// (KApp1 carrying v/its env, underneath a KResolve2/KReject2 carrying the
// child address) rather than as a single-environment AST splice.
func stepReactionDrain(cfg Configuration, k Kont, alloc Allocator) Outcome {
	head, rest, ok := cfg.ReactionQueue.Pop()
	if !ok {
		return Done{Config: cfg}
	}

	ticked := cfg
	ticked.Time = alloc.Tick(cfg, k)
	aResolve := alloc.Alloc(cfg, k)
	aApp1 := alloc.Alloc(ticked, k)
	finalTime := alloc.Tick(ticked, k)

	var resolver Kont
	if head.Value.Status == Rejected {
		resolver = KReject2{Addr: head.Child, Parent: cfg.Kont}
	} else {
		resolver = KResolve2{Addr: head.Child, Parent: cfg.Kont}
	}
	store := cfg.Store.WeakUpdate(aResolve, StoredKont{Kont: resolver})
	store = store.WeakUpdate(aApp1, StoredKont{Kont: KApp1{Arg: head.Value.Value, Env: head.Value.Env, Parent: aResolve}})

	n := cfg
	n.Expr = head.Handler
	n.Env = head.Env
	n.Store = store
	n.ReactionQueue = rest
	n.Kont = aApp1
	n.Time = finalTime
	return Next{Config: n}
}
