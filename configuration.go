package cesk

import (
	"fmt"
	"sort"
	"strings"
)

// Configuration is the machine state (§3): the expression under evaluation,
// its environment, the store and promise tables, the pending link and
// reaction queues, the address of the current continuation, and the
// allocator's time. Configurations are never mutated; Step always produces
// new Configuration values, and old ones remain valid members of a driver's
// reachable set.
type Configuration struct {
	Expr             Expr
	Env              Environment
	Store            Store
	Promises         PromiseState
	FulfillReactions ReactionTable
	RejectReactions  ReactionTable
	Links            PromiseLinks
	LinkQueue        LinkQueue
	ReactionQueue    ReactionQueue
	Kont             Address
	Time             Time
}

// Inject builds the initial Configuration for expression e0 (§3's
// lifecycle): address 0 holds Empty, every map is empty, the current
// continuation pointer is 0, and time starts at 1.
func Inject(e0 Expr) Configuration {
	return Configuration{
		Expr:             e0,
		Env:              Environment{},
		Store:            NewStore().WeakUpdate(0, StoredKont{Kont: Empty{}}),
		Promises:         PromiseState{},
		FulfillReactions: ReactionTable{},
		RejectReactions:  ReactionTable{},
		Links:            PromiseLinks{},
		Kont:             0,
		Time:             1,
	}
}

// Continuations returns every Kont stored at c.Kont. Under the concrete
// allocator this set always has exactly one element; under abstraction it
// may have more, and Step must be invoked once per element (§4.4).
func (c Configuration) Continuations() []Kont {
	var out []Kont
	for _, sv := range c.Store.Lookup(c.Kont) {
		if sk, ok := sv.(StoredKont); ok {
			out = append(out, sk.Kont)
		}
	}
	return out
}

// Key returns a deterministic string encoding of c, suitable for use as a
// map key when memoizing on structural equality of configurations (§9,
// §4.4). Go's == cannot serve this purpose: Configuration holds map- and
// slice-valued fields. Two configurations that differ only in the order
// storables were joined into the same store address, or in the iteration
// order of an equal map, produce identical keys.
func (c Configuration) Key() string {
	var b strings.Builder
	encodeExpr(&b, c.Expr)
	b.WriteByte('|')
	encodeEnv(&b, c.Env)
	b.WriteByte('|')
	encodeStore(&b, c.Store)
	b.WriteByte('|')
	encodePromiseState(&b, c.Promises)
	b.WriteByte('|')
	encodeReactionTable(&b, "F", c.FulfillReactions)
	b.WriteByte('|')
	encodeReactionTable(&b, "R", c.RejectReactions)
	b.WriteByte('|')
	encodeLinks(&b, c.Links)
	b.WriteByte('|')
	encodeLinkQueue(&b, c.LinkQueue)
	b.WriteByte('|')
	encodeReactionQueue(&b, c.ReactionQueue)
	fmt.Fprintf(&b, "|K%d|T%d", c.Kont, c.Time)
	return b.String()
}

func encodeExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case nil:
		b.WriteString("nil")
	case Var:
		fmt.Fprintf(b, "Var(%d)", v.Name)
	case Abs:
		fmt.Fprintf(b, "Abs(%d,", v.Param)
		encodeExpr(b, v.Body)
		b.WriteByte(')')
	case App:
		b.WriteString("App(")
		encodeExpr(b, v.Fn)
		b.WriteByte(',')
		encodeExpr(b, v.Arg)
		b.WriteByte(')')
	case Cst:
		fmt.Fprintf(b, "Cst(%q)", v.Value)
	case Ptr:
		fmt.Fprintf(b, "Ptr(%d)", v.Addr)
	case Ref:
		b.WriteString("Ref(")
		encodeExpr(b, v.Expr)
		b.WriteByte(')')
	case Deref:
		b.WriteString("Deref(")
		encodeExpr(b, v.Expr)
		b.WriteByte(')')
	case Seq:
		b.WriteString("Seq(")
		encodeExpr(b, v.First)
		b.WriteByte(',')
		encodeExpr(b, v.Second)
		b.WriteByte(')')
	case Promisify:
		b.WriteString("Promisify(")
		encodeExpr(b, v.Expr)
		b.WriteByte(')')
	case Resolve:
		b.WriteString("Resolve(")
		encodeExpr(b, v.Promise)
		b.WriteByte(',')
		encodeExpr(b, v.Value)
		b.WriteByte(')')
	case Reject:
		b.WriteString("Reject(")
		encodeExpr(b, v.Promise)
		b.WriteByte(',')
		encodeExpr(b, v.Value)
		b.WriteByte(')')
	case OnResolve:
		b.WriteString("OnResolve(")
		encodeExpr(b, v.Promise)
		b.WriteByte(',')
		encodeExpr(b, v.Handler)
		b.WriteByte(')')
	case OnReject:
		b.WriteString("OnReject(")
		encodeExpr(b, v.Promise)
		b.WriteByte(',')
		encodeExpr(b, v.Handler)
		b.WriteByte(')')
	case Link:
		b.WriteString("Link(")
		encodeExpr(b, v.Parent)
		b.WriteByte(',')
		encodeExpr(b, v.Child)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "?(%v)", v)
	}
}

func encodeKont(b *strings.Builder, k Kont) {
	switch v := k.(type) {
	case nil:
		b.WriteString("nil")
	case Empty:
		b.WriteString("Empty")
	case KApp1:
		b.WriteString("KApp1(")
		encodeExpr(b, v.Arg)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KApp2:
		b.WriteString("KApp2(")
		encodeExpr(b, v.Fn)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KRef:
		fmt.Fprintf(b, "KRef(%d)", v.Parent)
	case KDeref:
		fmt.Fprintf(b, "KDeref(%d)", v.Parent)
	case KSeq:
		b.WriteString("KSeq(")
		encodeExpr(b, v.Next)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KPromisify:
		fmt.Fprintf(b, "KPromisify(%d)", v.Parent)
	case KResolve1:
		b.WriteString("KResolve1(")
		encodeExpr(b, v.Value)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KResolve2:
		fmt.Fprintf(b, "KResolve2(%d,%d)", v.Addr, v.Parent)
	case KReject1:
		b.WriteString("KReject1(")
		encodeExpr(b, v.Value)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KReject2:
		fmt.Fprintf(b, "KReject2(%d,%d)", v.Addr, v.Parent)
	case KOnResolve1:
		b.WriteString("KOnResolve1(")
		encodeExpr(b, v.Handler)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KOnResolve2:
		fmt.Fprintf(b, "KOnResolve2(%d,%d)", v.Addr, v.Parent)
	case KOnReject1:
		b.WriteString("KOnReject1(")
		encodeExpr(b, v.Handler)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KOnReject2:
		fmt.Fprintf(b, "KOnReject2(%d,%d)", v.Addr, v.Parent)
	case KLink1:
		b.WriteString("KLink1(")
		encodeExpr(b, v.Child)
		b.WriteByte(',')
		encodeEnv(b, v.Env)
		fmt.Fprintf(b, ",%d)", v.Parent)
	case KLink2:
		fmt.Fprintf(b, "KLink2(%d,%d)", v.Addr, v.Parent)
	default:
		fmt.Fprintf(b, "?(%v)", v)
	}
}

func encodeEnv(b *strings.Builder, env Environment) {
	vars := make([]Variable, 0, len(env))
	for v := range env {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	b.WriteByte('{')
	for i, v := range vars {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d:%d", v, env[v])
	}
	b.WriteByte('}')
}

func encodeStorable(s Storable) string {
	var b strings.Builder
	switch v := s.(type) {
	case StoredKont:
		b.WriteString("K:")
		encodeKont(&b, v.Kont)
	case StoredValue:
		b.WriteString("V:")
		encodeExpr(&b, v.Expr)
		b.WriteByte(':')
		encodeEnv(&b, v.Env)
	default:
		fmt.Fprintf(&b, "?(%v)", v)
	}
	return b.String()
}

func encodeStore(b *strings.Builder, s Store) {
	addrs := s.Addresses()
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	b.WriteByte('{')
	for i, a := range addrs {
		if i > 0 {
			b.WriteByte(',')
		}
		vals := s.Lookup(a)
		strs := make([]string, len(vals))
		for j, v := range vals {
			strs[j] = encodeStorable(v)
		}
		sort.Strings(strs)
		fmt.Fprintf(b, "%d:[%s]", a, strings.Join(strs, ";"))
	}
	b.WriteByte('}')
}

func encodePromiseValue(b *strings.Builder, v PromiseValue) {
	fmt.Fprintf(b, "%s(", v.Status)
	encodeExpr(b, v.Value)
	b.WriteByte(',')
	encodeEnv(b, v.Env)
	b.WriteByte(')')
}

func encodePromiseState(b *strings.Builder, p PromiseState) {
	addrs := make([]Address, 0, len(p))
	for a := range p {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	b.WriteByte('{')
	for i, a := range addrs {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d:", a)
		encodePromiseValue(b, p[a])
	}
	b.WriteByte('}')
}

func encodeReactionTable(b *strings.Builder, tag string, t ReactionTable) {
	addrs := make([]Address, 0, len(t))
	for a := range t {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	b.WriteString(tag)
	b.WriteByte('{')
	for i, a := range addrs {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d:[", a)
		for j, r := range t[a] {
			if j > 0 {
				b.WriteByte(';')
			}
			encodeExpr(b, r.Handler)
			b.WriteByte(':')
			encodeEnv(b, r.Env)
			fmt.Fprintf(b, ":%d", r.Child)
		}
		b.WriteByte(']')
	}
	b.WriteByte('}')
}

func encodeLinks(b *strings.Builder, l PromiseLinks) {
	addrs := make([]Address, 0, len(l))
	for a := range l {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	b.WriteByte('{')
	for i, a := range addrs {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d:%v", a, l[a])
	}
	b.WriteByte('}')
}

func encodeLinkQueue(b *strings.Builder, q LinkQueue) {
	b.WriteByte('[')
	for i, e := range q {
		if i > 0 {
			b.WriteByte(';')
		}
		encodePromiseValue(b, e.Value)
		fmt.Fprintf(b, "->%d", e.Target)
	}
	b.WriteByte(']')
}

func encodeReactionQueue(b *strings.Builder, q ReactionQueue) {
	b.WriteByte('[')
	for i, e := range q {
		if i > 0 {
			b.WriteByte(';')
		}
		encodePromiseValue(b, e.Value)
		b.WriteByte(',')
		encodeExpr(b, e.Handler)
		b.WriteByte(',')
		encodeEnv(b, e.Env)
		fmt.Fprintf(b, "->%d", e.Child)
	}
	b.WriteByte(']')
}
