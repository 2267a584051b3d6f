package cesk

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewLogger builds a structured logger writing JSON lines to w, backed by
// stumpy (logiface's reference backend). The returned Logger is generified
// (logiface.Logger.Logger) to *logiface.Logger[logiface.Event], the same
// shape a Driver's Logger field expects, so callers are never exposed to the
// concrete stumpy.Event type.
func NewLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	concrete := logiface.New[*stumpy.Event](
		stumpy.WithStumpy(stumpy.WithWriter(w)),
	)
	return concrete.Logger()
}

// logStep emits one Debug record per dispatched Step call, naming the
// dynamic types of the current expression and continuation. A nil logger is
// a no-op: every method in the chain tolerates a nil receiver.
func logStep(logger *logiface.Logger[logiface.Event], cfg Configuration, k Kont) {
	logger.Debug().
		Str(`expr`, exprTag(cfg.Expr)).
		Str(`kont`, kontTag(k)).
		Log(`step`)
}

// logAbort emits one Warning record per Abort outcome.
func logAbort(logger *logiface.Logger[logiface.Event], reason string) {
	logger.Warning().
		Str(`reason`, reason).
		Log(`abort`)
}

// logReachableDone emits one Info record when Reachable finishes, reporting
// the size of the visited set and a breakdown of outcome kinds.
func logReachableDone(logger *logiface.Logger[logiface.Event], visited int, done, abort int) {
	logger.Info().
		Int(`visited`, visited).
		Int(`done`, done).
		Int(`abort`, abort).
		Log(`reachable finished`)
}

// exprTag returns a short discriminator string for e's dynamic type, used
// only for logging.
func exprTag(e Expr) string {
	switch e.(type) {
	case nil:
		return "nil"
	case Var:
		return "Var"
	case Abs:
		return "Abs"
	case App:
		return "App"
	case Cst:
		return "Cst"
	case Ptr:
		return "Ptr"
	case Ref:
		return "Ref"
	case Deref:
		return "Deref"
	case Seq:
		return "Seq"
	case Promisify:
		return "Promisify"
	case Resolve:
		return "Resolve"
	case Reject:
		return "Reject"
	case OnResolve:
		return "OnResolve"
	case OnReject:
		return "OnReject"
	case Link:
		return "Link"
	default:
		return "?"
	}
}
