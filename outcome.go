package cesk

// Outcome is the tagged sum Step produces for each Configuration/Kont pair
// it is handed (§4.3): Next advances exploration, Done is a terminal
// success, Abort is a terminal failure.
type Outcome interface {
	outcomeMarker()
}

type (
	// Next carries a successor Configuration still to be explored.
	Next struct {
		Config Configuration
	}

	// Done carries a terminal Configuration: no rule matched, including the
	// two queue-drain rules (§4.3's "Stuck" rule). Its LinkQueue may still
	// be non-empty, since E-Link-Loop only fires on a non-value.
	Done struct {
		Config Configuration
	}

	// Abort carries one of the failure reasons of §7. It always ends the
	// exploration branch that produced it; other branches are unaffected.
	Abort struct {
		Reason string
	}
)

func (Next) outcomeMarker() {}
func (Done) outcomeMarker() {}
func (Abort) outcomeMarker() {}

// The three canonical Abort reasons of §7. Additional, structurally
// descriptive reasons may also occur (e.g. applying a non-Abs value) without
// reusing one of these three strings — §7 allows it, and conflating a type
// error with, say, an unbound variable would only hide the cause.
const (
	ReasonUnboundVariable  = "Unbound variable"
	ReasonNonValueStorable = "Non-value storable"
	ReasonPromiseMisuse    = "Promise misuse"
)
