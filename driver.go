package cesk

import "github.com/joeycumines/logiface"

// DriverOption configures a Driver, following the functional-options idiom
// (§10.3): each option mutates an internal config struct, and NewDriver
// validates the result once all options have been applied.
type DriverOption func(*driverConfig)

type driverConfig struct {
	allocator      Allocator
	bound          *int
	logger         *logiface.Logger[logiface.Event]
	collectVisited bool
}

// WithAllocator selects the Allocator a Driver uses. Defaults to
// ConcreteAllocator{}.
func WithAllocator(a Allocator) DriverOption {
	return func(c *driverConfig) { c.allocator = a }
}

// WithBound caps the number of distinct configurations Reachable will
// explore; a popped configuration that was already visited is skipped and
// not counted. A negative n is a configuration error (ErrNegativeBound,
// reported by NewDriver). Omitting WithBound leaves exploration unbounded,
// relying on the Allocator to guarantee termination (§4.4).
func WithBound(n int) DriverOption {
	return func(c *driverConfig) { c.bound = &n }
}

// WithLogger attaches a structured logger (§10.1). A nil logger (the
// default) makes logging a no-op.
func WithLogger(logger *logiface.Logger[logiface.Event]) DriverOption {
	return func(c *driverConfig) { c.logger = logger }
}

// WithReachableSet makes Reachable populate Result.Visited with every
// configuration explored, keyed by Configuration.Key. This is the hook
// external analysis clients use (§6, §12); the core itself never reads
// Result.Visited.
func WithReachableSet() DriverOption {
	return func(c *driverConfig) { c.collectVisited = true }
}

// Driver holds the configuration Reachable needs: which Allocator to run
// Step with, an optional exploration bound, an optional logger, and whether
// to retain the full visited set.
type Driver struct {
	allocator      Allocator
	bound          *int
	logger         *logiface.Logger[logiface.Event]
	collectVisited bool
}

// NewDriver builds a Driver from options, defaulting to ConcreteAllocator{}
// and unbounded exploration.
func NewDriver(options ...DriverOption) (*Driver, error) {
	cfg := driverConfig{allocator: ConcreteAllocator{}}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.allocator == nil {
		return nil, ErrNilAllocator
	}
	if cfg.bound != nil && *cfg.bound < 0 {
		return nil, ErrNegativeBound
	}
	return &Driver{
		allocator:      cfg.allocator,
		bound:          cfg.bound,
		logger:         cfg.logger,
		collectVisited: cfg.collectVisited,
	}, nil
}

// Result is what Reachable returns: the terminal outcomes found (Done and
// Abort), and, if the Driver was built WithReachableSet, every configuration
// visited along the way.
type Result struct {
	Done    []Done
	Abort   []Abort
	Visited map[string]Configuration
}

// Reachable computes the least fixed point of Step starting from
// Inject(e0) (§4.4). It maintains an explicit worklist rather than
// recursing, memoizes on Configuration.Key, and — for every popped
// configuration — resolves its current continuation address to possibly
// several stored continuations, calling Step once per continuation found.
func (d *Driver) Reachable(e0 Expr) (*Result, error) {
	if d.allocator == nil {
		return nil, ErrNilAllocator
	}

	result := &Result{}
	visited := make(map[string]struct{})
	var visitedCfgs map[string]Configuration
	if d.collectVisited {
		visitedCfgs = make(map[string]Configuration)
	}

	work := []Configuration{Inject(e0)}
	steps := 0

	for len(work) > 0 {
		if d.bound != nil && steps >= *d.bound {
			break
		}

		cfg := work[len(work)-1]
		work = work[:len(work)-1]

		key := cfg.Key()
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}
		if visitedCfgs != nil {
			visitedCfgs[key] = cfg
		}
		steps++

		for _, k := range cfg.Continuations() {
			logStep(d.logger, cfg, k)
			for _, outcome := range Step(cfg, k, d.allocator) {
				switch o := outcome.(type) {
				case Next:
					if _, seen := visited[o.Config.Key()]; !seen {
						work = append(work, o.Config)
					}
				case Done:
					result.Done = append(result.Done, o)
				case Abort:
					logAbort(d.logger, o.Reason)
					result.Abort = append(result.Abort, o)
				}
			}
		}
	}

	if visitedCfgs != nil {
		result.Visited = visitedCfgs
	}
	logReachableDone(d.logger, len(visited), len(result.Done), len(result.Abort))
	return result, nil
}

// Run is a convenience wrapper around NewDriver and Reachable using the
// default, unbounded ConcreteAllocator.
func Run(e0 Expr) *Result {
	d, err := NewDriver()
	if err != nil {
		// unreachable: NewDriver() with no options never errors.
		panic(err)
	}
	result, err := d.Reachable(e0)
	if err != nil {
		panic(err)
	}
	return result
}
