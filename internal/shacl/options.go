package shacl

// Defaults for the inference iteration budget.
const (
	DefaultMinIterations = 1
	DefaultMaxIterations = 10
)

// Options bound the inference loop.
type Options struct {
	// MinIterations forces at least this many engine passes even when the
	// graph stops growing. Rules can rewrite a triple without changing the
	// triple count, which cardinality-based change detection cannot see.
	MinIterations int

	// MaxIterations caps the number of engine passes.
	MaxIterations int

	// EarlyIsomorphicExit stops the loop as soon as an engine pass returns
	// a delta isomorphic to the previous pass's delta, before merging it.
	EarlyIsomorphicExit bool
}

// DefaultOptions returns the standard iteration budget.
func DefaultOptions() Options {
	return Options{
		MinIterations: DefaultMinIterations,
		MaxIterations: DefaultMaxIterations,
	}
}

// normalized clamps the options into their contract: budgets are
// non-negative and the cap is at least the floor. A zero cap selects the
// default, so the zero value of Options behaves like DefaultOptions.
func (o Options) normalized() Options {
	if o.MinIterations < 0 {
		o.MinIterations = 0
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.MaxIterations < o.MinIterations {
		o.MaxIterations = o.MinIterations
	}
	return o
}
