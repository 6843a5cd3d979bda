// Package shacl contains the orchestration core: the fixed-point inference
// loop over an external SHACL engine, the validation driver built on it,
// and the interpretation of the engine's validation reports. The bookkeeping
// that keeps a graph semantically intact across the subprocess round trip
// (import suppression, blank-node skolemization, diagnostic filtering)
// lives here too.
package shacl

import (
	"context"

	"go.uber.org/zap"

	"tqshacl/internal/rdfio"
	"tqshacl/internal/topquadrant"
)

// Invoker abstracts the external engine so the pipeline is exercisable
// without a Java runtime. *topquadrant.Runner is the production
// implementation.
type Invoker interface {
	Infer(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error)
	Validate(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error)
}

// Engine orchestrates inference and validation over an Invoker. Calls are
// synchronous and single-threaded: callers must not run two operations over
// the same graphs concurrently, since import guarding mutates the inputs
// in place for the duration of a call.
type Engine struct {
	runner Invoker
	skolem *rdfio.Skolemizer
	logger *zap.Logger
}

// New returns an engine using the default skolemization strategy. A nil
// logger disables logging.
func New(runner Invoker, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		runner: runner,
		skolem: rdfio.NewSkolemizer(""),
		logger: logger,
	}
}

// SetSkolemizer replaces the blank-node strategy, for callers whose data
// could collide with IRIs under the default skolem base.
func (e *Engine) SetSkolemizer(s *rdfio.Skolemizer) {
	if s != nil {
		e.skolem = s
	}
}
