// Package shacl is the public interface to the tqshacl pipeline: SHACL
// rule inference and validation over RDF graphs, backed by the external
// TopQuadrant engine. It re-exports the graph model, the pipeline types,
// and the runner surface from the internal packages, and adds one-shot
// entry points that assemble the whole stack from configuration.
package shacl

import (
	"context"

	"go.uber.org/zap"

	"tqshacl/internal/config"
	"tqshacl/internal/rdfio"
	"tqshacl/internal/shacl"
	"tqshacl/internal/topquadrant"
)

// Graph model and codecs.
type Graph = rdfio.Graph
type Skolemizer = rdfio.Skolemizer

var (
	NewGraph      = rdfio.NewGraph
	NewSkolemizer = rdfio.NewSkolemizer
	ParseTurtle   = rdfio.ParseTurtle
	EncodeTurtle  = rdfio.EncodeTurtle
	ReadFile      = rdfio.ReadFile
	WriteFile     = rdfio.WriteFile
	Isomorphic    = rdfio.Isomorphic
)

// Pipeline types.
type Engine = shacl.Engine
type Invoker = shacl.Invoker
type Options = shacl.Options
type Report = shacl.Report
type ParseError = shacl.ParseError

const (
	DefaultMinIterations = shacl.DefaultMinIterations
	DefaultMaxIterations = shacl.DefaultMaxIterations
)

var (
	NewEngine         = shacl.New
	DefaultOptions    = shacl.DefaultOptions
	Conforms          = shacl.Conforms
	PrettyPrintReport = shacl.PrettyPrint
)

// Engine runner surface.
type Runner = topquadrant.Runner
type RunnerConfig = topquadrant.Config
type Request = topquadrant.Request
type Result = topquadrant.Result
type InvocationError = topquadrant.InvocationError

var (
	ErrJavaNotFound     = topquadrant.ErrJavaNotFound
	ErrEngineNotFound   = topquadrant.ErrEngineNotFound
	NewRunner           = topquadrant.New
	DefaultRunnerConfig = topquadrant.DefaultConfig
)

// Configuration.
type Config = config.Config

var (
	DefaultConfig     = config.DefaultConfig
	DefaultConfigPath = config.DefaultPath
	LoadConfig        = config.Load
)

// New assembles the full pipeline from configuration. The Java runtime and
// the engine launchers are probed here, so a broken environment fails
// construction rather than the first operation. A nil cfg means defaults,
// a nil logger disables logging.
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	runner, err := topquadrant.New(ctx, topquadrant.Config{
		Java:            cfg.Engine.Java,
		Home:            cfg.Engine.Home,
		InferCommand:    cfg.Engine.InferCommand,
		ValidateCommand: cfg.Engine.ValidateCommand,
		NoImports:       cfg.Engine.NoImports,
		MaxIterations:   cfg.Engine.MaxIterations,
	}, logger)
	if err != nil {
		return nil, err
	}

	return shacl.New(runner, logger), nil
}

// OptionsFromConfig maps the inference section of a configuration onto
// loop options.
func OptionsFromConfig(cfg *Config) Options {
	if cfg == nil {
		return shacl.DefaultOptions()
	}
	return Options{
		MinIterations:       cfg.Inference.MinIterations,
		MaxIterations:       cfg.Inference.MaxIterations,
		EarlyIsomorphicExit: cfg.Inference.EarlyIsomorphicExit,
	}
}

// Infer runs one inference over a default-configured engine. Callers with
// more than one operation to run should build an Engine once with New.
func Infer(ctx context.Context, data, ontologies *Graph, opts Options) (*Graph, error) {
	eng, err := New(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return eng.Infer(ctx, data, ontologies, opts)
}

// Validate runs one validation over a default-configured engine.
func Validate(ctx context.Context, data, shapes *Graph, opts Options) (*Report, error) {
	eng, err := New(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return eng.Validate(ctx, data, shapes, opts)
}
