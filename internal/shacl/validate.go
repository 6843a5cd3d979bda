package shacl

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tqshacl/internal/rdfio"
	"tqshacl/internal/topquadrant"
)

// Validate checks the data graph against the shapes graph. Inference runs
// first with the shapes as the ontology, so rule-derived triples are
// present when the constraints are checked, matching how the engine's own
// tooling chains the two modes.
//
// The returned report holds the verdict, the engine's report graph, and
// its rendered text. Both input graphs come back with their owl:imports
// intact on every path.
func (e *Engine) Validate(ctx context.Context, data, shapes *rdfio.Graph, opts Options) (*Report, error) {
	if data == nil {
		return nil, errors.New("validate: data graph is required")
	}

	inferred, err := e.Infer(ctx, data, shapes, opts)
	if err != nil {
		return nil, err
	}

	inferredImports := RemoveImports(inferred)
	defer RestoreImports(inferred, inferredImports)
	if shapes != nil {
		shapeImports := RemoveImports(shapes)
		defer RestoreImports(shapes, shapeImports)
	}

	sc, err := newScratch()
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	payload := inferred
	if shapes != nil {
		payload = inferred.Union(shapes)
	}
	req := topquadrant.Request{}
	req.DataFile, err = sc.writeGraph(ctx, "data.ttl", payload)
	if err != nil {
		return nil, err
	}
	if shapes != nil {
		req.ShapesFile, err = sc.writeGraph(ctx, "shapes.ttl", shapes)
		if err != nil {
			return nil, err
		}
	}

	res, err := e.runner.Validate(ctx, req)
	if err != nil {
		return nil, err
	}

	reportGraph, perr := rdfio.ParseTurtle(ctx, []byte(res.Output))
	if perr != nil {
		return nil, &ParseError{Stage: "validation", Diagnostics: res.DiagnosticText(), Err: perr}
	}

	report := &Report{
		Conforms: Conforms(reportGraph),
		Graph:    reportGraph,
		Text:     PrettyPrint(reportGraph),
	}

	e.logger.Info("validation complete",
		zap.Bool("conforms", report.Conforms),
		zap.Int("report_triples", reportGraph.Len()))

	return report, nil
}
