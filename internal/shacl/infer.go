package shacl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tqshacl/internal/rdfio"
	"tqshacl/internal/topquadrant"
)

// Infer materializes the triples the ontology's rules entail from the data
// graph, by driving the external engine to a fixed point: each pass hands
// the engine the working graph united with the ontology graph, parses the
// returned delta, and merges it, until the graph stops growing or the
// iteration budget runs out.
//
// Both input graphs are borrowed. Their owl:imports triples are removed for
// the duration of the engine round trips and restored on every path out,
// success or failure. The result is a new graph carrying the merged
// triples, the caller's original blank nodes, and the data graph's import
// statements; the inputs are never the returned value.
func (e *Engine) Infer(ctx context.Context, data, ontologies *rdfio.Graph, opts Options) (*rdfio.Graph, error) {
	if data == nil {
		return nil, errors.New("infer: data graph is required")
	}
	opts = opts.normalized()
	startSize := data.Len()

	dataImports := RemoveImports(data)
	defer RestoreImports(data, dataImports)
	if ontologies != nil {
		ontImports := RemoveImports(ontologies)
		defer RestoreImports(ontologies, ontImports)
	}

	// Blank nodes cannot survive the serialization round trip with their
	// identity intact, so the loop works on a skolemized copy and maps the
	// generated IRIs back at the end.
	work := e.skolem.Skolemize(data)

	sc, err := newScratch()
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	sizeChanged := true
	iteration := 0
	var previousInferred *rdfio.Graph

	for (sizeChanged || iteration < opts.MinIterations) && iteration < opts.MaxIterations {
		payload := work
		if ontologies != nil {
			payload = work.Union(ontologies)
		}
		dataPath, err := sc.writeGraph(ctx, fmt.Sprintf("data-%d.ttl", iteration), payload)
		if err != nil {
			return nil, err
		}

		// The rules the engine applies may live in either input graph, so
		// the union serves as the shapes file as well.
		res, err := e.runner.Infer(ctx, topquadrant.Request{DataFile: dataPath, ShapesFile: dataPath})
		if err != nil {
			return nil, fmt.Errorf("inference pass %d: %w", iteration, err)
		}

		inferred, perr := rdfio.ParseTurtle(ctx, []byte(res.Output))
		if perr != nil {
			return nil, &ParseError{Stage: "inference", Diagnostics: res.DiagnosticText(), Err: perr}
		}

		if opts.EarlyIsomorphicExit && previousInferred != nil && rdfio.Isomorphic(inferred, previousInferred) {
			e.logger.Debug("inference delta isomorphic to previous pass, stopping",
				zap.Int("iteration", iteration))
			break
		}

		before := work.Len()
		work.AddAll(inferred)
		sizeChanged = work.Len() != before
		previousInferred = inferred
		iteration++

		e.logger.Debug("inference pass merged",
			zap.Int("iteration", iteration),
			zap.Int("inferred_triples", inferred.Len()),
			zap.Int("graph_size", work.Len()),
			zap.Bool("size_changed", sizeChanged))
	}

	result := e.skolem.Deskolemize(work)
	RestoreImports(result, dataImports)

	e.logger.Info("inference complete",
		zap.Int("iterations", iteration),
		zap.Int("input_triples", startSize),
		zap.Int("result_triples", result.Len()))

	return result, nil
}
