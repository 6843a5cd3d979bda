package shacl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tqshacl/internal/rdfio"
	"tqshacl/internal/topquadrant"
)

func bnode(id string) rdf.BlankNode { return rdf.BlankNode{ID: id} }

// emptyDelta is a syntactically valid engine response carrying no triples.
const emptyDelta = "@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .\n"

type fakeInvoker struct {
	inferFn    func(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error)
	validateFn func(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error)

	inferCalls    int
	validateCalls int
}

func (f *fakeInvoker) Infer(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error) {
	f.inferCalls++
	return f.inferFn(ctx, req)
}

func (f *fakeInvoker) Validate(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error) {
	f.validateCalls++
	return f.validateFn(ctx, req)
}

func inferResult(ttl string) *topquadrant.Result {
	return &topquadrant.Result{Mode: topquadrant.ModeInfer, Output: ttl}
}

func TestInferStopsWhenGraphStopsGrowing(t *testing.T) {
	data := rdfio.NewGraph(
		spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Sensor")),
		spo(iri("http://example.org/b"), rdfio.RDFType, iri("http://example.org/Sensor")),
	)

	delta := `<http://example.org/a> <http://example.org/measures> <http://example.org/Temperature> .
<http://example.org/b> <http://example.org/measures> <http://example.org/Temperature> .
`
	fake := &fakeInvoker{
		inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
			return inferResult(delta), nil
		},
	}

	result, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())
	require.NoError(t, err)

	// First pass grows the graph, second proves the fixed point.
	assert.Equal(t, 2, fake.inferCalls)
	assert.Equal(t, 4, result.Len())
	assert.True(t, result.Has(spo(
		iri("http://example.org/a"),
		iri("http://example.org/measures"),
		iri("http://example.org/Temperature"),
	)))
	assert.Equal(t, 2, data.Len(), "input graph must not absorb inferred triples")
}

func TestInferComputesRuleToFixedPoint(t *testing.T) {
	// The fake plays a triple rule: every ex:Sensor with an ex:measures value
	// is also an ex:Device. It derives from the serialized payload it is
	// handed, the way the real engine does.
	data := rdfio.NewGraph(
		spo(iri("http://example.org/s1"), rdfio.RDFType, iri("http://example.org/Sensor")),
		spo(iri("http://example.org/s1"), iri("http://example.org/measures"), iri("http://example.org/Temp")),
		spo(iri("http://example.org/s2"), rdfio.RDFType, iri("http://example.org/Sensor")),
		spo(iri("http://example.org/s2"), iri("http://example.org/measures"), iri("http://example.org/Humidity")),
		spo(iri("http://example.org/s3"), rdfio.RDFType, iri("http://example.org/Sensor")),
	)

	fake := &fakeInvoker{
		inferFn: func(ctx context.Context, req topquadrant.Request) (*topquadrant.Result, error) {
			raw, err := os.ReadFile(req.DataFile)
			if err != nil {
				return nil, err
			}
			g, err := rdfio.ParseTurtle(ctx, raw)
			if err != nil {
				return nil, err
			}
			derived := rdfio.NewGraph()
			for _, s := range g.Subjects(rdfio.RDFType, iri("http://example.org/Sensor")) {
				if len(g.Match(s, iri("http://example.org/measures"), nil)) > 0 {
					derived.Add(spo(s, rdfio.RDFType, iri("http://example.org/Device")))
				}
			}
			ttl, err := rdfio.EncodeTurtle(ctx, derived)
			if err != nil {
				return nil, err
			}
			return inferResult(string(ttl)), nil
		},
	}

	result, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())
	require.NoError(t, err)

	// The first pass derives both triples, the second re-derives the same
	// set, and the unchanged size ends the loop.
	assert.Equal(t, 2, fake.inferCalls)
	assert.Equal(t, 7, result.Len())
	assert.True(t, result.Has(spo(iri("http://example.org/s1"), rdfio.RDFType, iri("http://example.org/Device"))))
	assert.True(t, result.Has(spo(iri("http://example.org/s2"), rdfio.RDFType, iri("http://example.org/Device"))))
	assert.False(t, result.Has(spo(iri("http://example.org/s3"), rdfio.RDFType, iri("http://example.org/Device"))))
}

func TestInferHonorsMaxIterations(t *testing.T) {
	data := rdfio.NewGraph(
		spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Thing")),
	)

	call := 0
	fake := &fakeInvoker{
		inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
			call++
			return inferResult(fmt.Sprintf(
				"<http://example.org/gen/%d> <http://example.org/p> <http://example.org/o> .\n", call)), nil
		},
	}

	opts := Options{MaxIterations: 4}
	result, err := New(fake, nil).Infer(context.Background(), data, nil, opts)
	require.NoError(t, err)

	assert.Equal(t, 4, fake.inferCalls, "an ever-growing graph stops at the cap")
	assert.Equal(t, 5, result.Len())
}

func TestInferHonorsMinIterations(t *testing.T) {
	data := rdfio.NewGraph(
		spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Thing")),
	)

	fake := &fakeInvoker{
		inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
			return inferResult(emptyDelta), nil
		},
	}

	opts := Options{MinIterations: 3, MaxIterations: 10}
	result, err := New(fake, nil).Infer(context.Background(), data, nil, opts)
	require.NoError(t, err)

	assert.Equal(t, 3, fake.inferCalls, "the floor forces passes past the fixed point")
	assert.Equal(t, 1, result.Len())
}

func TestInferEarlyIsomorphicExit(t *testing.T) {
	data := rdfio.NewGraph(
		spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Thing")),
	)

	// Each pass re-labels its blank node, so plain growth detection never
	// converges: every delta looks new to the triple set.
	call := 0
	fake := &fakeInvoker{
		inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
			call++
			return inferResult(fmt.Sprintf(
				"_:gen%d <http://example.org/p> <http://example.org/o> .\n", call)), nil
		},
	}

	t.Run("without the flag the loop runs to the cap", func(t *testing.T) {
		call = 0
		fake.inferCalls = 0
		result, err := New(fake, nil).Infer(context.Background(), data.Clone(), nil, Options{MaxIterations: 5})
		require.NoError(t, err)
		assert.Equal(t, 5, fake.inferCalls)
		assert.Equal(t, 6, result.Len())
	})

	t.Run("with the flag the second identical delta stops the loop", func(t *testing.T) {
		call = 0
		fake.inferCalls = 0
		opts := Options{MaxIterations: 5, EarlyIsomorphicExit: true}
		result, err := New(fake, nil).Infer(context.Background(), data.Clone(), nil, opts)
		require.NoError(t, err)
		assert.Equal(t, 2, fake.inferCalls)
		assert.Equal(t, 2, result.Len(), "the repeated delta is detected before merging")
	})
}

func TestInferSkolemizesBlankNodesForTheEngine(t *testing.T) {
	orig := spo(bnode("obs1"), iri("http://example.org/value"), lit("21.5"))
	data := rdfio.NewGraph(orig)

	var payloads []string
	fake := &fakeInvoker{
		inferFn: func(_ context.Context, req topquadrant.Request) (*topquadrant.Result, error) {
			raw, err := os.ReadFile(req.DataFile)
			if err != nil {
				return nil, err
			}
			payloads = append(payloads, string(raw))
			assert.Equal(t, req.DataFile, req.ShapesFile, "the union file doubles as the rules file")
			return inferResult(emptyDelta), nil
		},
	}

	result, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())
	require.NoError(t, err)

	require.NotEmpty(t, payloads)
	assert.Contains(t, payloads[0], "urn:skolem:obs1")
	assert.NotContains(t, payloads[0], "_:obs1")
	assert.True(t, result.Has(orig), "the caller gets its blank node back")
	assert.True(t, data.Has(orig))
}

func TestInferMergesOntologiesIntoPayloadOnly(t *testing.T) {
	data := rdfio.NewGraph(
		spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Sensor")),
	)
	ontoImport := spo(iri("http://example.org/onto"), rdfio.OWLImports, iri("http://example.org/upstream"))
	ontologies := rdfio.NewGraph(
		spo(iri("http://example.org/Sensor"), iri("http://example.org/vocab/derives"), iri("http://example.org/vocab/Device")),
		ontoImport,
	)

	var payload string
	fake := &fakeInvoker{
		inferFn: func(_ context.Context, req topquadrant.Request) (*topquadrant.Result, error) {
			raw, err := os.ReadFile(req.DataFile)
			if err != nil {
				return nil, err
			}
			payload = string(raw)
			return inferResult(emptyDelta), nil
		},
	}

	result, err := New(fake, nil).Infer(context.Background(), data, ontologies, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, payload, "http://example.org/vocab/Device")
	assert.NotContains(t, payload, "imports", "owl:imports stays out of engine input")

	assert.Equal(t, 1, result.Len(), "ontology triples ride along for the engine, not into the result")
	assert.True(t, ontologies.Has(ontoImport), "ontology imports restored")
	assert.Equal(t, 2, ontologies.Len())
}

func TestInferRestoresImportsOnSuccessAndFailure(t *testing.T) {
	imp := spo(iri("http://example.org/data"), rdfio.OWLImports, iri("http://example.org/upstream"))
	body := spo(iri("http://example.org/a"), rdfio.RDFType, iri("http://example.org/Thing"))

	t.Run("success", func(t *testing.T) {
		data := rdfio.NewGraph(imp, body)
		fake := &fakeInvoker{
			inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
				return inferResult(emptyDelta), nil
			},
		}
		result, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, data.Has(imp))
		assert.True(t, result.Has(imp), "the result carries the data graph's imports")
	})

	t.Run("parse failure", func(t *testing.T) {
		data := rdfio.NewGraph(imp, body)
		fake := &fakeInvoker{
			inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
				return &topquadrant.Result{
					Mode:        topquadrant.ModeInfer,
					Output:      "Exception in thread \"main\" java.lang.OutOfMemoryError",
					Diagnostics: []string{"ERROR insufficient heap"},
				}, nil
			},
		}
		_, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "inference", perr.Stage)
		assert.Contains(t, perr.Diagnostics, "insufficient heap")
		assert.True(t, data.Has(imp), "imports restored on the error path")
	})

	t.Run("launch failure", func(t *testing.T) {
		data := rdfio.NewGraph(imp, body)
		launchErr := errors.New("fork/exec: no such file")
		fake := &fakeInvoker{
			inferFn: func(_ context.Context, _ topquadrant.Request) (*topquadrant.Result, error) {
				return nil, launchErr
			},
		}
		_, err := New(fake, nil).Infer(context.Background(), data, nil, DefaultOptions())

		require.ErrorIs(t, err, launchErr)
		assert.True(t, strings.Contains(err.Error(), "inference pass 0"))
		assert.True(t, data.Has(imp), "imports restored on the error path")
	})
}

func TestInferNilData(t *testing.T) {
	fake := &fakeInvoker{}
	_, err := New(fake, nil).Infer(context.Background(), nil, nil, DefaultOptions())
	require.Error(t, err)
	assert.Zero(t, fake.inferCalls)
}
