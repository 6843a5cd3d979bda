package shacl

import (
	"github.com/geoknoesis/rdf-go/rdf"

	"tqshacl/internal/rdfio"
)

// RemoveImports extracts every owl:imports triple from g, removing them
// from the graph and returning them for restoration. An empty result is
// valid: a graph without imports passes through unchanged.
//
// The engine must see a self-contained input; an owl:imports statement
// would send it resolving ontologies on its own, outside the caller's
// control.
func RemoveImports(g *rdfio.Graph) []rdf.Triple {
	if g == nil {
		return nil
	}
	removed := g.Match(nil, rdfio.OWLImports, nil)
	for _, t := range removed {
		g.Remove(t)
	}
	return removed
}

// RestoreImports re-adds triples previously returned by RemoveImports.
// RestoreImports(g, RemoveImports(g)) leaves g's triple set exactly as it
// was; restoration is exact, not approximate. Callers pair the two with
// defer so the graph is whole again on every path out of an operation.
func RestoreImports(g *rdfio.Graph, imports []rdf.Triple) {
	if g == nil {
		return
	}
	for _, t := range imports {
		g.Add(t)
	}
}
