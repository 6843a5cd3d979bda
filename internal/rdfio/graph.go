// Package rdfio provides the in-memory RDF graph substrate used by the
// inference and validation pipeline: a mutable triple set with set algebra,
// the vocabulary terms the pipeline queries for, skolemization, isomorphism
// comparison, and turtle round-tripping on top of rdf-go's codecs.
package rdfio

import (
	"sort"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// tripleKey identifies a triple inside a Graph. Term kinds are part of the
// key so an IRI and a literal with the same lexical form cannot collide.
type tripleKey struct {
	s, p, o string
}

func termKey(t rdf.Term) string {
	if t == nil {
		return ""
	}
	return string('0'+byte(t.Kind())) + t.String()
}

func keyOf(t rdf.Triple) tripleKey {
	return tripleKey{s: termKey(t.S), p: termKey(t.P), o: termKey(t.O)}
}

// Graph is a mutable set of triples. It is not safe for concurrent use;
// one operation owns a graph at a time.
type Graph struct {
	triples map[tripleKey]rdf.Triple
}

// NewGraph returns a graph containing the given triples.
func NewGraph(triples ...rdf.Triple) *Graph {
	g := &Graph{triples: make(map[tripleKey]rdf.Triple, len(triples))}
	for _, t := range triples {
		g.Add(t)
	}
	return g
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Add inserts a triple. Adding an existing triple is a no-op.
func (g *Graph) Add(t rdf.Triple) {
	g.triples[keyOf(t)] = t
}

// Remove deletes a triple and reports whether it was present.
func (g *Graph) Remove(t rdf.Triple) bool {
	k := keyOf(t)
	if _, ok := g.triples[k]; !ok {
		return false
	}
	delete(g.triples, k)
	return true
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t rdf.Triple) bool {
	_, ok := g.triples[keyOf(t)]
	return ok
}

// AddAll inserts every triple of other into g.
func (g *Graph) AddAll(other *Graph) {
	if other == nil {
		return
	}
	for k, t := range other.triples {
		g.triples[k] = t
	}
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{triples: make(map[tripleKey]rdf.Triple, len(g.triples))}
	for k, t := range g.triples {
		out.triples[k] = t
	}
	return out
}

// Union returns a new graph holding the triples of both graphs. Neither
// input is modified.
func (g *Graph) Union(other *Graph) *Graph {
	out := g.Clone()
	out.AddAll(other)
	return out
}

// Triples returns the graph's triples in a stable order (sorted by subject,
// predicate, object). The order does not change between calls unless the
// graph is mutated.
func (g *Graph) Triples() []rdf.Triple {
	keys := make([]tripleKey, 0, len(g.triples))
	for k := range g.triples {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.s != b.s {
			return a.s < b.s
		}
		if a.p != b.p {
			return a.p < b.p
		}
		return a.o < b.o
	})
	out := make([]rdf.Triple, len(keys))
	for i, k := range keys {
		out[i] = g.triples[k]
	}
	return out
}

// Quads returns the graph's triples as default-graph quads, in the same
// stable order as Triples.
func (g *Graph) Quads() []rdf.Quad {
	ts := g.Triples()
	out := make([]rdf.Quad, len(ts))
	for i, t := range ts {
		out[i] = t.ToQuad()
	}
	return out
}

// Match returns the triples matching the given pattern in stable order.
// A nil term is a wildcard.
func (g *Graph) Match(s, p, o rdf.Term) []rdf.Triple {
	var out []rdf.Triple
	sk, pk, okey := termKey(s), termKey(p), termKey(o)
	for k, t := range g.triples {
		if s != nil && k.s != sk {
			continue
		}
		if p != nil && k.p != pk {
			continue
		}
		if o != nil && k.o != okey {
			continue
		}
		out = append(out, t)
	}
	sortTriples(out)
	return out
}

// Subjects returns the distinct subjects of triples matching (?, p, o),
// in stable order. Nil terms are wildcards.
func (g *Graph) Subjects(p, o rdf.Term) []rdf.Term {
	seen := make(map[string]rdf.Term)
	for _, t := range g.Match(nil, p, o) {
		seen[termKey(t.S)] = t.S
	}
	return sortedTerms(seen)
}

// Objects returns the distinct objects of triples matching (s, p, ?),
// in stable order. Nil terms are wildcards.
func (g *Graph) Objects(s, p rdf.Term) []rdf.Term {
	seen := make(map[string]rdf.Term)
	for _, t := range g.Match(s, p, nil) {
		seen[termKey(t.O)] = t.O
	}
	return sortedTerms(seen)
}

// FirstObject returns one object of (s, p, ?), the first in stable order,
// and whether any exists.
func (g *Graph) FirstObject(s, p rdf.Term) (rdf.Term, bool) {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

func sortTriples(ts []rdf.Triple) {
	sort.Slice(ts, func(i, j int) bool {
		a, b := keyOf(ts[i]), keyOf(ts[j])
		if a.s != b.s {
			return a.s < b.s
		}
		if a.p != b.p {
			return a.p < b.p
		}
		return a.o < b.o
	})
}

func sortedTerms(m map[string]rdf.Term) []rdf.Term {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]rdf.Term, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// String renders the graph for debugging: one N-Triples-like line per
// triple in stable order.
func (g *Graph) String() string {
	var b strings.Builder
	for _, t := range g.Triples() {
		b.WriteString(renderTerm(t.S))
		b.WriteByte(' ')
		b.WriteString(renderTerm(t.P))
		b.WriteByte(' ')
		b.WriteString(renderTerm(t.O))
		b.WriteString(" .\n")
	}
	return b.String()
}

func renderTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<" + v.Value + ">"
	default:
		return t.String()
	}
}
