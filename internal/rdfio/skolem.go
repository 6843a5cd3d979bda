package rdfio

import (
	"net/url"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// DefaultSkolemBase is the URI prefix minted for skolemized blank nodes.
// A URN keeps generated identifiers out of resolvable HTTP space.
const DefaultSkolemBase = "urn:skolem:"

// Skolemizer rewrites blank nodes to stable IRIs and back. The mapping is a
// bijection: Deskolemize(Skolemize(g)) carries the original blank node
// identifiers. Blank nodes survive the round trip through an external
// process that has no notion of the caller's blank node scope.
//
// The strategy is an explicit value handed to the engine, not process-wide
// state, so alternate bases can be injected where generated IRIs must not
// collide with data under the default base.
type Skolemizer struct {
	base string
}

// NewSkolemizer returns a skolemizer minting IRIs under base. An empty base
// selects DefaultSkolemBase.
func NewSkolemizer(base string) *Skolemizer {
	if base == "" {
		base = DefaultSkolemBase
	}
	return &Skolemizer{base: base}
}

// Base returns the URI prefix this skolemizer mints under.
func (s *Skolemizer) Base() string {
	return s.base
}

// Skolemize returns a copy of g with every blank node replaced by a skolem
// IRI. g is not modified.
func (s *Skolemizer) Skolemize(g *Graph) *Graph {
	out := NewGraph()
	for _, t := range g.Triples() {
		out.Add(rdf.Triple{S: s.encode(t.S), P: t.P, O: s.encode(t.O)})
	}
	return out
}

// Deskolemize returns a copy of g with every skolem IRI under this
// skolemizer's base replaced by its original blank node. Other IRIs pass
// through untouched.
func (s *Skolemizer) Deskolemize(g *Graph) *Graph {
	out := NewGraph()
	for _, t := range g.Triples() {
		out.Add(rdf.Triple{S: s.decode(t.S), P: t.P, O: s.decode(t.O)})
	}
	return out
}

// IsSkolem reports whether t is an IRI minted by this skolemizer.
func (s *Skolemizer) IsSkolem(t rdf.Term) bool {
	iri, ok := t.(rdf.IRI)
	return ok && strings.HasPrefix(iri.Value, s.base)
}

func (s *Skolemizer) encode(t rdf.Term) rdf.Term {
	b, ok := t.(rdf.BlankNode)
	if !ok {
		return t
	}
	return rdf.IRI{Value: s.base + url.PathEscape(b.ID)}
}

func (s *Skolemizer) decode(t rdf.Term) rdf.Term {
	if !s.IsSkolem(t) {
		return t
	}
	id, err := url.PathUnescape(strings.TrimPrefix(t.(rdf.IRI).Value, s.base))
	if err != nil {
		// Not one of ours after all; leave the IRI alone.
		return t
	}
	return rdf.BlankNode{ID: id}
}
