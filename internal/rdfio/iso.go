package rdfio

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// Isomorphic reports whether a and b contain the same triples up to blank
// node relabeling. Ground triples are compared as sets; blank nodes are
// matched by iterative signature hashing over their neighborhoods (color
// refinement). Like the comparators in the major RDF toolkits this is a
// canonical-hash approximation: isomorphic graphs always compare equal,
// while only pathological automorphic constructions could compare equal
// without being isomorphic. Inference deltas and validation reports are
// nowhere near that regime.
func Isomorphic(a, b *Graph) bool {
	if a == nil {
		a = NewGraph()
	}
	if b == nil {
		b = NewGraph()
	}
	if a.Len() != b.Len() {
		return false
	}

	groundA, blankA := partitionGround(a)
	groundB, blankB := partitionGround(b)
	if len(groundA) != len(groundB) || len(blankA) != len(blankB) {
		return false
	}
	if !equalSorted(groundA, groundB) {
		return false
	}
	if len(blankA) == 0 {
		return true
	}
	return canonicalBlankForm(blankA) == canonicalBlankForm(blankB)
}

// partitionGround splits g into rendered ground triples (sorted) and the
// triples containing at least one blank node.
func partitionGround(g *Graph) ([]string, []rdf.Triple) {
	var ground []string
	var blank []rdf.Triple
	for _, t := range g.Triples() {
		if isBlank(t.S) || isBlank(t.O) {
			blank = append(blank, t)
			continue
		}
		ground = append(ground, termKey(t.S)+" "+termKey(t.P)+" "+termKey(t.O))
	}
	sort.Strings(ground)
	return ground, blank
}

func isBlank(t rdf.Term) bool {
	_, ok := t.(rdf.BlankNode)
	return ok
}

type blankEdge struct {
	pos   string // "s" when the blank node is the subject, "o" otherwise
	pred  string
	other rdf.Term
}

// canonicalBlankForm computes a label-independent rendering of the blank
// node triples. Blank nodes start in one color class and are refined by
// hashing their incident edges; refinement only ever splits classes, so the
// partition is stable as soon as the class count stops growing.
func canonicalBlankForm(triples []rdf.Triple) string {
	edges := make(map[string][]blankEdge)
	for _, t := range triples {
		if bn, ok := t.S.(rdf.BlankNode); ok {
			edges[bn.ID] = append(edges[bn.ID], blankEdge{pos: "s", pred: termKey(t.P), other: t.O})
		}
		if bn, ok := t.O.(rdf.BlankNode); ok {
			edges[bn.ID] = append(edges[bn.ID], blankEdge{pos: "o", pred: termKey(t.P), other: t.S})
		}
	}

	colors := make(map[string]string, len(edges))
	for id := range edges {
		colors[id] = ""
	}
	prevDistinct := 1
	for round := 0; round <= len(edges); round++ {
		next := make(map[string]string, len(colors))
		for id, incident := range edges {
			sigs := make([]string, 0, len(incident))
			for _, e := range incident {
				sigs = append(sigs, e.pos+"|"+e.pred+"|"+colorOrKey(e.other, colors))
			}
			sort.Strings(sigs)
			next[id] = hashString(colors[id] + "\n" + strings.Join(sigs, "\n"))
		}
		colors = next
		d := distinctValues(colors)
		if d == prevDistinct {
			break
		}
		prevDistinct = d
	}

	lines := make([]string, 0, len(triples))
	for _, t := range triples {
		lines = append(lines, colorOrKey(t.S, colors)+" "+termKey(t.P)+" "+colorOrKey(t.O, colors))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func colorOrKey(t rdf.Term, colors map[string]string) string {
	if bn, ok := t.(rdf.BlankNode); ok {
		return "?" + colors[bn.ID]
	}
	return termKey(t)
}

func distinctValues(m map[string]string) int {
	seen := make(map[string]struct{}, len(m))
	for _, v := range m {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func equalSorted(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
