package shacl

import (
	"sort"
	"strconv"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"

	"tqshacl/internal/rdfio"
)

// Report is the outcome of a validation run: the verdict, the raw report
// graph the engine produced, and a rendered text form of it.
type Report struct {
	Conforms bool
	Graph    *rdfio.Graph
	Text     string
}

// Conforms reads the verdict out of a validation report graph.
//
// A graph with no violation-severity results passes. A graph that carries
// violations still passes when it also asserts sh:conforms true; engine
// output is trusted over result counting. Only a report with violations
// and no conforming assertion fails.
func Conforms(report *rdfio.Graph) bool {
	if report == nil {
		return true
	}
	if len(report.Subjects(rdfio.SHResultSeverity, rdfio.SHViolation)) == 0 {
		return true
	}
	for _, t := range report.Match(nil, rdfio.SHConforms, nil) {
		if rdfio.IsTrueLiteral(t.O) {
			return true
		}
	}
	return false
}

var reportFields = []struct {
	label string
	pred  rdf.IRI
}{
	{"Severity", rdfio.SHResultSeverity},
	{"Focus Node", rdfio.SHFocusNode},
	{"Result Path", rdfio.SHResultPath},
	{"Value", rdfio.SHValue},
	{"Message", rdfio.SHResultMessage},
	{"Source Constraint", rdfio.SHSourceConstraintComponent},
	{"Source Shape", rdfio.SHSourceShape},
}

// PrettyPrint renders a validation report graph as human-readable text,
// one block per validation result.
func PrettyPrint(report *rdfio.Graph) string {
	var b strings.Builder
	b.WriteString("Validation Report\n")
	if Conforms(report) {
		b.WriteString("Conforms: True\n")
	} else {
		b.WriteString("Conforms: False\n")
	}
	if report == nil {
		return b.String()
	}

	results := resultNodes(report)
	if len(results) == 0 {
		return b.String()
	}

	b.WriteString("Results (")
	b.WriteString(strconv.Itoa(len(results)))
	b.WriteString("):\n")
	for _, node := range results {
		constraint := "Constraint Violation"
		if c, ok := report.FirstObject(node, rdfio.SHSourceConstraintComponent); ok {
			constraint = displayTerm(c)
		}
		b.WriteString("Validation Result in ")
		b.WriteString(constraint)
		b.WriteString(":\n")
		for _, f := range reportFields {
			for _, t := range report.Match(node, f.pred, nil) {
				b.WriteString("\t")
				b.WriteString(f.label)
				b.WriteString(": ")
				b.WriteString(displayTerm(t.O))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// resultNodes collects the distinct validation result nodes, whether they
// are linked from a report node via sh:result or only typed as
// sh:ValidationResult, in a stable order.
func resultNodes(report *rdfio.Graph) []rdf.Term {
	seen := map[string]rdf.Term{}
	for _, t := range report.Match(nil, rdfio.SHResult, nil) {
		seen[t.O.String()] = t.O
	}
	for _, s := range report.Subjects(rdfio.RDFType, rdfio.SHValidationResult) {
		seen[s.String()] = s
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	nodes := make([]rdf.Term, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, seen[k])
	}
	return nodes
}

var displayPrefixes = map[string]string{
	rdfio.SHNS:   "sh:",
	rdfio.RDFNS:  "rdf:",
	rdfio.RDFSNS: "rdfs:",
	rdfio.OWLNS:  "owl:",
	rdfio.XSDNS:  "xsd:",
}

func displayTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		for ns, prefix := range displayPrefixes {
			if strings.HasPrefix(v.Value, ns) {
				return prefix + strings.TrimPrefix(v.Value, ns)
			}
		}
		return v.Value
	case rdf.Literal:
		return v.Lexical
	default:
		return t.String()
	}
}
