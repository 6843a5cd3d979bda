package rdfio

import "github.com/geoknoesis/rdf-go/rdf"

// Namespaces the pipeline touches.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	SHNS   = "http://www.w3.org/ns/shacl#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
)

// Terms queried or asserted by the inference loop and report interpreter.
var (
	RDFType = rdf.IRI{Value: RDFNS + "type"}

	OWLImports  = rdf.IRI{Value: OWLNS + "imports"}
	OWLOntology = rdf.IRI{Value: OWLNS + "Ontology"}

	SHValidationReport          = rdf.IRI{Value: SHNS + "ValidationReport"}
	SHValidationResult          = rdf.IRI{Value: SHNS + "ValidationResult"}
	SHConforms                  = rdf.IRI{Value: SHNS + "conforms"}
	SHResult                    = rdf.IRI{Value: SHNS + "result"}
	SHResultSeverity            = rdf.IRI{Value: SHNS + "resultSeverity"}
	SHViolation                 = rdf.IRI{Value: SHNS + "Violation"}
	SHWarning                   = rdf.IRI{Value: SHNS + "Warning"}
	SHInfo                      = rdf.IRI{Value: SHNS + "Info"}
	SHFocusNode                 = rdf.IRI{Value: SHNS + "focusNode"}
	SHResultMessage             = rdf.IRI{Value: SHNS + "resultMessage"}
	SHResultPath                = rdf.IRI{Value: SHNS + "resultPath"}
	SHValue                     = rdf.IRI{Value: SHNS + "value"}
	SHSourceConstraintComponent = rdf.IRI{Value: SHNS + "sourceConstraintComponent"}
	SHSourceShape               = rdf.IRI{Value: SHNS + "sourceShape"}

	XSDBoolean = rdf.IRI{Value: XSDNS + "boolean"}
)

// BoolLiteral returns an xsd:boolean literal for v.
func BoolLiteral(v bool) rdf.Literal {
	lex := "false"
	if v {
		lex = "true"
	}
	return rdf.Literal{Lexical: lex, Datatype: XSDBoolean}
}

// IsTrueLiteral reports whether t is a literal meaning boolean true.
// Both the canonical "true" and the alternate "1" lexical form count.
func IsTrueLiteral(t rdf.Term) bool {
	lit, ok := t.(rdf.Literal)
	if !ok {
		return false
	}
	if lit.Datatype.Value != "" && lit.Datatype.Value != XSDBoolean.Value {
		return false
	}
	return lit.Lexical == "true" || lit.Lexical == "1"
}
