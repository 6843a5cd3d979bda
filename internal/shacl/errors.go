package shacl

import "fmt"

// ParseError reports that engine output could not be parsed as a graph.
// Diagnostics carries the log lines filtered out of the same invocation,
// which usually name the actual failure. Parse failures are never retried;
// they surface directly to the caller.
type ParseError struct {
	// Stage is "inference" or "validation".
	Stage       string
	Diagnostics string
	Err         error
}

func (e *ParseError) Error() string {
	if e.Diagnostics == "" {
		return fmt.Sprintf("engine %s output is not a parseable graph: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("engine %s output is not a parseable graph: %v\nengine diagnostics:\n%s",
		e.Stage, e.Err, e.Diagnostics)
}

func (e *ParseError) Unwrap() error { return e.Err }
