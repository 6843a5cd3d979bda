package shacl

import (
	"context"
	"testing"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive the real TopQuadrant engine and skip when the Java
// runtime or the engine launchers are not installed.

const sensorShapes = `@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix ex: <http://example.org/> .

ex:SensorShape
    a sh:NodeShape ;
    sh:targetClass ex:Sensor ;
    sh:property [ sh:path ex:measures ; sh:minCount 1 ] .
`

const sensorRules = `@prefix sh: <http://www.w3.org/ns/shacl#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix ex: <http://example.org/> .

ex:SensorRule
    a sh:NodeShape ;
    sh:targetClass ex:Sensor ;
    sh:rule [
        a sh:TripleRule ;
        sh:subject sh:this ;
        sh:predicate rdf:type ;
        sh:object ex:Device
    ] .
`

func requireEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(context.Background(), nil, nil)
	if err != nil {
		t.Skipf("external engine unavailable: %v", err)
	}
	return eng
}

func mustParse(t *testing.T, ttl string) *Graph {
	t.Helper()
	g, err := ParseTurtle(context.Background(), []byte(ttl))
	require.NoError(t, err)
	return g
}

func TestValidateReportsMissingMeasurement(t *testing.T) {
	eng := requireEngine(t)

	data := mustParse(t, `@prefix ex: <http://example.org/> .
ex:sensor1 a ex:Sensor ; ex:measures ex:Temperature .
ex:sensor2 a ex:Sensor .
`)
	shapes := mustParse(t, sensorShapes)

	report, err := eng.Validate(context.Background(), data, shapes, DefaultOptions())
	require.NoError(t, err)

	assert.False(t, report.Conforms)
	assert.Contains(t, report.Text, "Conforms: False")
	assert.Contains(t, report.Text, "http://example.org/sensor2")
	assert.NotContains(t, report.Text, "http://example.org/sensor1")
}

func TestValidateConformingSensors(t *testing.T) {
	eng := requireEngine(t)

	data := mustParse(t, `@prefix ex: <http://example.org/> .
ex:sensor1 a ex:Sensor ; ex:measures ex:Temperature .
ex:sensor2 a ex:Sensor ; ex:measures ex:Humidity .
`)
	shapes := mustParse(t, sensorShapes)

	report, err := eng.Validate(context.Background(), data, shapes, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, report.Conforms)
	assert.Contains(t, report.Text, "Conforms: True")
}

func TestInferMaterializesTripleRule(t *testing.T) {
	eng := requireEngine(t)

	data := mustParse(t, `@prefix ex: <http://example.org/> .
ex:sensor1 a ex:Sensor .
`)
	rules := mustParse(t, sensorRules)

	result, err := eng.Infer(context.Background(), data, rules, DefaultOptions())
	require.NoError(t, err)

	inferred := rdf.Triple{
		S: rdf.IRI{Value: "http://example.org/sensor1"},
		P: rdf.IRI{Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		O: rdf.IRI{Value: "http://example.org/Device"},
	}
	assert.True(t, result.Has(inferred), "rule output missing:\n%s", result)
}
