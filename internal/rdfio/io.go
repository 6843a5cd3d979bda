package rdfio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
)

// ParseTurtle parses turtle text into a graph.
func ParseTurtle(ctx context.Context, data []byte) (*Graph, error) {
	quads, err := parseAll(ctx, bytes.NewReader(data), rdf.FormatTurtle)
	if err != nil {
		return nil, fmt.Errorf("parse turtle: %w", err)
	}
	return fromQuads(quads), nil
}

// EncodeTurtle serializes a graph as turtle.
func EncodeTurtle(ctx context.Context, g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := serializeAll(ctx, &buf, rdf.FormatTurtle, g.Quads()); err != nil {
		return nil, fmt.Errorf("encode turtle: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadFile loads a graph from a file, resolving the format from the file
// extension (.ttl, .nt, .rdf, .jsonld, ...). Quads in named graphs are
// flattened into the default graph.
func ReadFile(ctx context.Context, path string) (*Graph, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	quads, err := parseAll(ctx, f, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fromQuads(quads), nil
}

// WriteFile serializes a graph to a file, resolving the format from the
// file extension.
func WriteFile(ctx context.Context, path string, g *Graph) error {
	format, err := formatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph file: %w", err)
	}
	if err := serializeAll(ctx, f, format, g.Quads()); err != nil {
		f.Close()
		return fmt.Errorf("serialize %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}

// formatFromPath resolves a concrete RDF format from a path's extension.
func formatFromPath(path string) (rdf.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	format, ok := rdf.ParseFormat(ext)
	if ext == "" || !ok || format == rdf.FormatAuto {
		return rdf.FormatAuto, fmt.Errorf("cannot resolve RDF format from path %q", path)
	}
	return format, nil
}

// parseAll collects every statement in the input as a quad.
func parseAll(ctx context.Context, r io.Reader, format rdf.Format) ([]rdf.Quad, error) {
	var quads []rdf.Quad
	err := rdf.Parse(ctx, r, format, func(s rdf.Statement) error {
		quads = append(quads, s.AsQuad())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quads, nil
}

// serializeAll streams quads to w in the given format. Triple formats drop
// the graph component.
func serializeAll(ctx context.Context, w io.Writer, format rdf.Format, quads []rdf.Quad) error {
	enc, err := rdf.NewWriter(w, format, rdf.OptContext(ctx))
	if err != nil {
		return err
	}
	for _, q := range quads {
		if err := enc.Write(q.ToStatement()); err != nil {
			return err
		}
	}
	return enc.Close()
}

func fromQuads(quads []rdf.Quad) *Graph {
	g := NewGraph()
	for _, q := range quads {
		g.Add(q.ToTriple())
	}
	return g
}
