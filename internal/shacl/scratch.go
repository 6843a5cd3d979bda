package shacl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tqshacl/internal/rdfio"
)

// scratch is the ephemeral directory holding the serialized graphs for one
// inference or validation call. Always paired with a deferred Close so the
// tree is removed on every path out, including engine failures.
type scratch struct {
	dir string
}

func newScratch() (*scratch, error) {
	dir, err := os.MkdirTemp("", "tqshacl-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &scratch{dir: dir}, nil
}

// writeGraph serializes g as turtle under the scratch directory and returns
// the file path.
func (s *scratch) writeGraph(ctx context.Context, name string, g *rdfio.Graph) (string, error) {
	data, err := rdfio.EncodeTurtle(ctx, g)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write scratch graph: %w", err)
	}
	return path, nil
}

func (s *scratch) Close() error {
	return os.RemoveAll(s.dir)
}
