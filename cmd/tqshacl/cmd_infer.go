package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tqshacl/pkg/shacl"
)

var (
	inferDataPath      string
	inferOntologyPaths []string
	inferOutPath       string
	inferMinIterations int
	inferMaxIterations int
	inferEarlyExit     bool
)

// inferCmd materializes rule entailments
var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Materialize SHACL rule entailments into the data graph",
	Long: `Runs the engine's rule inference to a fixed point and writes the
enriched data graph: the input triples plus everything the rules entail.

Example:
  tqshacl infer -d data.ttl -o ontology.ttl -O enriched.ttl`,
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().StringVarP(&inferDataPath, "data", "d", "", "Data graph file (required)")
	inferCmd.Flags().StringSliceVarP(&inferOntologyPaths, "ontology", "o", nil, "Ontology graph file (repeatable)")
	inferCmd.Flags().StringVarP(&inferOutPath, "out", "O", "", "Output file (default: turtle on stdout)")
	inferCmd.Flags().IntVar(&inferMinIterations, "min-iterations", 0, "Minimum engine passes (default from config)")
	inferCmd.Flags().IntVar(&inferMaxIterations, "max-iterations", 0, "Maximum engine passes (default from config)")
	inferCmd.Flags().BoolVar(&inferEarlyExit, "early-exit", false, "Stop when successive inference deltas are isomorphic")
	inferCmd.MarkFlagRequired("data")
}

func runInfer(cmd *cobra.Command, args []string) error {
	ctx, cancel := watchSignals(cmd.Context())
	defer cancel()

	data, err := shacl.ReadFile(ctx, inferDataPath)
	if err != nil {
		return fmt.Errorf("failed to read data graph: %w", err)
	}
	ontologies, err := readUnion(ctx, inferOntologyPaths)
	if err != nil {
		return fmt.Errorf("failed to read ontology graph: %w", err)
	}

	eng, err := shacl.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := shacl.OptionsFromConfig(cfg)
	if cmd.Flags().Changed("min-iterations") {
		opts.MinIterations = inferMinIterations
	}
	if cmd.Flags().Changed("max-iterations") {
		opts.MaxIterations = inferMaxIterations
	}
	if cmd.Flags().Changed("early-exit") {
		opts.EarlyIsomorphicExit = inferEarlyExit
	}

	logger.Info("Running inference",
		zap.String("data", inferDataPath),
		zap.Strings("ontologies", inferOntologyPaths),
		zap.Int("input_triples", data.Len()))

	result, err := eng.Infer(ctx, data, ontologies, opts)
	if err != nil {
		return err
	}

	return writeGraphOutput(ctx, inferOutPath, result)
}

// watchSignals cancels the returned context on SIGINT or SIGTERM so a
// running engine subprocess is killed with the CLI.
func watchSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()
	return ctx, cancel
}

// readUnion loads zero or more graph files into one merged graph. No paths
// means no graph.
func readUnion(ctx context.Context, paths []string) (*shacl.Graph, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	merged := shacl.NewGraph()
	for _, path := range paths {
		g, err := shacl.ReadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		merged.AddAll(g)
	}
	return merged, nil
}

// writeGraphOutput writes the graph to path, or as turtle to stdout when
// path is empty.
func writeGraphOutput(ctx context.Context, path string, g *shacl.Graph) error {
	if path == "" {
		ttl, err := shacl.EncodeTurtle(ctx, g)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(ttl)
		return err
	}
	if err := shacl.WriteFile(ctx, path, g); err != nil {
		return fmt.Errorf("failed to write output graph: %w", err)
	}
	logger.Info("Wrote output graph", zap.String("path", path), zap.Int("triples", g.Len()))
	return nil
}
