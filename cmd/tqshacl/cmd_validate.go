package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tqshacl/pkg/shacl"
)

var (
	validateDataPath    string
	validateShapesPaths []string
	validateReportPath  string
)

var errNotConforming = errors.New("data does not conform to the shapes")

// validateCmd checks data against shapes
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the data graph against SHACL shapes",
	Long: `Runs rule inference first, then checks the enriched data graph
against the shapes. The report text goes to stdout; the full report graph
can be written with --report.

Exits non-zero when the data does not conform.

Example:
  tqshacl validate -d data.ttl -s shapes.ttl --report report.ttl`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateDataPath, "data", "d", "", "Data graph file (required)")
	validateCmd.Flags().StringSliceVarP(&validateShapesPaths, "shapes", "s", nil, "Shapes graph file (repeatable)")
	validateCmd.Flags().StringVarP(&validateReportPath, "report", "r", "", "Write the report graph to this file")
	validateCmd.MarkFlagRequired("data")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := watchSignals(cmd.Context())
	defer cancel()

	data, err := shacl.ReadFile(ctx, validateDataPath)
	if err != nil {
		return fmt.Errorf("failed to read data graph: %w", err)
	}
	shapes, err := readUnion(ctx, validateShapesPaths)
	if err != nil {
		return fmt.Errorf("failed to read shapes graph: %w", err)
	}

	eng, err := shacl.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Running validation",
		zap.String("data", validateDataPath),
		zap.Strings("shapes", validateShapesPaths))

	report, err := eng.Validate(ctx, data, shapes, shacl.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Print(report.Text)

	if validateReportPath != "" {
		if err := shacl.WriteFile(ctx, validateReportPath, report.Graph); err != nil {
			return fmt.Errorf("failed to write report graph: %w", err)
		}
		logger.Info("Wrote report graph", zap.String("path", validateReportPath))
	}

	if !report.Conforms {
		// A verdict, not a usage mistake: exit non-zero without help text.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errNotConforming
	}
	return nil
}
