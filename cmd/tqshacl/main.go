package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tqshacl/internal/logging"
	"tqshacl/internal/topquadrant"
	"tqshacl/pkg/shacl"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded config and logger, shared by all subcommands
	cfg    *shacl.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tqshacl",
	Short: "tqshacl - SHACL inference and validation via the TopQuadrant engine",
	Long: `tqshacl drives the TopQuadrant SHACL engine from the command line.

It wraps the engine's shaclinfer and shaclvalidate launchers with a
fixed-point inference loop, owl:imports suppression, and blank-node-safe
serialization, so rule entailment and constraint checking behave the same
way here as through the library API.

Graphs are read and written by file extension (.ttl, .nt, .trig, .nq,
.rdf, .jsonld); the report text always goes to stdout.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = shacl.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runnerConfig maps the engine section of the loaded config onto the
// runner's settings.
func runnerConfig() topquadrant.Config {
	return topquadrant.Config{
		Java:            cfg.Engine.Java,
		Home:            cfg.Engine.Home,
		InferCommand:    cfg.Engine.InferCommand,
		ValidateCommand: cfg.Engine.ValidateCommand,
		NoImports:       cfg.Engine.NoImports,
		MaxIterations:   cfg.Engine.MaxIterations,
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", shacl.DefaultConfigPath(), "Config file path")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
