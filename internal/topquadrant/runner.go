// Package topquadrant runs the TopQuadrant SHACL command line tools
// (shaclinfer, shaclvalidate) as external processes. It resolves the
// launcher scripts, probes the Java runtime they need, and separates the
// turtle payload on stdout from the diagnostic noise the launchers
// interleave with it.
package topquadrant

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mode selects an engine entry point.
type Mode string

const (
	// ModeInfer runs the rule engine and emits inferred triples.
	ModeInfer Mode = "infer"
	// ModeValidate runs constraint validation and emits a report graph.
	ModeValidate Mode = "validate"
)

// Config controls how the engine is located and invoked.
type Config struct {
	// Java is the binary probed for a usable runtime. Defaults to "java".
	Java string

	// Home is the engine install directory; its bin/ subdirectory is
	// searched for the launcher scripts. Empty falls back to $SHACL_HOME,
	// then to PATH lookup.
	Home string

	// InferCommand and ValidateCommand bypass launcher resolution when set.
	InferCommand    string
	ValidateCommand string

	// NoImports passes the engine's import-suppression flag. The pipeline
	// already strips owl:imports triples from its inputs; the flag keeps
	// the engine from resolving leftover imports over the network.
	NoImports bool

	// MaxIterations is handed to the engine's own rule-iteration flag when
	// greater than zero. Zero omits the flag.
	MaxIterations int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Java:      "java",
		NoImports: true,
	}
}

// Request names the input files for one invocation.
type Request struct {
	// DataFile is the serialized data graph. Required.
	DataFile string
	// ShapesFile is the serialized shapes/rules graph. Optional; when empty
	// the engine falls back to the data file's own shape declarations.
	ShapesFile string
}

// Result carries one invocation's output. Output is stdout with the
// diagnostic lines removed; Diagnostics holds the removed lines plus
// anything written to stderr.
type Result struct {
	RequestID   string
	Mode        Mode
	Output      string
	Diagnostics []string
	ExitCode    int
	Duration    time.Duration
}

// DiagnosticText joins the diagnostics for error messages and logs.
func (r *Result) DiagnosticText() string {
	return strings.Join(r.Diagnostics, "\n")
}

// InvocationError reports that the engine process could not be run at all.
// A launched engine that exits non-zero is not an InvocationError; the
// validate launcher exits non-zero on non-conforming data as a matter of
// course and its output is still parsed.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("shacl engine invocation failed (%s): %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// Runner executes the TopQuadrant tools. It is stateless apart from the
// resolved launcher paths; one Runner may serve many sequential calls.
type Runner struct {
	cfg         Config
	inferCmd    string
	validateCmd string
	logger      *zap.Logger
}

// New resolves the engine entry points and probes the Java runtime. A
// missing runtime or launcher fails construction; per-call work never
// re-checks the environment.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Java == "" {
		cfg.Java = "java"
	}

	if err := CheckJava(ctx, cfg.Java); err != nil {
		return nil, err
	}

	inferCmd, err := Locate(ModeInfer, cfg)
	if err != nil {
		return nil, err
	}
	validateCmd, err := Locate(ModeValidate, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("shacl engine resolved",
		zap.String("infer_command", inferCmd),
		zap.String("validate_command", validateCmd))

	return &Runner{
		cfg:         cfg,
		inferCmd:    inferCmd,
		validateCmd: validateCmd,
		logger:      logger,
	}, nil
}

// Infer runs the inference entry point.
func (r *Runner) Infer(ctx context.Context, req Request) (*Result, error) {
	return r.run(ctx, ModeInfer, r.inferCmd, req)
}

// Validate runs the validation entry point.
func (r *Runner) Validate(ctx context.Context, req Request) (*Result, error) {
	return r.run(ctx, ModeValidate, r.validateCmd, req)
}

func (r *Runner) run(ctx context.Context, mode Mode, command string, req Request) (*Result, error) {
	id := uuid.NewString()
	args := r.arguments(mode, req)

	r.logger.Debug("invoking shacl engine",
		zap.String("request_id", id),
		zap.String("mode", string(mode)),
		zap.String("command", command),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = engineEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()

	result := &Result{
		RequestID: id,
		Mode:      mode,
		Duration:  time.Since(started),
	}
	result.Output, result.Diagnostics = SplitDiagnostics(stdout.String())
	for _, line := range strings.Split(stderr.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			result.Diagnostics = append(result.Diagnostics, line)
		}
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			r.logger.Error("shacl engine could not be launched",
				zap.String("request_id", id),
				zap.String("command", command),
				zap.Error(err))
			return nil, &InvocationError{Command: command, Err: err}
		}
		result.ExitCode = exitErr.ExitCode()
		r.logger.Warn("shacl engine exited non-zero",
			zap.String("request_id", id),
			zap.Int("exit_code", result.ExitCode),
			zap.Int("diagnostic_lines", len(result.Diagnostics)))
	}

	r.logger.Debug("shacl engine completed",
		zap.String("request_id", id),
		zap.String("mode", string(mode)),
		zap.Duration("duration", result.Duration),
		zap.Int("output_bytes", len(result.Output)))

	return result, nil
}

func (r *Runner) arguments(mode Mode, req Request) []string {
	args := []string{"-datafile", req.DataFile}
	if req.ShapesFile != "" {
		args = append(args, "-shapesfile", req.ShapesFile)
	}
	if r.cfg.NoImports {
		args = append(args, "-noImports")
	}
	if mode == ModeInfer && r.cfg.MaxIterations > 0 {
		args = append(args, "-maxiterations", strconv.Itoa(r.cfg.MaxIterations))
	}
	return args
}

// engineEnvKeys is the environment whitelist handed to the launchers. The
// scripts need PATH and the Java locations; the JVM wants a home and temp
// directory on both platforms.
var engineEnvKeys = []string{
	"PATH",
	"JAVA_HOME",
	"JAVA_OPTS",
	"SHACL_HOME",
	"HOME",
	"USERPROFILE",
	"TEMP",
	"TMP",
	"TMPDIR",
	"LANG",
	"LC_ALL",
}

func engineEnv() []string {
	env := make([]string, 0, len(engineEnvKeys))
	for _, key := range engineEnvKeys {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}
	return env
}
