package topquadrant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrJavaNotFound reports that no usable Java runtime answered the probe.
// The launcher scripts cannot run without one.
var ErrJavaNotFound = errors.New("java runtime not found")

// CheckJava probes the Java runtime by running `java -version`. An empty
// binary name probes "java" from PATH.
func CheckJava(ctx context.Context, java string) error {
	if java == "" {
		java = "java"
	}
	cmd := exec.CommandContext(ctx, java, "-version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrJavaNotFound, java, err)
	}
	return nil
}

// JavaVersion returns the first line `java -version` reports, for
// environment diagnostics. JDKs print version information on stderr.
func JavaVersion(ctx context.Context, java string) (string, error) {
	if java == "" {
		java = "java"
	}
	cmd := exec.CommandContext(ctx, java, "-version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrJavaNotFound, java, err)
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}
