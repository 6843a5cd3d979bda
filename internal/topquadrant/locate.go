package topquadrant

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrEngineNotFound reports that no launcher script could be resolved for a
// mode.
var ErrEngineNotFound = errors.New("topquadrant shacl launcher not found")

// launcherNames returns the candidate launcher file names for a mode, most
// specific first. The distribution ships .sh scripts for Unix and .bat
// files for Windows.
func launcherNames(mode Mode) []string {
	base := "shaclinfer"
	if mode == ModeValidate {
		base = "shaclvalidate"
	}
	if runtime.GOOS == "windows" {
		return []string{base + ".bat", base}
	}
	return []string{base + ".sh", base}
}

// Locate resolves the launcher for a mode. Resolution order: the explicit
// command override, then <Home>/bin, then $SHACL_HOME/bin, then PATH.
func Locate(mode Mode, cfg Config) (string, error) {
	override := cfg.InferCommand
	if mode == ModeValidate {
		override = cfg.ValidateCommand
	}
	if override != "" {
		return override, nil
	}

	names := launcherNames(mode)

	for _, home := range []string{cfg.Home, os.Getenv("SHACL_HOME")} {
		if home == "" {
			continue
		}
		for _, name := range names {
			candidate := filepath.Join(home, "bin", name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s (set SHACL_HOME or configure the engine commands)",
		ErrEngineNotFound, strings.Join(names, ", "))
}
