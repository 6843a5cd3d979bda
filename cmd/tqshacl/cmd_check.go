package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tqshacl/internal/topquadrant"
)

// checkCmd probes the external environment without running anything.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Java runtime and engine launchers are reachable",
	Long: `Probes the configured Java binary and locates the shaclinfer and
shaclvalidate launchers, the same way infer and validate do before running.
Exits non-zero when any of them is missing.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	engineCfg := runnerConfig()

	version, err := topquadrant.JavaVersion(cmd.Context(), engineCfg.Java)
	if err != nil {
		return fmt.Errorf("java runtime: %w", err)
	}
	fmt.Printf("java:          %s (%s)\n", engineCfg.Java, version)

	for _, mode := range []topquadrant.Mode{topquadrant.ModeInfer, topquadrant.ModeValidate} {
		path, err := topquadrant.Locate(mode, engineCfg)
		if err != nil {
			return fmt.Errorf("%s launcher: %w", mode, err)
		}
		fmt.Printf("%-14s %s\n", string(mode)+":", path)
	}

	fmt.Println("environment ok")
	return nil
}
