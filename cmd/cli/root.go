package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "codelens analyses code changes structurally and against rule packs",
	Long: `codelens turns a diff or a working tree into structural summaries,
rule-based findings, and prompt-ready context bundles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Bad flags and bad arguments are usage errors (exit code 2), not
	// internal failures.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(updateRulesCmd)
}
