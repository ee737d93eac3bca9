// Command hipify is the CLI entry point for the source-to-source translator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string //nolint:gochecknoglobals // CLI flag variable

func main() {
	rootCmd := &cobra.Command{
		Use:   "hipify",
		Short: "Translate CUDA source into HIP source",
		Long:  `hipify rewrites C/C++ translation units written against CUDA into the HIP-equivalent source.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .hipify.yaml in cwd or $HOME)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(lspCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
