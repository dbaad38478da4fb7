package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	flagConfig string
	flagDebug  bool

	rootCmd = &cobra.Command{
		Use:   "reap",
		Short: "Multi-cloud resource reclamation",
		Long: `Reap - Multi-cloud resource reclamation

Reap sweeps AWS, Azure and GCP for resources left behind by test and
performance runs and deletes or stops the ones that match your
criteria: tags, name patterns, age thresholds and lifecycle states.

Dry-run first. Always.`,
		Version: version,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Reap {{.Version}}
`)
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reap %s\n", version)
		},
	})
}
