package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags (available to all commands)
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omegascan",
	Short: "Validate and inspect omega-scan diffraction analysis configurations",
	Long: `omegascan works with the YAML analysis documents that drive a
rotation-series X-ray diffraction analysis.

It loads a document, fills every documented default (including the
cross-field ones derived from the image-series omega scan), resolves
relative paths against the working directory, and reports every schema
or constraint violation in one pass.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Add subcommands to root
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}
