package main

import (
	"github.com/spf13/cobra"

	"github.com/xrdlab/omegascan/internal/cli"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <analysis.yml>",
	Short: "Validate an analysis configuration document",
	Long: `Validate an analysis configuration document for common issues.

This command checks for:
- Missing required fields and wrong-typed values
- Frame windows with start past stop, or a zero step
- Refinement tolerance lists of unequal length
- An orientation search period that does not span 360 degrees

Examples:
  omegascan validate analysis.yml
  omegascan validate --verbose runs/steel_704/analysis.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ValidateRun(args[0], cli.ValidateOptions{Verbose: verbose})
	},
}
