package main

import (
	"github.com/spf13/cobra"

	"github.com/xrdlab/omegascan/internal/cli"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <analysis.yml>",
	Short: "Print the fully-resolved analysis configuration",
	Long: `Print an analysis configuration with every default filled and every
relative path resolved against the working directory, exactly as the
analysis engine will see it.

Examples:
  omegascan show analysis.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.ShowRun(args[0], cli.ShowOptions{Verbose: verbose})
	},
}
