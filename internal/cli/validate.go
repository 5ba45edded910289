package cli

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/xrdlab/omegascan/internal/config"
)

// ValidateOptions holds configuration for the validate command
type ValidateOptions struct {
	Verbose bool
}

// ValidateRun loads and validates a single analysis document, printing
// every violation found. Exits nonzero when the document is invalid.
func ValidateRun(path string, opts ValidateOptions) {
	log.WithField("file", path).Debug("validating analysis document")

	cfg, err := config.LoadFile(path)
	if err != nil {
		printLoadError(err, opts.Verbose)
		os.Exit(1)
	}

	fmt.Printf("✅ %s is valid\n", path)
	if opts.Verbose {
		fmt.Printf("   Analysis: %s\n", cfg.AnalysisName)
		fmt.Printf("   Working directory: %s\n", cfg.WorkingDir)
		fmt.Printf("   Active material: %s\n", cfg.Material.Active)
		fmt.Printf("   Fit passes: %d\n", cfg.FitGrains.Passes())
		if cfg.FindOrientations.SeedSearchInert() {
			fmt.Println("   Note: seed_search is ignored (quaternion grid supplied)")
		}
	}
}

// printLoadError renders a load failure in a user-friendly format: one line
// per violated rule for validation reports, a single line otherwise.
func printLoadError(err error, verbose bool) {
	var report *config.Report
	if !errors.As(err, &report) {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return
	}

	for _, issue := range report.Issues {
		switch issue.Kind {
		case config.KindConstraint:
			fmt.Printf("❌ Constraint violation: %s %s\n", issue.Field, issue.Reason)
		default:
			fmt.Printf("❌ Schema error: %s %s\n", issue.Field, issue.Reason)
		}
	}
	if verbose {
		fmt.Printf("   %d problem(s) found\n", len(report.Issues))
	}
}
