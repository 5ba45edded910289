package cli

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/xrdlab/omegascan/internal/config"
)

// ShowOptions holds configuration for the show command
type ShowOptions struct {
	Verbose bool
}

// ShowRun loads an analysis document and prints the fully-resolved
// configuration, with every default filled and every relative path
// resolved, followed by the worker count the multiprocessing policy
// resolves to on this machine.
func ShowRun(path string, opts ShowOptions) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		printLoadError(err, opts.Verbose)
		os.Exit(1)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		log.WithError(err).Error("failed to render resolved configuration")
		os.Exit(1)
	}
	fmt.Print(string(out))

	workers := cfg.Processes(logicalCPUs())
	fmt.Printf("# multiprocessing resolves to %d worker(s) on this machine\n", workers)
}

// logicalCPUs returns the logical CPU count, falling back to 1 when the
// platform query fails.
func logicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		log.WithError(err).Debug("could not determine CPU count")
		return 1
	}
	return n
}
