package discovery

import (
	"io"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMinPort excludes the canonical system ports.
	DefaultMinPort = 1024
	// DefaultConcurrency bounds parallel per-PID lookups.
	DefaultConcurrency = 4
)

var (
	// DefaultRuntimes are the process names whose listeners are offered.
	DefaultRuntimes = []string{"node"}

	// DefaultPriorityPorts are common dev-server ports, highest priority first.
	DefaultPriorityPorts = []int{3000, 5173, 4200, 8080, 8000, 5000, 3001, 4321, 5500, 8081, 8888, 9000}
)

// Options configures a Discoverer.
type Options struct {
	Platform platform.Platform
	Runner   exec.Runner
	Log      logrus.FieldLogger

	// Runtimes restricts discovery to processes whose name contains one of
	// these values. Ignored when AllProcesses is set.
	Runtimes     []string
	AllProcesses bool

	MinPort       int
	PriorityPorts []int
	Concurrency   int

	// AutoConfirm picks the best candidate without prompting.
	AutoConfirm bool
}

// DefaultOptions returns options for the given platform using real
// subprocesses and a silent logger.
func DefaultOptions(p platform.Platform) Options {
	return Options{
		Platform:      p,
		Runtimes:      append([]string(nil), DefaultRuntimes...),
		MinPort:       DefaultMinPort,
		PriorityPorts: append([]int(nil), DefaultPriorityPorts...),
		Concurrency:   DefaultConcurrency,
	}
}

func (o Options) withDefaults() Options {
	if o.Runner == nil {
		o.Runner = exec.NewOSRunner()
	}
	if o.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Log = l
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// runtimeFilter returns the runtimes to filter on, or nil for every process.
func (o Options) runtimeFilter() []string {
	if o.AllProcesses {
		return nil
	}
	return o.Runtimes
}
