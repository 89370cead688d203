package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
)

// NotFoundError is returned when no dev server is listening on the port.
type NotFoundError struct {
	Port int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no dev server found on port %d", e.Port)
}

// terminate stops a POSIX process. Tests replace it.
var terminate = terminateProcess

// Kill stops every process listening on port. It discovers the listeners
// first, so only ports discovery would offer can be killed.
func (d *Discoverer) Kill(ctx context.Context, port int) ([]int, error) {
	cands, err := d.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering servers: %w", err)
	}

	for _, c := range cands {
		if c.Port != port {
			continue
		}
		pids := c.PIDs()
		for _, pid := range pids {
			if err := d.killPID(ctx, pid); err != nil {
				return nil, fmt.Errorf("stopping pid %d: %w", pid, err)
			}
		}
		d.log.WithField("port", port).Infof("stopped pids %s", joinInts(pids))
		return pids, nil
	}

	return nil, &NotFoundError{Port: port}
}

func joinInts(vals []int) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ", ")
}

func (d *Discoverer) killPID(ctx context.Context, pid int) error {
	if d.opts.Platform == platform.Windows {
		_, err := exec.Output(ctx, d.opts.Runner, "taskkill", "/PID", strconv.Itoa(pid), "/F")
		return err
	}
	return terminate(pid)
}
