package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus"
)

// Listing is the raw output of the process table commands.
type Listing struct {
	// Sockets holds one listening socket per line.
	Sockets string
	// Tasks is the Windows task listing used for the PID allow-list. It is
	// empty on POSIX hosts.
	Tasks string
}

// Reader runs the platform's process table commands.
type Reader struct {
	platform platform.Platform
	runner   exec.Runner
	log      logrus.FieldLogger
	runtimes []string
}

// NewReader returns a Reader. An empty runtimes list keeps every listener.
func NewReader(p platform.Platform, runner exec.Runner, log logrus.FieldLogger, runtimes []string) *Reader {
	return &Reader{platform: p, runner: runner, log: log, runtimes: runtimes}
}

// Read returns the listing text. A failed command yields a *exec.CommandError.
func (r *Reader) Read(ctx context.Context) (Listing, error) {
	if r.platform == platform.Windows {
		return r.readWindows(ctx)
	}
	return r.readPosix(ctx)
}

func (r *Reader) readPosix(ctx context.Context) (Listing, error) {
	out, err := r.run(ctx, "lsof", "-iTCP", "-sTCP:LISTEN", "-P", "-n")
	if err != nil {
		return Listing{}, err
	}
	return Listing{Sockets: filterLsof(out, r.runtimes)}, nil
}

func (r *Reader) readWindows(ctx context.Context) (Listing, error) {
	sockets, err := r.run(ctx, "netstat", "-ano")
	if err != nil {
		return Listing{}, err
	}

	args := []string{"/FO", "CSV", "/NH"}
	if len(r.runtimes) == 1 {
		args = append(args, "/FI", fmt.Sprintf("IMAGENAME eq %s", imageName(r.runtimes[0])))
	}
	tasks, err := r.run(ctx, "tasklist", args...)
	if err != nil {
		return Listing{}, err
	}

	return Listing{Sockets: keepLines(sockets, "LISTENING"), Tasks: tasks}, nil
}

func (r *Reader) run(ctx context.Context, name string, args ...string) (string, error) {
	res, err := exec.Output(ctx, r.runner, name, args...)
	if err != nil {
		return "", err
	}
	if res.Stderr != "" {
		r.log.WithField("command", name).Warnf("command wrote to stderr: %s", res.Stderr)
	}
	return res.Stdout, nil
}

// filterLsof keeps LISTEN lines whose COMMAND column names one of runtimes.
func filterLsof(content string, runtimes []string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "LISTEN") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || !matchesRuntime(fields[0], runtimes) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func keepLines(content, substr string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, substr) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// matchesRuntime reports whether program names one of runtimes. An empty
// runtimes list matches everything.
func matchesRuntime(program string, runtimes []string) bool {
	if len(runtimes) == 0 {
		return true
	}
	lower := strings.ToLower(program)
	for _, rt := range runtimes {
		rt = strings.TrimSuffix(strings.ToLower(rt), ".exe")
		if rt != "" && strings.Contains(lower, rt) {
			return true
		}
	}
	return false
}

func imageName(runtime string) string {
	if strings.HasSuffix(strings.ToLower(runtime), ".exe") {
		return runtime
	}
	return runtime + ".exe"
}
