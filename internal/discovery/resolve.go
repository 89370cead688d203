package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Resolver maps PIDs to project names. It never fails: anything that goes
// wrong yields an identity named Unknown.
type Resolver struct {
	platform    platform.Platform
	runner      exec.Runner
	log         logrus.FieldLogger
	rules       []Rule
	concurrency int
}

// NewResolver returns a Resolver using the name rules for p.
func NewResolver(p platform.Platform, runner exec.Runner, log logrus.FieldLogger, concurrency int) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{
		platform:    p,
		runner:      runner,
		log:         log,
		rules:       RulesFor(p),
		concurrency: concurrency,
	}
}

// Resolve looks up the project name for pid.
func (r *Resolver) Resolve(ctx context.Context, pid int) (id AppIdentity) {
	id = AppIdentity{PID: pid, Name: Unknown}
	log := r.log.WithField("pid", pid)

	defer func() {
		if rec := recover(); rec != nil {
			log.Debugf("name resolution panicked: %v", rec)
			id = AppIdentity{PID: pid, Name: Unknown}
		}
	}()

	subject, err := r.introspect(ctx, pid)
	if err != nil {
		log.WithError(err).Debug("name resolution failed")
		return id
	}
	if subject == "" {
		log.Debug("name resolution returned no output")
		return id
	}

	name, rule, ok := ApplyRules(r.rules, subject)
	if !ok {
		log.Debug("no name rule matched")
		return id
	}
	log.WithField("rule", rule).Debugf("resolved name %q", name)
	id.Name = name
	return id
}

// ResolveAll resolves each distinct PID, running up to the configured number
// of lookups at once. It returns after every lookup has finished.
func (r *Resolver) ResolveAll(ctx context.Context, pids []int) map[int]AppIdentity {
	distinct := make([]int, 0, len(pids))
	seen := make(map[int]bool, len(pids))
	for _, pid := range pids {
		if !seen[pid] {
			seen[pid] = true
			distinct = append(distinct, pid)
		}
	}

	slots := make([]AppIdentity, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, pid := range distinct {
		g.Go(func() error {
			slots[i] = r.Resolve(gctx, pid)
			return nil
		})
	}
	_ = g.Wait()

	ids := make(map[int]AppIdentity, len(slots))
	for _, id := range slots {
		ids[id.PID] = id
	}
	return ids
}

func (r *Resolver) introspect(ctx context.Context, pid int) (string, error) {
	if r.platform == platform.Windows {
		cmdline, err := r.commandLine(ctx, pid)
		if err != nil {
			return "", err
		}
		return windowsSubject(cmdline), nil
	}
	return r.workingDir(ctx, pid)
}

// workingDir reads the cwd entry from lsof's open file table.
func (r *Resolver) workingDir(ctx context.Context, pid int) (string, error) {
	res, err := exec.Output(ctx, r.runner, "lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd")
	if err != nil {
		return "", err
	}
	return cwdFromLsof(res.Stdout), nil
}

// commandLine asks wmic for the process command line and falls back to
// PowerShell where wmic has been removed.
func (r *Resolver) commandLine(ctx context.Context, pid int) (string, error) {
	res, wmicErr := exec.Output(ctx, r.runner, "wmic", "process", "where", fmt.Sprintf("processid=%d", pid), "get", "commandline")
	if wmicErr == nil {
		if cmdline := commandLineFromWMIC(res.Stdout); cmdline != "" {
			return cmdline, nil
		}
	}

	query := fmt.Sprintf(`(Get-CimInstance Win32_Process -Filter "ProcessId=%d").CommandLine`, pid)
	ps, err := exec.Output(ctx, r.runner, "powershell", "-NoProfile", "-NonInteractive", "-Command", query)
	if err != nil {
		if wmicErr != nil {
			return "", wmicErr
		}
		return "", err
	}
	return firstLine(ps.Stdout), nil
}

// cwdFromLsof returns the NAME column of the cwd row. Paths containing
// spaces span several fields and are joined back together.
func cwdFromLsof(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 9 && strings.EqualFold(fields[3], "cwd") {
			return strings.Join(fields[8:], " ")
		}
	}
	return ""
}

// commandLineFromWMIC drops the "CommandLine" header wmic prints first.
func commandLineFromWMIC(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "CommandLine") {
			continue
		}
		return line
	}
	return ""
}

func firstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
