package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeResponse is the canned result of a faked command.
type FakeResponse struct {
	Stdout string
	Stderr string
	Err    error
}

// Call records one invocation seen by a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// String returns the command line of the call.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type fakeRule struct {
	prefix   string
	response FakeResponse
}

// FakeRunner returns recorded responses for commands. Rules are matched in
// registration order against the command line; the first rule whose prefix
// matches wins. It is safe for concurrent use.
type FakeRunner struct {
	mu    sync.Mutex
	rules []fakeRule
	calls []Call
}

// NewFakeRunner returns a FakeRunner with no rules. Unmatched commands fail
// as if the executable did not exist.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers resp for every command line starting with prefix.
func (f *FakeRunner) On(prefix string, resp FakeResponse) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, fakeRule{prefix: prefix, response: resp})
	return f
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	line := call.String()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)

	for _, rule := range f.rules {
		if strings.HasPrefix(line, rule.prefix) {
			r := rule.response
			return []byte(r.Stdout), []byte(r.Stderr), r.Err
		}
	}
	return nil, nil, fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Calls returns the invocations seen so far, in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many invocations started with prefix.
func (f *FakeRunner) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c.String(), prefix) {
			n++
		}
	}
	return n
}

// ExitStatus returns an error that reports code the way *os/exec.ExitError
// does, for faking commands that ran but failed.
func ExitStatus(code int) error {
	return exitStatus(code)
}

type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }
