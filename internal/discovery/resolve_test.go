package discovery

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePosix(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("lsof -a -p 41235 -d cwd", exec.FakeResponse{Stdout: lsofCwdStorefront}).
		On("lsof -a -p 41302 -d cwd", exec.FakeResponse{Stdout: lsofCwdAdmin})
	logger, _ := test.NewNullLogger()
	r := NewResolver(platform.Posix, runner, logger, 2)

	assert.Equal(t, AppIdentity{PID: 41235, Name: "storefront"}, r.Resolve(context.Background(), 41235))
	assert.Equal(t, AppIdentity{PID: 41302, Name: "admin panel"}, r.Resolve(context.Background(), 41302))
}

func TestResolveWindowsWMIC(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("wmic process where processid=8120", exec.FakeResponse{Stdout: wmicWebShop})
	logger, _ := test.NewNullLogger()

	id := NewResolver(platform.Windows, runner, logger, 1).Resolve(context.Background(), 8120)
	assert.Equal(t, "web-shop", id.Name)
	assert.Equal(t, 1, len(runner.Calls()))
}

func TestResolveWindowsPowerShellFallback(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("powershell", exec.FakeResponse{Stdout: "\"C:\\nodejs\\node.exe\" C:\\code\\docs\\node_modules\\astro\\astro.js dev\r\n"})
	logger, _ := test.NewNullLogger()

	id := NewResolver(platform.Windows, runner, logger, 1).Resolve(context.Background(), 77)
	assert.Equal(t, "docs", id.Name)

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "wmic", calls[0].Name)
	assert.Equal(t, "powershell", calls[1].Name)
}

func TestResolveDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name   string
		runner exec.Runner
	}{
		{"command missing", exec.NewFakeRunner()},
		{"command fails", exec.NewFakeRunner().On("lsof", exec.FakeResponse{Stderr: "permission denied", Err: exec.ExitStatus(1)})},
		{"process gone", exec.NewFakeRunner().On("lsof", exec.FakeResponse{Err: exec.ExitStatus(1)})},
		{"no cwd row", exec.NewFakeRunner().On("lsof", exec.FakeResponse{Stdout: "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n"})},
		{"root cwd", exec.NewFakeRunner().On("lsof", exec.FakeResponse{Stdout: "node 9 me cwd DIR 1,4 640 2 /\n"})},
		{"panicking runner", panicRunner{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			id := NewResolver(platform.Posix, tt.runner, logger, 1).Resolve(context.Background(), 9)
			assert.Equal(t, AppIdentity{PID: 9, Name: Unknown}, id)
		})
	}
}

func TestResolveAllDeduplicates(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("lsof -a -p 41235", exec.FakeResponse{Stdout: lsofCwdStorefront}).
		On("lsof -a -p 41302", exec.FakeResponse{Stdout: lsofCwdAdmin})
	logger, _ := test.NewNullLogger()

	ids := NewResolver(platform.Posix, runner, logger, 4).ResolveAll(context.Background(), []int{41235, 41302, 41235, 41235})
	assert.Equal(t, map[int]AppIdentity{
		41235: {PID: 41235, Name: "storefront"},
		41302: {PID: 41302, Name: "admin panel"},
	}, ids)
	assert.Equal(t, 2, len(runner.Calls()))
}

func TestResolveAllRespectsConcurrencyLimit(t *testing.T) {
	runner := &countingRunner{delay: 5 * time.Millisecond}
	logger, _ := test.NewNullLogger()

	pids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	ids := NewResolver(platform.Posix, runner, logger, 2).ResolveAll(context.Background(), pids)

	assert.Len(t, ids, len(pids))
	for _, pid := range pids {
		assert.Equal(t, "project", ids[pid].Name)
	}
	assert.LessOrEqual(t, runner.max.Load(), int32(2))
	assert.Equal(t, int32(len(pids)), runner.total.Load())
}

func TestCwdFromLsof(t *testing.T) {
	assert.Equal(t, "/Users/me/code/storefront", cwdFromLsof(lsofCwdStorefront))
	assert.Equal(t, "/Users/me/code/admin panel/node_modules/.bin", cwdFromLsof(lsofCwdAdmin))
	assert.Empty(t, cwdFromLsof(""))
}

func TestCommandLineFromWMIC(t *testing.T) {
	assert.Equal(t,
		`"C:\Program Files\nodejs\node.exe" "C:\Users\me\code\web-shop\node_modules\vite\bin\vite.js"`,
		commandLineFromWMIC(wmicWebShop))
	assert.Empty(t, commandLineFromWMIC("CommandLine\r\r\n\r\r\n"))
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	panic("boom")
}

// countingRunner answers every lsof cwd query with the same project and
// records how many queries ran at once.
type countingRunner struct {
	delay    time.Duration
	inflight atomic.Int32
	max      atomic.Int32
	total    atomic.Int32
	mu       sync.Mutex
}

func (c *countingRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	n := c.inflight.Add(1)
	defer c.inflight.Add(-1)
	c.total.Add(1)

	c.mu.Lock()
	if n > c.max.Load() {
		c.max.Store(n)
	}
	c.mu.Unlock()

	time.Sleep(c.delay)
	return []byte("node 1 me cwd DIR 1,4 640 2 /home/me/project\n"), nil, nil
}
