package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dsmmcken/devport/internal/exec"
	"github.com/dsmmcken/devport/internal/platform"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPosixFiltersByRuntime(t *testing.T) {
	runner := exec.NewFakeRunner().On("lsof -iTCP", exec.FakeResponse{Stdout: lsofListing})
	logger, _ := test.NewNullLogger()

	listing, err := NewReader(platform.Posix, runner, logger, []string{"node"}).Read(context.Background())
	require.NoError(t, err)

	lines := strings.Split(listing.Sockets, "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "node"))
		assert.Contains(t, line, "(LISTEN)")
	}
	assert.Empty(t, listing.Tasks)
	assert.Equal(t, 1, len(runner.Calls()))
}

func TestReaderPosixAllProcesses(t *testing.T) {
	runner := exec.NewFakeRunner().On("lsof -iTCP", exec.FakeResponse{Stdout: lsofListing})
	logger, _ := test.NewNullLogger()

	listing, err := NewReader(platform.Posix, runner, logger, nil).Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, strings.Split(listing.Sockets, "\n"), 5)
}

func TestReaderPosixNothingMatched(t *testing.T) {
	runner := exec.NewFakeRunner().On("lsof", exec.FakeResponse{Err: exec.ExitStatus(1)})
	logger, _ := test.NewNullLogger()

	listing, err := NewReader(platform.Posix, runner, logger, []string{"node"}).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listing.Sockets)
}

func TestReaderCommandError(t *testing.T) {
	runner := exec.NewFakeRunner().On("lsof", exec.FakeResponse{
		Stderr: "lsof: unsupported option",
		Err:    exec.ExitStatus(1),
	})
	logger, _ := test.NewNullLogger()

	_, err := NewReader(platform.Posix, runner, logger, nil).Read(context.Background())
	var cmdErr *exec.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "lsof", cmdErr.Name)
}

func TestReaderLogsStderrWarnings(t *testing.T) {
	runner := exec.NewFakeRunner().On("lsof", exec.FakeResponse{
		Stdout: lsofListing,
		Stderr: "lsof: WARNING: can't stat() fuse.gvfsd-fuse file system /run/user/1000/gvfs",
	})
	logger, hook := test.NewNullLogger()

	_, err := NewReader(platform.Posix, runner, logger, nil).Read(context.Background())
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "lsof", hook.LastEntry().Data["command"])
}

func TestReaderWindows(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("netstat -ano", exec.FakeResponse{Stdout: netstatListing}).
		On("tasklist", exec.FakeResponse{Stdout: tasklistCSV})
	logger, _ := test.NewNullLogger()

	listing, err := NewReader(platform.Windows, runner, logger, []string{"node"}).Read(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, listing.Sockets, "ESTABLISHED")
	assert.NotContains(t, listing.Sockets, "UDP")
	assert.Len(t, strings.Split(listing.Sockets, "\n"), 4)
	assert.Equal(t, tasklistCSV, listing.Tasks)

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, `tasklist /FO CSV /NH /FI IMAGENAME eq node.exe`, calls[1].String())
}

func TestReaderWindowsSeveralRuntimesSkipsImageFilter(t *testing.T) {
	runner := exec.NewFakeRunner().
		On("netstat", exec.FakeResponse{Stdout: netstatListing}).
		On("tasklist", exec.FakeResponse{Stdout: tasklistCSV})
	logger, _ := test.NewNullLogger()

	_, err := NewReader(platform.Windows, runner, logger, []string{"node", "code"}).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tasklist /FO CSV /NH", runner.Calls()[1].String())
}

func TestMatchesRuntime(t *testing.T) {
	assert.True(t, matchesRuntime("node", []string{"node"}))
	assert.True(t, matchesRuntime("Node.exe", []string{"node"}))
	assert.True(t, matchesRuntime("node", []string{"NODE.EXE"}))
	assert.True(t, matchesRuntime("Code\\x20H", []string{"node", "code"}))
	assert.False(t, matchesRuntime("postgres", []string{"node"}))
	assert.True(t, matchesRuntime("postgres", nil))
}
