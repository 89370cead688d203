//go:build !windows

package discovery

import "golang.org/x/sys/unix"

func terminateProcess(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}
