//go:build linux

package browser

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// setParentDeathSignal kills the browser when this process dies.
func setParentDeathSignal(attr *syscall.SysProcAttr) {
	attr.Pdeathsig = unix.SIGKILL
}
