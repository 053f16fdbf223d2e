//go:build !windows

package browser

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setChromeProcessGroup configures the browser to run in its own process group.
// This ensures all child processes (renderers, GPU, etc.) share the same PGID
// so they can be killed together on shutdown.
func setChromeProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
	setParentDeathSignal(cmd.SysProcAttr)
}

// killChromeProcessGroup sends a signal to the entire browser process group.
// force=false sends SIGTERM (graceful), force=true sends SIGKILL.
func killChromeProcessGroup(p *os.Process, force bool) {
	if p == nil {
		return
	}
	sig := unix.SIGTERM
	if force {
		sig = unix.SIGKILL
	}
	// Negative PID targets the entire process group
	_ = unix.Kill(-p.Pid, sig)
}
