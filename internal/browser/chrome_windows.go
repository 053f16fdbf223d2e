//go:build windows

package browser

import (
	"os"
	"os/exec"
)

// Arc on Windows runs without a process group; nothing to configure.
func setChromeProcessGroup(*exec.Cmd) {}

// killChromeProcessGroup stops the launched Arc process. Helper processes
// exit on their own once it is gone.
func killChromeProcessGroup(p *os.Process, force bool) {
	if p == nil {
		return
	}
	if !force {
		_ = p.Signal(os.Interrupt)
		return
	}
	_ = p.Kill()
}
