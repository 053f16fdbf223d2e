//go:build windows

package browser

import (
	"os/exec"
	"testing"
)

func TestProcessGroupHelpersWindows(t *testing.T) {
	cmd := exec.Command("cmd.exe", "/c", "exit")
	setChromeProcessGroup(cmd)
	if cmd.SysProcAttr != nil {
		t.Error("no process attributes expected on windows")
	}

	killChromeProcessGroup(nil, true)
	killChromeProcessGroup(nil, false)
}
