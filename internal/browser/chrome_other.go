//go:build !linux && !windows

package browser

import "syscall"

func setParentDeathSignal(*syscall.SysProcAttr) {}
