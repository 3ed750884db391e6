//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// down browser helper processes that outlive the launcher.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher kill runs afterwards as a fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
