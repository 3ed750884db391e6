//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child tree with taskkill.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher kill runs afterwards as a fallback.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an integer
}
