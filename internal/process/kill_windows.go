//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree kills the browser process tree rooted at pid with
// taskkill (/F force, /T include children).
func KillTree(pid int) {
	// Best-effort: launcher.Kill() still runs afterwards
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an integer
}
