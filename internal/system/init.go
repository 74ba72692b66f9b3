package system

import (
	"os"
	"os/exec"
	"strings"
)

// detectInitSystem names the local init so conditions can gate states that
// need user services (e.g. `when: init == "systemd"`).
func detectInitSystem() string {
	// PID 1 is the most reliable signal.
	if comm, err := os.ReadFile("/proc/1/comm"); err == nil {
		if strings.TrimSpace(string(comm)) == "systemd" {
			return "systemd"
		}
	}

	// Standard marker for a systemd boot.
	if _, err := os.Stat("/run/systemd/system"); err == nil {
		return "systemd"
	}

	if _, err := os.Stat("/run/openrc"); err == nil {
		return "openrc"
	}
	if _, err := exec.LookPath("rc-service"); err == nil {
		return "openrc"
	}

	if _, err := os.Stat("/etc/init.d"); err == nil {
		return "sysvinit"
	}

	return "unknown"
}
