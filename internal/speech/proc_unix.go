//go:build unix

package speech

import (
	"os/exec"
	"syscall"
)

// configureProcess puts the recognizer in a new process group and makes
// cancellation kill the whole group.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
