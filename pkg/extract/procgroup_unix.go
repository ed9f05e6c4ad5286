//go:build linux || darwin

package extract

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts cmd in its own process group so a timeout signal
// can be delivered to the whole subtree a tool like DROID or ExifTool may
// spawn, not just the direct child.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup delivers sig to cmd's entire process group.
func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, sig)
}
