//go:build windows

package executor

import "os/exec"

func configureProcessGroup(*exec.Cmd) {}

// Windows has no SIGTERM; both steps kill the process.
func terminateProcess(cmd *exec.Cmd) error {
	return killProcess(cmd)
}

func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
