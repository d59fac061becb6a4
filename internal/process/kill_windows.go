//go:build windows

package process

import (
	"os"
	"os/exec"
	"strconv"
)

// KillTree kills pid and its children with taskkill.
// /F forces termination, /T walks the tree.
func KillTree(pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	if !Alive(pid) {
		return nil
	}
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// Alive reports whether pid names a running process.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
