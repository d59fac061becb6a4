// Package process terminates browser process trees.
//
// A crashed or timed-out render must not leave renderer or GPU helpers
// behind, so the whole tree rooted at the launched browser is killed, not
// just the top-level PID.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that cannot identify a child process.
// Zero and negative values would address the caller's own process group.
var ErrInvalidPID = errors.New("invalid pid")

func checkPID(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return nil
}
