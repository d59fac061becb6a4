package process

// Notes:
// - KillTree is exercised against a throwaway child started by the test. Real
//   browser trees are covered by the renderer integration tests.

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestKillTree_RejectsInvalidPID(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1, -4242} {
		if err := KillTree(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillTree(%d) error = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillTree_MissingProcess(t *testing.T) {
	t.Parallel()

	if err := KillTree(999999999); err != nil && runtime.GOOS != "windows" {
		t.Errorf("KillTree() on missing pid = %v, want nil", err)
	}
}

func TestAlive(t *testing.T) {
	t.Parallel()

	if !Alive(os.Getpid()) {
		t.Error("Alive(self) = false")
	}
	if Alive(0) || Alive(-1) {
		t.Error("Alive() should be false for non-positive pids")
	}
}

func TestKillTree_StopsChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("process groups are unix-only")
	}
	t.Parallel()

	cmd := exec.Command("sleep", "30")
	setNewGroup(cmd)
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start child: %v", err)
	}

	pid := cmd.Process.Pid
	if err := KillTree(pid); err != nil {
		t.Fatalf("KillTree() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("child still running after KillTree")
	}
}
