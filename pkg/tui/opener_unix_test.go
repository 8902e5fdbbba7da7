//go:build unix

package tui

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_ReapsProcess(t *testing.T) {
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not available")
	}

	cmd := exec.Command(path)
	require.NoError(t, start(cmd))
	pid := cmd.Process.Pid

	// A zombie still answers signal 0, a reaped process does not
	assert.Eventually(t, func() bool {
		return syscall.Kill(pid, 0) != nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStart_MissingCommand(t *testing.T) {
	err := start(exec.Command("/nonexistent/rental-booking-opener"))
	assert.ErrorContains(t, err, "error opening link")
}
