package logcap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Capture swaps process-global streams, so these tests do not run in
// parallel.

func TestPaths(t *testing.T) {
	stdout, stderr := Paths("/base", "plant.eco.eagle_density", 2, 17)
	assert.Equal(t, filepath.Join("/base", "logs", "iter_0017", "plant", "eco", "eagle_density", "stdout_rank002.txt"), stdout)
	assert.Equal(t, filepath.Join("/base", "logs", "iter_0017", "plant", "eco", "eagle_density", "stderr_rank002.txt"), stderr)

	stdout, _ = Paths("/base", "eval", 0, -1)
	assert.Equal(t, filepath.Join("/base", "logs", "eval", "stdout_rank000.txt"), stdout)
}

func TestCaptureRedirectsAndRestores(t *testing.T) {
	base := t.TempDir()
	origStdout, origStderr := os.Stdout, os.Stderr

	err := Capture(base, "eco.eagle_density", 0, 3, func() error {
		fmt.Fprintln(os.Stdout, "density evaluated")
		fmt.Fprintln(os.Stderr, "a warning")
		return nil
	})
	require.NoError(t, err)

	assert.Same(t, origStdout, os.Stdout, "stdout restored")
	assert.Same(t, origStderr, os.Stderr, "stderr restored")

	stdoutPath, stderrPath := Paths(base, "eco.eagle_density", 0, 3)
	out, err := os.ReadFile(stdoutPath)
	require.NoError(t, err)
	assert.Equal(t, "density evaluated\n", string(out))

	errOut, err := os.ReadFile(stderrPath)
	require.NoError(t, err)
	assert.Equal(t, "a warning\n", string(errOut))
}

func TestCaptureRestoresOnFailure(t *testing.T) {
	base := t.TempDir()
	origStdout, origStderr := os.Stdout, os.Stderr
	wantErr := errors.New("evaluation exploded")

	err := Capture(base, "eco", 1, -1, func() error {
		fmt.Fprintln(os.Stdout, "partial output")
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Same(t, origStdout, os.Stdout)
	assert.Same(t, origStderr, os.Stderr)

	// Output written before the failure is preserved.
	stdoutPath, _ := Paths(base, "eco", 1, -1)
	out, readErr := os.ReadFile(stdoutPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(out), "partial output")
}

func TestCaptureRecreatesDirectoryFresh(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, Capture(base, "eco", 0, 1, func() error {
		fmt.Fprintln(os.Stdout, "first run")
		return nil
	}))

	// A leftover file from the first capture disappears on the second.
	stdoutPath, _ := Paths(base, "eco", 0, 1)
	stale := filepath.Join(filepath.Dir(stdoutPath), "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, Capture(base, "eco", 0, 1, func() error {
		fmt.Fprintln(os.Stdout, "second run")
		return nil
	}))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale file should be removed")

	out, err := os.ReadFile(stdoutPath)
	require.NoError(t, err)
	assert.Equal(t, "second run\n", string(out))
}
