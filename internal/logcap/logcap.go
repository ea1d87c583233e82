// Package logcap redirects the stdout and stderr of a wrapped computation
// into per-component, per-rank logfiles so long-running evaluations do not
// interleave their diagnostics on the optimization driver's console.
package logcap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths returns the stdout and stderr logfile paths for a capture:
// <baseDir>/logs[/iter_<NNNN>]/<component path>/{stdout,stderr}_rank<NNN>.txt.
// The component name is split on "." to mirror the driver's model tree as
// a directory hierarchy. A negative iter omits the iteration segment.
func Paths(baseDir, component string, rank, iter int) (stdoutPath, stderrPath string) {
	parts := []string{baseDir, "logs"}
	if iter >= 0 {
		parts = append(parts, fmt.Sprintf("iter_%04d", iter))
	}
	parts = append(parts, strings.Split(component, ".")...)
	dir := filepath.Join(parts...)
	return filepath.Join(dir, fmt.Sprintf("stdout_rank%03d.txt", rank)),
		filepath.Join(dir, fmt.Sprintf("stderr_rank%03d.txt", rank))
}

// Capture runs fn with os.Stdout and os.Stderr appended to the logfiles
// named by Paths. The leaf log directory is recreated fresh on each
// capture, and the original streams are restored before Capture returns
// whether or not fn fails. The returned error is fn's own error, or a
// capture setup failure.
//
// Capture swaps the process-global os.Stdout and os.Stderr, so it must
// not be run concurrently with other captures or with writers holding the
// originals.
func Capture(baseDir, component string, rank, iter int, fn func() error) error {
	stdoutPath, stderrPath := Paths(baseDir, component, rank, iter)

	// Make a clean log location for this component.
	dir := filepath.Dir(stdoutPath)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("logcap: clean %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("logcap: create %s: %w", dir, err)
	}

	stdoutFile, err := os.OpenFile(stdoutPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("logcap: open stdout log: %w", err)
	}
	stderrFile, err := os.OpenFile(stderrPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		stdoutFile.Close()
		return fmt.Errorf("logcap: open stderr log: %w", err)
	}

	origStdout, origStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdoutFile, stderrFile
	defer func() {
		os.Stdout, os.Stderr = origStdout, origStderr
		stdoutFile.Close()
		stderrFile.Close()
	}()

	return fn()
}
