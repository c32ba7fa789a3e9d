package command

import (
	"bytes"
	"os"
	"testing"
)

// runApp runs the CLI against the vault in dir and returns captured
// stdout. Commands share the data directory, so state persists between
// invocations within one test.
func runApp(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	app := App()
	fullArgs := append([]string{"docvault", "--data-dir", dir}, args...)
	runErr := app.Run(fullArgs)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

// mustRun runs the CLI and fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runApp(t, dir, args...)
	if err != nil {
		t.Fatalf("docvault %v failed: %v", args, err)
	}
	return out
}
