package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTempDB writes raw database bytes to a temp file and returns its path.
func writeTempDB(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.db")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// captureStdout redirects os.Stdout to a pipe for the duration of fn,
// copying everything written into buf.
func captureStdout(t *testing.T, buf *bytes.Buffer, fn func()) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(buf, r)
		close(done)
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	<-done
	_ = r.Close()
}
