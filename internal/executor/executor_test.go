package executor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/lucho00cuba/deja/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Silence logger during tests - only show errors
	logger.Init("error", "text", io.Discard)
}

func testExecutor() (*Executor, *bytes.Buffer, *bytes.Buffer) {
	var liveOut, liveErr bytes.Buffer
	return &Executor{Stdout: &liveOut, Stderr: &liveErr, Stdin: bytes.NewReader(nil)}, &liveOut, &liveErr
}

func runShell(t *testing.T, script string) (int, []stream.Record, []stream.Record, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	e, liveOut, liveErr := testExecutor()
	var outBuf, errBuf bytes.Buffer
	status, err := e.Run("sh", []string{"-c", script}, stream.NewWriter(&outBuf), stream.NewWriter(&errBuf))
	require.NoError(t, err)

	outRecords, err := stream.ReadAll(&outBuf)
	require.NoError(t, err)
	errRecords, err := stream.ReadAll(&errBuf)
	require.NoError(t, err)
	return status, outRecords, errRecords, liveOut, liveErr
}

func TestRunCapturesStdout(t *testing.T) {
	status, out, errs, liveOut, liveErr := runShell(t, "echo hello")

	assert.Equal(t, 0, status)
	require.Len(t, out, 1)
	assert.Equal(t, []byte("hello\n"), out[0].Line)
	assert.Empty(t, errs)

	assert.Equal(t, "hello\n", liveOut.String(), "line must reach the live terminal")
	assert.Empty(t, liveErr.String())
}

func TestRunCapturesStderr(t *testing.T) {
	status, out, errs, liveOut, liveErr := runShell(t, "echo oops >&2")

	assert.Equal(t, 0, status)
	assert.Empty(t, out)
	require.Len(t, errs, 1)
	assert.Equal(t, []byte("oops\n"), errs[0].Line)

	assert.Empty(t, liveOut.String())
	assert.Equal(t, "oops\n", liveErr.String())
}

func TestRunExitStatus(t *testing.T) {
	status, _, _, _, _ := runShell(t, "exit 3")
	assert.Equal(t, 3, status)
}

func TestRunUnterminatedFinalLine(t *testing.T) {
	_, out, _, liveOut, _ := runShell(t, "printf 'no newline'")

	require.Len(t, out, 1)
	assert.Equal(t, []byte("no newline"), out[0].Line)
	assert.Equal(t, "no newline", liveOut.String())
}

func TestRunTimestampsMonotonicPerStream(t *testing.T) {
	_, out, _, _, _ := runShell(t, "echo one; echo two; echo three")

	require.Len(t, out, 3)
	assert.LessOrEqual(t, out[0].Offset, out[1].Offset)
	assert.LessOrEqual(t, out[1].Offset, out[2].Offset)
}

func TestRunCommandNotFound(t *testing.T) {
	e, _, _ := testExecutor()
	var outBuf, errBuf bytes.Buffer
	_, err := e.Run("definitely-not-a-real-command-4f9a", nil,
		stream.NewWriter(&outBuf), stream.NewWriter(&errBuf))
	require.Error(t, err)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "command not found")
}

func TestRunPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission semantics")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "noexec.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0600))

	e, _, _ := testExecutor()
	var outBuf, errBuf bytes.Buffer
	_, err := e.Run(script, nil, stream.NewWriter(&outBuf), stream.NewWriter(&errBuf))
	require.Error(t, err)

	var denied *PermissionError
	assert.True(t, errors.As(err, &denied))
}
