// Package executor spawns the child process and captures its output.
// Each of the child's two output streams is read line by line by its
// own goroutine, which tees the raw bytes to the live terminal and
// appends a timestamped record to a capture sink. The executor knows
// nothing about where the sinks persist; the caller decides whether
// the capture ends up on disk or in memory.
package executor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/lucho00cuba/deja/internal/stream"
)

// NotFoundError reports a command that does not exist.
type NotFoundError struct {
	Cmd string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Cmd)
}

// PermissionError reports a command that exists but cannot be executed.
type PermissionError struct {
	Cmd string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied running command: %s", e.Cmd)
}

// SpawnError reports any other spawn failure.
type SpawnError struct {
	Cmd string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("error running command: %s", e.Cmd)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// CaptureError reports a failure to acquire a child pipe or to append
// to a capture sink.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("unable to capture command output: %v", e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// WaitError reports a failure to wait on the child.
type WaitError struct {
	Err error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("error waiting for command to finish: %v", e.Err)
}

func (e *WaitError) Unwrap() error {
	return e.Err
}

// Executor runs child processes. Stdout and Stderr are the live tee
// destinations; Stdin is handed to the child unmodified. The child
// inherits the parent's environment and working directory.
type Executor struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// New returns an Executor wired to the process's own streams.
func New() *Executor {
	return &Executor{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

// Run spawns name with args, teeing each output line to the live
// writers and appending timestamped records to the sinks. It blocks
// until both pipes are drained and the child has exited, then returns
// the child's exit status, or 1 when no status is available (for
// example when the child was killed by a signal).
func (e *Executor) Run(name string, args []string, outSink, errSink *stream.Writer) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = e.Stdin

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return 0, &CaptureError{Err: err}
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return 0, &CaptureError{Err: err}
	}

	if err := cmd.Start(); err != nil {
		return 0, spawnError(name, err)
	}
	start := time.Now()
	logger.Debug("spawned command", "cmd", name, "pid", cmd.Process.Pid)

	var wg sync.WaitGroup
	captureErrs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		captureErrs <- capture(outPipe, e.Stdout, outSink, start)
	}()
	go func() {
		defer wg.Done()
		captureErrs <- capture(errPipe, e.Stderr, errSink, start)
	}()

	// Both pipes must reach EOF before Wait closes them out from
	// under the readers.
	wg.Wait()
	close(captureErrs)

	status := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, &WaitError{Err: err}
		}
		status = exitErr.ExitCode()
	} else {
		status = cmd.ProcessState.ExitCode()
	}
	if status < 0 {
		status = 1
	}

	for err := range captureErrs {
		if err != nil {
			return status, &CaptureError{Err: err}
		}
	}

	logger.Debug("command finished", "cmd", name, "status", status, "elapsed", time.Since(start))
	return status, nil
}

// capture reads r one line at a time, writing the raw bytes to live
// and a timestamped record to sink. The timestamp is taken when the
// reader observes the line, so per-stream ordering is monotonic.
func capture(r io.Reader, live io.Writer, sink *stream.Writer, start time.Time) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			offset := uint64(time.Since(start).Nanoseconds())
			if _, werr := live.Write(line); werr != nil {
				return werr
			}
			if werr := sink.Append(offset, line); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			// The pipe is torn down when the child exits; treat any
			// read failure after that as end of stream.
			return nil
		}
	}
}

func spawnError(name string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Cmd: name}
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Cmd: name}
	default:
		return &SpawnError{Cmd: name, Err: err}
	}
}
