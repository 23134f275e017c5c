// Package cache persists recorded command executions and classifies
// their freshness. Two stores implement the same capability set: the
// DiskStore streams captured output to files beside a textual metadata
// record (the layout used by the CLI), and the MemoryStore keeps
// entries inline (used by tests and anywhere a throwaway cache is
// convenient). Entries themselves are polymorphic: a store hands back
// anything that can report its timings and status and replay its
// captured output.
package cache

import (
	"io"
	"time"

	"github.com/lucho00cuba/deja/internal/scope"
	"github.com/lucho00cuba/deja/internal/stream"
)

// Runner executes a command, appending captured stdout and stderr
// records to the given sinks, and returns the exit status. The
// production implementation is executor.Executor; tests substitute
// counters and canned output.
type Runner interface {
	Run(cmd string, args []string, stdout, stderr *stream.Writer) (int, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(cmd string, args []string, stdout, stderr *stream.Writer) (int, error)

// Run calls f.
func (f RunnerFunc) Run(cmd string, args []string, stdout, stderr *stream.Writer) (int, error) {
	return f(cmd, args, stdout, stderr)
}

// Command pairs an immutable Scope with the Runner used to execute it
// on a cache miss.
type Command struct {
	Scope  *scope.Scope
	Runner Runner
}

// Entry is one persisted execution. Replay re-emits the captured
// streams in their original temporal order and returns the recorded
// exit status.
type Entry interface {
	CreatedAt() time.Time
	ExpiresAt() *time.Time
	Status() int
	Replay(stdout, stderr io.Writer) (int, error)

	// OutputSize reports the total captured stream size in bytes,
	// for informational output only.
	OutputSize() int64
}

// Store is the capability set shared by the disk and inline layouts.
type Store interface {
	// Read returns the persisted entry for hash, or nil when absent.
	Read(hash string) (Entry, error)

	// Find returns the freshness verdict for hash under opts.
	Find(hash string, opts FindOptions) (Verdict, error)

	// Record executes the command and persists the result iff its
	// exit status is one opts selects for recording. The child's
	// status is returned either way.
	Record(c *Command, opts RecordOptions) (int, error)

	// Remove deletes the entry for hash, reporting whether one
	// existed.
	Remove(hash string) (bool, error)
}

// ExitCodeSet selects which exit statuses are worth recording.
type ExitCodeSet [256]bool

// RecordDefault is the default policy: record only success.
func RecordDefault() ExitCodeSet {
	var s ExitCodeSet
	s[0] = true
	return s
}

// Contains reports whether status is in the set. Statuses outside
// [0,255] are never recorded.
func (s ExitCodeSet) Contains(status int) bool {
	if status < 0 || status > 255 {
		return false
	}
	return s[status]
}

// RecordOptions control what Record persists.
type RecordOptions struct {
	// CacheFor, when set, stamps the entry with an expiry of
	// now + CacheFor. Nil means the entry never expires.
	CacheFor *time.Duration

	// RecordExitCodes selects the statuses to persist.
	RecordExitCodes ExitCodeSet
}

// ShouldRecord reports whether an execution with the given status
// should be persisted.
func (o RecordOptions) ShouldRecord(status int) bool {
	return o.RecordExitCodes.Contains(status)
}

// FindOptions control how far back a lookup will accept an entry.
type FindOptions struct {
	// MaxAge, when set, marks entries created earlier than
	// now - MaxAge as stale. Nil means no upper age bound.
	MaxAge *time.Duration
}
