package cache

import (
	"bytes"
	"io"
	"time"

	"github.com/lucho00cuba/deja/internal/scope"
	"github.com/lucho00cuba/deja/internal/stream"
)

// MemoryStore is the inline layout: entries hold their captured
// records directly. It backs tests and throwaway caches; nothing is
// persisted across processes.
type MemoryStore struct {
	// Now is the wall clock; replaceable for tests.
	Now func() time.Time

	entries map[string]*MemoryEntry
}

// NewMemoryStore returns an empty inline store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: time.Now, entries: make(map[string]*MemoryEntry)}
}

// MemoryEntry is a recorded execution held in memory.
type MemoryEntry struct {
	command scope.Scope
	created time.Time
	expires *time.Time
	status  int
	stdout  []stream.Record
	stderr  []stream.Record
}

// CreatedAt returns the wall-clock instant of execution.
func (e *MemoryEntry) CreatedAt() time.Time {
	return e.created
}

// ExpiresAt returns the entry's expiry, or nil when it never expires.
func (e *MemoryEntry) ExpiresAt() *time.Time {
	return e.expires
}

// Status returns the recorded exit status.
func (e *MemoryEntry) Status() int {
	return e.status
}

// OutputSize sums the encoded size of the captured records: each
// line's bytes plus its 16-byte timestamp header.
func (e *MemoryEntry) OutputSize() int64 {
	var total int64
	for _, r := range e.stdout {
		total += stream.HeaderSize + int64(len(r.Line))
	}
	for _, r := range e.stderr {
		total += stream.HeaderSize + int64(len(r.Line))
	}
	return total
}

// Replay merges the captured streams to the given writers and returns
// the recorded status.
func (e *MemoryEntry) Replay(stdout, stderr io.Writer) (int, error) {
	if err := stream.Merge(e.stdout, e.stderr, stdout, stderr); err != nil {
		return 0, err
	}
	return e.status, nil
}

// Read returns the entry for hash, or nil when absent.
func (s *MemoryStore) Read(hash string) (Entry, error) {
	entry, ok := s.entries[hash]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

// Find classifies the entry under hash against the freshness policy.
func (s *MemoryStore) Find(hash string, opts FindOptions) (Verdict, error) {
	entry, ok := s.entries[hash]
	if !ok {
		return classify(nil, s.Now(), opts), nil
	}
	return classify(entry, s.Now(), opts), nil
}

// Record executes the command with in-memory capture sinks and stores
// the result inline when the status is selected for recording.
func (s *MemoryStore) Record(c *Command, opts RecordOptions) (int, error) {
	var outBuf, errBuf bytes.Buffer
	status, err := c.Runner.Run(c.Scope.Cmd, c.Scope.Args,
		stream.NewWriter(&outBuf), stream.NewWriter(&errBuf))
	if err != nil {
		return 0, err
	}
	if !opts.ShouldRecord(status) {
		return status, nil
	}

	stdout, err := stream.ReadAll(&outBuf)
	if err != nil {
		return 0, err
	}
	stderr, err := stream.ReadAll(&errBuf)
	if err != nil {
		return 0, err
	}

	now := s.Now()
	entry := &MemoryEntry{
		command: *c.Scope,
		created: now,
		status:  status,
		stdout:  stdout,
		stderr:  stderr,
	}
	if opts.CacheFor != nil {
		expires := now.Add(*opts.CacheFor)
		entry.expires = &expires
	}
	s.entries[c.Scope.Hash] = entry
	return status, nil
}

// Remove deletes the entry for hash, reporting whether one existed.
func (s *MemoryStore) Remove(hash string) (bool, error) {
	if _, ok := s.entries[hash]; !ok {
		return false, nil
	}
	delete(s.entries, hash)
	return true, nil
}
