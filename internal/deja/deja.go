// Package deja orchestrates the cache actions behind the CLI
// subcommands. Each action takes a built command and a store, consults
// the freshness policy, and either replays a recorded entry or records
// a new one. Actions return the exit status the process should carry.
package deja

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lucho00cuba/deja/internal/cache"
	"github.com/lucho00cuba/deja/internal/logger"
)

// Actions runs the cache actions against the given output streams.
// Replayed stdout records and informational output go to Stdout;
// replayed stderr records go to Stderr.
type Actions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// New returns Actions wired to the process's own streams.
func New() *Actions {
	return &Actions{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run replays a fresh entry, or executes and records the command.
// Either way the returned status is the command's outcome.
func (a *Actions) Run(c *cache.Command, store cache.Store, recordOpts cache.RecordOptions, findOpts cache.FindOptions) (int, error) {
	verdict, err := store.Find(c.Scope.Hash, findOpts)
	if err != nil {
		return 0, err
	}
	if verdict.Freshness == cache.Fresh {
		logger.Debug("cache hit, replaying", "hash", c.Scope.Hash)
		return verdict.Entry.Replay(a.Stdout, a.Stderr)
	}
	logger.Debug("cache lookup did not hit", "hash", c.Scope.Hash, "freshness", verdict.Freshness)
	return store.Record(c, recordOpts)
}

// Read replays a fresh entry, or exits with missCode. The command is
// never executed.
func (a *Actions) Read(c *cache.Command, store cache.Store, findOpts cache.FindOptions, missCode int) (int, error) {
	verdict, err := store.Find(c.Scope.Hash, findOpts)
	if err != nil {
		return 0, err
	}
	if verdict.Freshness == cache.Fresh {
		return verdict.Entry.Replay(a.Stdout, a.Stderr)
	}
	return missCode, nil
}

// Force executes and records the command regardless of any existing
// entry, returning 0 on success.
func (a *Actions) Force(c *cache.Command, store cache.Store, recordOpts cache.RecordOptions) (int, error) {
	if _, err := store.Record(c, recordOpts); err != nil {
		return 0, err
	}
	return 0, nil
}

// Remove deletes the entry under the command's key: 0 when an entry
// was removed, 1 when none existed.
func (a *Actions) Remove(c *cache.Command, store cache.Store) (int, error) {
	removed, err := store.Remove(c.Scope.Hash)
	if err != nil {
		return 0, err
	}
	if removed {
		return 0, nil
	}
	return 1, nil
}

// Test reports cache state through the exit status: 0 when a fresh
// entry exists, 1 otherwise. Nothing is replayed or executed.
func (a *Actions) Test(c *cache.Command, store cache.Store, findOpts cache.FindOptions) (int, error) {
	verdict, err := store.Find(c.Scope.Hash, findOpts)
	if err != nil {
		return 0, err
	}
	if verdict.Freshness == cache.Fresh {
		return 0, nil
	}
	return 1, nil
}

// Explain prints the fingerprint inputs followed by a one-line
// freshness classification.
func (a *Actions) Explain(c *cache.Command, store cache.Store, findOpts cache.FindOptions) (int, error) {
	text, err := c.Scope.Explain()
	if err != nil {
		return 0, err
	}
	fmt.Fprintln(a.Stdout, text)

	verdict, err := store.Find(c.Scope.Hash, findOpts)
	if err != nil {
		return 0, err
	}

	switch verdict.Freshness {
	case cache.Fresh:
		fmt.Fprintln(a.Stdout, color.GreenString("Available in cache"))
		if size := verdict.Entry.OutputSize(); size > 0 {
			fmt.Fprintf(a.Stdout, "Captured output: %s\n", humanize.IBytes(uint64(size)))
		}
	case cache.Stale:
		fmt.Fprintln(a.Stdout, color.YellowString("Stale: entry in cache created %s", humanize.Time(verdict.Created)))
	case cache.Expired:
		fmt.Fprintln(a.Stdout, color.RedString("Expired: entry in cache expired %s", humanize.Time(verdict.Expires)))
	case cache.Missing:
		fmt.Fprintln(a.Stdout, "Missing from cache")
	}
	return 0, nil
}

// Hash prints the command's hex cache key.
func (a *Actions) Hash(c *cache.Command, _ cache.Store) (int, error) {
	fmt.Fprintln(a.Stdout, c.Scope.Hash)
	return 0, nil
}
