package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/lucho00cuba/deja/internal/scope"
	"github.com/lucho00cuba/deja/internal/stream"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

const metaExt = ".yaml"

// DiskStore is the streamed on-disk layout: for each hash, a textual
// metadata file `<hash>.yaml` plus two binary stream files
// `<hash>.<ulid>.out` and `<hash>.<ulid>.err`. The ULID suffix keeps a
// new recording from clobbering stream files that an existing metadata
// record still references; the old files are removed only after the
// new metadata has committed via rename.
type DiskStore struct {
	root   string
	shared bool

	// Now is the wall clock; replaceable for tests.
	Now func() time.Time
}

// NewDiskStore returns a store rooted at root. Under shared mode the
// root and every entry file are world-readable and writable; otherwise
// only the owning user can touch them.
func NewDiskStore(root string, shared bool) *DiskStore {
	return &DiskStore{root: root, shared: shared, Now: time.Now}
}

// Root returns the cache root directory.
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) dirPerm() os.FileMode {
	if s.shared {
		return 0777
	}
	return 0700
}

func (s *DiskStore) filePerm() os.FileMode {
	if s.shared {
		return 0666
	}
	return 0600
}

// ensureRoot creates the cache root and pins its permissions. The
// explicit chmod overrides whatever the umask stripped at creation.
func (s *DiskStore) ensureRoot() error {
	if err := os.MkdirAll(s.root, s.dirPerm()); err != nil {
		return &WriteError{Path: s.root, Err: err}
	}
	if err := os.Chmod(s.root, s.dirPerm()); err != nil {
		return &WriteError{Path: s.root, Err: err}
	}
	return nil
}

func (s *DiskStore) metaPath(hash string) string {
	return filepath.Join(s.root, hash+metaExt)
}

// metadata is the persisted textual record for one entry. The stream
// payloads stay in the binary side files it names, so round-tripping
// preserves them byte for byte.
type metadata struct {
	Command scope.Scope `yaml:"command"`
	Created time.Time   `yaml:"created"`
	Expires *time.Time  `yaml:"expires,omitempty"`
	Status  int         `yaml:"status"`
	Stdout  string      `yaml:"stdout"`
	Stderr  string      `yaml:"stderr"`
}

// DiskEntry is a persisted execution backed by stream files.
type DiskEntry struct {
	meta metadata
	root string
}

// CreatedAt returns the wall-clock instant of execution.
func (e *DiskEntry) CreatedAt() time.Time {
	return e.meta.Created
}

// ExpiresAt returns the entry's expiry, or nil when it never expires.
func (e *DiskEntry) ExpiresAt() *time.Time {
	return e.meta.Expires
}

// Status returns the recorded exit status.
func (e *DiskEntry) Status() int {
	return e.meta.Status
}

// Command returns the originating scope.
func (e *DiskEntry) Command() scope.Scope {
	return e.meta.Command
}

// OutputSize sums the sizes of the two stream files.
func (e *DiskEntry) OutputSize() int64 {
	var total int64
	for _, name := range []string{e.meta.Stdout, e.meta.Stderr} {
		if info, err := os.Stat(filepath.Join(e.root, name)); err == nil {
			total += info.Size()
		}
	}
	return total
}

// Replay merges the two captured streams back to the given writers in
// their original temporal order and returns the recorded status.
func (e *DiskEntry) Replay(stdout, stderr io.Writer) (int, error) {
	outRecords, err := e.readStream(e.meta.Stdout)
	if err != nil {
		return 0, err
	}
	errRecords, err := e.readStream(e.meta.Stderr)
	if err != nil {
		return 0, err
	}
	if err := stream.Merge(outRecords, errRecords, stdout, stderr); err != nil {
		return 0, err
	}
	return e.meta.Status, nil
}

func (e *DiskEntry) readStream(name string) ([]stream.Record, error) {
	path := filepath.Join(e.root, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close stream file", "path", path, "error", err)
		}
	}()

	records, err := stream.ReadAll(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return records, nil
}

// Read returns the entry for hash, or nil when no metadata exists.
// Metadata that exists but does not deserialize surfaces as a
// *CorruptEntryError.
func (s *DiskStore) Read(hash string) (Entry, error) {
	entry, err := s.readEntry(hash)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return entry, nil
}

func (s *DiskStore) readEntry(hash string) (*DiskEntry, error) {
	path := s.metaPath(hash)
	logger.Debug("cache read", "hash", hash, "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	var meta metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, &CorruptEntryError{Hash: hash, Err: err}
	}
	return &DiskEntry{meta: meta, root: s.root}, nil
}

// Find classifies the entry under hash against the freshness policy.
func (s *DiskStore) Find(hash string, opts FindOptions) (Verdict, error) {
	entry, err := s.readEntry(hash)
	if err != nil {
		return Verdict{}, err
	}
	if entry == nil {
		return classify(nil, s.Now(), opts), nil
	}
	return classify(entry, s.Now(), opts), nil
}

// Record executes the command, streaming its captured output directly
// into fresh stream files under the cache root. The entry is persisted
// only when the exit status is one the options select; otherwise the
// transient stream files are deleted. The child's status is returned
// either way.
func (s *DiskStore) Record(c *Command, opts RecordOptions) (int, error) {
	if err := s.ensureRoot(); err != nil {
		return 0, err
	}

	suffix := ulid.Make().String()
	outName := fmt.Sprintf("%s.%s.out", c.Scope.Hash, suffix)
	errName := fmt.Sprintf("%s.%s.err", c.Scope.Hash, suffix)

	outFile, err := s.createStreamFile(outName)
	if err != nil {
		return 0, err
	}
	errFile, err := s.createStreamFile(errName)
	if err != nil {
		closeAndRemove(outFile)
		return 0, err
	}

	status, runErr := c.Runner.Run(c.Scope.Cmd, c.Scope.Args,
		stream.NewWriter(outFile), stream.NewWriter(errFile))

	outCloseErr := outFile.Close()
	errCloseErr := errFile.Close()

	if runErr != nil {
		s.removeStreams(outName, errName)
		return 0, runErr
	}
	if outCloseErr != nil {
		s.removeStreams(outName, errName)
		return 0, &WriteError{Path: outFile.Name(), Err: outCloseErr}
	}
	if errCloseErr != nil {
		s.removeStreams(outName, errName)
		return 0, &WriteError{Path: errFile.Name(), Err: errCloseErr}
	}

	if !opts.ShouldRecord(status) {
		logger.Debug("status not selected for recording, discarding capture",
			"hash", c.Scope.Hash, "status", status)
		s.removeStreams(outName, errName)
		return status, nil
	}

	now := s.Now()
	meta := metadata{
		Command: *c.Scope,
		Created: now,
		Status:  status,
		Stdout:  outName,
		Stderr:  errName,
	}
	if opts.CacheFor != nil {
		expires := now.Add(*opts.CacheFor)
		meta.Expires = &expires
	}

	if err := s.write(c.Scope.Hash, meta); err != nil {
		s.removeStreams(outName, errName)
		return 0, err
	}
	return status, nil
}

func (s *DiskStore) createStreamFile(name string) (*os.File, error) {
	path := filepath.Join(s.root, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, s.filePerm())
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	if err := f.Chmod(s.filePerm()); err != nil {
		closeAndRemove(f)
		return nil, &WriteError{Path: path, Err: err}
	}
	return f, nil
}

// write atomically replaces the metadata for hash, then removes the
// stream files the superseded entry referenced. A reader therefore
// observes either the previous entry fully or the new entry fully.
func (s *DiskStore) write(hash string, meta metadata) error {
	previous, err := s.readEntry(hash)
	if err != nil {
		// A corrupt predecessor should not block the overwrite; its
		// stream files are orphaned rather than leaked by crashing.
		var corrupt *CorruptEntryError
		if !errors.As(err, &corrupt) {
			return err
		}
		previous = nil
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		return &WriteError{Path: s.metaPath(hash), Err: err}
	}

	tmp, err := os.CreateTemp(s.root, "."+hash+".*.tmp")
	if err != nil {
		return &WriteError{Path: s.root, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: tmpName, Err: err}
	}
	if err := tmp.Chmod(s.filePerm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, s.metaPath(hash)); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: s.metaPath(hash), Err: err}
	}
	logger.Debug("cache write", "hash", hash, "path", s.metaPath(hash))

	if previous != nil {
		s.removeStreams(previous.meta.Stdout, previous.meta.Stderr)
	}
	return nil
}

// Remove deletes the metadata and stream files for hash.
func (s *DiskStore) Remove(hash string) (bool, error) {
	entry, err := s.readEntry(hash)
	if err != nil {
		var corrupt *CorruptEntryError
		if !errors.As(err, &corrupt) {
			return false, err
		}
		// Corrupt metadata is still removable; only its stream names
		// are unknown.
	}
	if entry == nil && err == nil {
		return false, nil
	}

	path := s.metaPath(hash)
	logger.Debug("cache remove", "hash", hash, "path", path)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &WriteError{Path: path, Err: err}
	}
	if entry != nil {
		s.removeStreams(entry.meta.Stdout, entry.meta.Stderr)
	}
	return true, nil
}

func (s *DiskStore) removeStreams(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		path := filepath.Join(s.root, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove stream file", "path", path, "error", err)
		}
	}
}

func closeAndRemove(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}
