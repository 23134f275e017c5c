// Package hasher computes the BLAKE3 digests that make up a cache key.
// It provides total hash instances for bytes, strings, booleans, ordered
// sequences, sets, mappings and filesystem trees, plus the Merkle combine
// used to reduce a list of digests to a single one. All digests are
// 32 bytes; the hex form is lowercase and fixed length.
package hasher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/zeebo/blake3"
)

// Size is the size in bytes of a digest. BLAKE3 produces 32-byte
// (256-bit) hashes by default.
const Size = 32

// Hash is a single BLAKE3 digest.
type Hash struct {
	sum [Size]byte
}

// Hex returns the lowercase fixed-length hex form of the digest.
func (h Hash) Hex() string {
	return hex.EncodeToString(h.sum[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// PathError reports a watched path that could not be hashed.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("unable to hash path %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Bytes returns the digest of a byte slice. A nil slice hashes the same
// as an empty one, which is also how absent optional values are hashed.
func Bytes(b []byte) Hash {
	return Hash{sum: blake3.Sum256(b)}
}

// String returns the digest of the raw bytes of s.
func String(s string) Hash {
	return Bytes([]byte(s))
}

// Bool returns the digest of a single byte, 0x01 for true and 0x00 for
// false.
func Bool(v bool) Hash {
	if v {
		return Bytes([]byte{0x01})
	}
	return Bytes([]byte{0x00})
}

// Strings returns the Merkle combine of the member digests in order.
// Order is significant: Strings([a, b]) differs from Strings([b, a]).
func Strings(values []string) Hash {
	hashes := make([]Hash, len(values))
	for i, v := range values {
		hashes[i] = String(v)
	}
	return Combine(hashes)
}

// StringSet returns the combined digest of values treated as a set.
// The members are canonically ordered by value before combining, so the
// result is invariant to insertion order.
func StringSet(values []string) Hash {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return Strings(sorted)
}

// Mapping returns the combined digest of a string mapping. Entries are
// sorted by key, each pair is reduced to Combine([hash(k), hash(v)]),
// and the pair digests are combined in key order. The result is
// invariant to entry order but sensitive to every key and value.
func Mapping(m map[string]string) Hash {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Hash, len(keys))
	for i, k := range keys {
		pairs[i] = Combine([]Hash{String(k), String(m[k])})
	}
	return Combine(pairs)
}

// Combine reduces a list of digests to a single one by hashing adjacent
// pairs up a balanced binary tree. An odd leaf is promoted unchanged to
// the next level, a single digest is returned as-is, and an empty list
// reduces to the digest of the empty string.
func Combine(hashes []Hash) Hash {
	if len(hashes) == 0 {
		return Bytes(nil)
	}

	level := make([]Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			h := blake3.New()
			h.Write(level[i].sum[:])
			h.Write(level[i+1].sum[:])
			var combined Hash
			copy(combined.sum[:], h.Sum(nil))
			next = append(next, combined)
		}
		level = next
	}
	return level[0]
}

// Tree computes the Merkle digest of the filesystem tree rooted at path.
// Entry names participate in each node's digest, so renaming a file
// changes the result even when its contents do not. Directory children
// are visited in name order, symlinks contribute their link target bytes
// without being followed, and special files (pipes, sockets, devices)
// are skipped. The root's own name is excluded so the digest tracks the
// tree's contents rather than where it happens to live.
//
// A path that cannot be read yields a *PathError.
func Tree(path string) (Hash, error) {
	h, err := treeNode(path, "")
	if err != nil {
		return Hash{}, &PathError{Path: path, Err: err}
	}
	return h, nil
}

// treeNode hashes a single node. name is the entry name relative to its
// parent; the digest of a node is Combine([hash(name), content digest]).
func treeNode(path, name string) (Hash, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Hash{}, err
	}

	var content Hash
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return Hash{}, err
		}
		logger.Debug("hashed symlink as leaf node", "symlink", path, "target", target)
		content = String(target)

	case info.IsDir():
		children, err := treeChildren(path)
		if err != nil {
			return Hash{}, err
		}
		content = Combine(children)

	default:
		content, err = fileContents(path)
		if err != nil {
			return Hash{}, err
		}
	}

	return Combine([]Hash{String(name), content}), nil
}

// treeChildren hashes every hashable entry of a directory in name order.
func treeChildren(path string) ([]Hash, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var children []Hash
	for _, entry := range entries {
		if entry.Type()&(os.ModeNamedPipe|os.ModeSocket|os.ModeDevice) != 0 {
			logger.Debug("skipping special file", "entry", entry.Name(), "type", entry.Type())
			continue
		}
		child, err := treeNode(filepath.Join(path, entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func fileContents(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close file", "path", path, "error", err)
		}
	}()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return Hash{}, err
	}
	var sum Hash
	copy(sum.sum[:], h.Sum(nil))
	return sum, nil
}
