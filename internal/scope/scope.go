// Package scope describes one cacheable invocation: the command, its
// arguments, and every watched input that participates in the cache
// key. A Scope is built once per CLI invocation via Builder and frozen
// by Build, which derives the fingerprint.
package scope

import (
	"strings"

	"github.com/lucho00cuba/deja/internal/hasher"
	"github.com/lucho00cuba/deja/internal/logger"
)

// FormatVersion tags the fingerprint layout. Bumping it invalidates
// every existing cache entry.
const FormatVersion = "1"

// Scope is the immutable description of a cacheable invocation. The
// Hash field is the cache key, derived from every other field.
type Scope struct {
	Format     string            `yaml:"format"`
	Cmd        string            `yaml:"cmd"`
	Args       []string          `yaml:"args,omitempty"`
	Shared     bool              `yaml:"shared,omitempty"`
	User       string            `yaml:"user,omitempty"`
	Pwd        string            `yaml:"pwd,omitempty"`
	WatchPaths []string          `yaml:"watch_paths,omitempty"`
	WatchScope []string          `yaml:"watch_scope,omitempty"`
	WatchEnv   map[string]string `yaml:"watch_env,omitempty"`
	Hash       string            `yaml:"hash"`
}

// String renders the scope as the invoked command line.
func (s *Scope) String() string {
	if len(s.Args) == 0 {
		return s.Cmd
	}
	return s.Cmd + " " + strings.Join(s.Args, " ")
}

// Builder accumulates scope fields and derives the fingerprint on
// Build. The zero Builder is not usable; call NewBuilder.
type Builder struct {
	format     string
	cmd        string
	args       []string
	shared     bool
	user       string
	pwd        string
	watchPaths []string
	watchScope []string
	watchEnv   map[string]string
}

// NewBuilder returns a Builder for the current format version.
func NewBuilder() *Builder {
	return &Builder{format: FormatVersion}
}

// Cmd sets the program name.
func (b *Builder) Cmd(cmd string) *Builder {
	b.cmd = cmd
	return b
}

// Args sets the argument list. Order is significant.
func (b *Builder) Args(args []string) *Builder {
	b.args = args
	return b
}

// Shared selects the shared permission policy; the flag itself is part
// of the key. It does not clear the user: a user set on the builder is
// still hashed, so different users collide on the same entry only when
// the scope is built without one, as the CLI does in shared mode.
func (b *Builder) Shared(shared bool) *Builder {
	b.shared = shared
	return b
}

// User sets the invoking user's name.
func (b *Builder) User(user string) *Builder {
	b.user = user
	return b
}

// Pwd sets the working directory as an opaque OS-native byte string.
func (b *Builder) Pwd(pwd string) *Builder {
	b.pwd = pwd
	return b
}

// WatchPaths sets the watched filesystem paths. Paths must already be
// absolute and canonical; order is significant.
func (b *Builder) WatchPaths(paths []string) *Builder {
	b.watchPaths = paths
	return b
}

// WatchScope sets the free-form scope tags. Insertion order does not
// affect the key.
func (b *Builder) WatchScope(tags []string) *Builder {
	b.watchScope = tags
	return b
}

// WatchEnv sets the captured environment variable values. Entry order
// does not affect the key.
func (b *Builder) WatchEnv(env map[string]string) *Builder {
	b.watchEnv = env
	return b
}

// hash combines the field digests in the canonical order: format, cmd,
// args, shared, user, pwd, watch_scope, watch_env, watch_paths.
func (b *Builder) hash() (string, error) {
	pathHashes := make([]hasher.Hash, len(b.watchPaths))
	for i, p := range b.watchPaths {
		h, err := hasher.Tree(p)
		if err != nil {
			return "", err
		}
		pathHashes[i] = h
	}

	key := hasher.Combine([]hasher.Hash{
		hasher.String(b.format),
		hasher.String(b.cmd),
		hasher.Strings(b.args),
		hasher.Bool(b.shared),
		hasher.String(b.user),
		hasher.String(b.pwd),
		hasher.StringSet(b.watchScope),
		hasher.Mapping(b.watchEnv),
		hasher.Combine(pathHashes),
	})
	return key.Hex(), nil
}

// Build computes the fingerprint and freezes the scope.
func (b *Builder) Build() (*Scope, error) {
	key, err := b.hash()
	if err != nil {
		return nil, err
	}
	logger.Debug("built scope", "cmd", b.cmd, "hash", key)
	return &Scope{
		Format:     b.format,
		Cmd:        b.cmd,
		Args:       b.args,
		Shared:     b.shared,
		User:       b.user,
		Pwd:        b.pwd,
		WatchPaths: b.watchPaths,
		WatchScope: b.watchScope,
		WatchEnv:   b.watchEnv,
		Hash:       key,
	}, nil
}
