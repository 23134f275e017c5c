package scope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucho00cuba/deja/internal/hasher"
)

// Explain renders the fingerprint inputs as human-readable text: the
// command line, the optional user and working directory, the scope
// tags, each watched path with its current tree digest, and each
// captured environment variable. Watched paths are re-hashed, so the
// rendering reflects their contents at explain time.
func (s *Scope) Explain() (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "cmd: %s\n", s.String())
	if s.User != "" {
		fmt.Fprintf(&b, "user: %s\n", s.User)
	}
	if s.Pwd != "" {
		fmt.Fprintf(&b, "pwd: %s\n", s.Pwd)
	}

	if len(s.WatchScope) > 0 {
		b.WriteString("scope:")
		for _, tag := range s.WatchScope {
			fmt.Fprintf(&b, " %q", tag)
		}
		b.WriteByte('\n')
	}

	if len(s.WatchPaths) > 0 {
		b.WriteString("paths:\n")
		for _, p := range s.WatchPaths {
			h, err := hasher.Tree(p)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  %s: %s\n", p, h.Hex())
		}
	}

	if len(s.WatchEnv) > 0 {
		b.WriteString("env:\n")
		names := make([]string, 0, len(s.WatchEnv))
		for name := range s.WatchEnv {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s\n", name, s.WatchEnv[name])
		}
	}

	return b.String(), nil
}
