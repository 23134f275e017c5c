// Package options parses the user-facing option syntaxes shared by the
// caching subcommands: human-readable durations, exit-code selections,
// watched-path canonicalization, and the default cache root.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucho00cuba/deja/internal/cache"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// InvalidDurationError reports a duration that did not parse.
type InvalidDurationError struct {
	Input string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q, use values like 15s, 30m, 3h, 4d etc", e.Input)
}

// InvalidExitCodeSpecError reports an exit-code selection that did not
// parse.
type InvalidExitCodeSpecError struct {
	Input string
}

func (e *InvalidExitCodeSpecError) Error() string {
	return fmt.Sprintf("invalid exit code specification %q, use values like 0, 1-5, 10+ or a comma-separated list", e.Input)
}

// PathNotFoundError reports a watched path that does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("watch path %q not found", e.Path)
}

// ParseDuration parses durations like 5s, 30m, 2h and 1d.
func ParseDuration(input string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(input)
	if err != nil || d < 0 {
		return 0, &InvalidDurationError{Input: input}
	}
	return d, nil
}

// ParseExitCodes parses a comma-separated exit-code selection. Each
// part is a single code `N`, an inclusive range `N-M`, or `N+` meaning
// N through 255. Codes must lie in [0,255].
func ParseExitCodes(input string) (cache.ExitCodeSet, error) {
	var set cache.ExitCodeSet

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)

		switch {
		case strings.HasSuffix(part, "+"):
			start, err := parseCode(strings.TrimSuffix(part, "+"))
			if err != nil {
				return set, &InvalidExitCodeSpecError{Input: input}
			}
			for i := start; i <= 255; i++ {
				set[i] = true
			}

		case strings.Contains(part, "-"):
			bounds := strings.SplitN(part, "-", 2)
			start, startErr := parseCode(bounds[0])
			end, endErr := parseCode(bounds[1])
			if startErr != nil || endErr != nil || start > end {
				return set, &InvalidExitCodeSpecError{Input: input}
			}
			for i := start; i <= end; i++ {
				set[i] = true
			}

		default:
			code, err := parseCode(part)
			if err != nil {
				return set, &InvalidExitCodeSpecError{Input: input}
			}
			set[code] = true
		}
	}
	return set, nil
}

func parseCode(s string) (int, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if code < 0 || code > 255 {
		return 0, fmt.Errorf("exit code %d out of range", code)
	}
	return code, nil
}

// CanonicalizePaths resolves each watched path to its absolute,
// symlink-free form. A path that does not exist at invocation time is
// a *PathNotFoundError.
func CanonicalizePaths(paths []string) ([]string, error) {
	canonical := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathNotFoundError{Path: p}
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, &PathNotFoundError{Path: p}
		}
		canonical[i] = resolved
	}
	return canonical, nil
}

// DefaultCacheRoot returns `<user-cache-dir>/deja`.
func DefaultCacheRoot() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine cache directory, pass --cache: %w", err)
	}
	return filepath.Join(dir, "deja"), nil
}
