package cmd

import (
	"fmt"
	"os"
	"os/user"

	"github.com/lucho00cuba/deja/internal/cache"
	"github.com/lucho00cuba/deja/internal/executor"
	"github.com/lucho00cuba/deja/internal/options"
	"github.com/lucho00cuba/deja/internal/scope"
	"github.com/spf13/cobra"
)

// Environment variables honoured when the corresponding flag is unset.
const (
	envCache           = "DEJA_CACHE"
	envWatchScope      = "DEJA_WATCH_SCOPE"
	envIgnorePwd       = "DEJA_IGNORE_PWD"
	envLookBack        = "DEJA_LOOK_BACK"
	envCacheFor        = "DEJA_CACHE_FOR"
	envRecordExitCodes = "DEJA_RECORD_EXIT_CODES"
)

// AddCacheFlags registers the caching flags shared by the
// caching-capable subcommands. Flag parsing is non-interspersed so the
// child command's own flags pass through untouched.
func AddCacheFlags(c *cobra.Command, withMissCode, withRecordCodes bool) {
	c.Flags().SetInterspersed(false)

	c.Flags().String("cache", "", "Path used as cache (env "+envCache+", default: <user-cache-dir>/deja)")
	c.Flags().StringArray("watch-path", nil, "Include path contents in cache key. Can be specified multiple times.")
	c.Flags().StringArray("watch-scope", nil, "Include scope string in cache key (env "+envWatchScope+"). Can be specified multiple times.")
	c.Flags().StringArray("watch-env", nil, "Include variable value in cache key. Can be specified multiple times.")
	c.Flags().Bool("exclude-pwd", false, "Remove current directory from cache key (env "+envIgnorePwd+")")
	c.Flags().Bool("share-cache", false, "Use a cache shared between all users")
	c.Flags().String("look-back", "", "How far back in time to look for cached results, e.g. 5s, 30m, 2h, 1d (env "+envLookBack+")")
	c.Flags().String("cache-for", "", "How long a cached result should be valid, e.g. 5s, 30m, 2h, 1d (env "+envCacheFor+")")

	if withRecordCodes {
		c.Flags().String("record-exit-codes", "", "Exit codes to record in the cache, e.g. 0, 1-5, 10+ (env "+envRecordExitCodes+", default: 0)")
	}
	if withMissCode {
		c.Flags().Int("cache-miss-exit-code", 1, "Exit code when a cache miss occurs, between 1 and 255 (default: 1)")
	}
}

// MissCode returns the validated --cache-miss-exit-code value. The
// code must lie in [1,255]: zero would collide with the success path
// and anything larger cannot be carried by a process exit status.
func MissCode(c *cobra.Command) (int, error) {
	code, err := c.Flags().GetInt("cache-miss-exit-code")
	if err != nil {
		return 0, err
	}
	if code < 1 || code > 255 {
		return 0, fmt.Errorf("invalid cache-miss-exit-code %d, must be between 1 and 255", code)
	}
	return code, nil
}

// stringFlagOrEnv returns the flag value when set, otherwise the
// environment fallback, otherwise empty.
func stringFlagOrEnv(c *cobra.Command, name, env string) string {
	if c.Flags().Changed(name) {
		v, _ := c.Flags().GetString(name)
		return v
	}
	return os.Getenv(env)
}

func boolFlagOrEnv(c *cobra.Command, name, env string) bool {
	if c.Flags().Changed(name) {
		v, _ := c.Flags().GetBool(name)
		return v
	}
	return os.Getenv(env) != ""
}

// BuildCommand constructs the command scope from the positional
// arguments and caching flags. args[0] is the program; the rest are
// passed to it verbatim.
func BuildCommand(c *cobra.Command, args []string) (*cache.Command, error) {
	watchPathFlags, _ := c.Flags().GetStringArray("watch-path")
	watchPaths, err := options.CanonicalizePaths(watchPathFlags)
	if err != nil {
		return nil, err
	}

	watchScope, _ := c.Flags().GetStringArray("watch-scope")
	if len(watchScope) == 0 {
		// The env fallback is one tag, not a list: a multi-word value
		// must hash the same as --watch-scope with that exact string.
		if env := os.Getenv(envWatchScope); env != "" {
			watchScope = []string{env}
		}
	}

	watchEnvNames, _ := c.Flags().GetStringArray("watch-env")
	watchEnv := make(map[string]string, len(watchEnvNames))
	for _, name := range watchEnvNames {
		watchEnv[name] = os.Getenv(name)
	}

	shareCache, _ := c.Flags().GetBool("share-cache")

	builder := scope.NewBuilder().
		Cmd(args[0]).
		Args(args[1:]).
		WatchPaths(watchPaths).
		WatchScope(watchScope).
		WatchEnv(watchEnv)

	if !boolFlagOrEnv(c, "exclude-pwd", envIgnorePwd) {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		builder.Pwd(pwd)
	}

	if shareCache {
		builder.Shared(true)
	} else {
		u, err := user.Current()
		if err != nil {
			return nil, err
		}
		builder.User(u.Username)
	}

	sc, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &cache.Command{Scope: sc, Runner: executor.New()}, nil
}

// OpenStore opens the disk store selected by --cache, DEJA_CACHE, or
// the default user cache directory.
func OpenStore(c *cobra.Command) (*cache.DiskStore, error) {
	root := stringFlagOrEnv(c, "cache", envCache)
	if root == "" {
		var err error
		root, err = options.DefaultCacheRoot()
		if err != nil {
			return nil, err
		}
	}
	shareCache, _ := c.Flags().GetBool("share-cache")
	return cache.NewDiskStore(root, shareCache), nil
}

// RecordOpts parses --record-exit-codes and --cache-for into record
// options.
func RecordOpts(c *cobra.Command) (cache.RecordOptions, error) {
	opts := cache.RecordOptions{RecordExitCodes: cache.RecordDefault()}

	if spec := stringFlagOrEnv(c, "record-exit-codes", envRecordExitCodes); spec != "" {
		set, err := options.ParseExitCodes(spec)
		if err != nil {
			return opts, err
		}
		opts.RecordExitCodes = set
	}

	if input := stringFlagOrEnv(c, "cache-for", envCacheFor); input != "" {
		d, err := options.ParseDuration(input)
		if err != nil {
			return opts, err
		}
		opts.CacheFor = &d
	}
	return opts, nil
}

// FindOpts parses --look-back into find options.
func FindOpts(c *cobra.Command) (cache.FindOptions, error) {
	var opts cache.FindOptions
	if input := stringFlagOrEnv(c, "look-back", envLookBack); input != "" {
		d, err := options.ParseDuration(input)
		if err != nil {
			return opts, err
		}
		opts.MaxAge = &d
	}
	return opts, nil
}
