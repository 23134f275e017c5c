package force

import (
	"io"
	"testing"

	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/logger"
)

func init() {
	// Silence logger during tests - only show errors
	logger.Init("error", "text", io.Discard)
}

func TestCommandRegistered(t *testing.T) {
	found := false
	for _, c := range cmd.GetRootCmd().Commands() {
		if c.Name() == "force" {
			found = true
			break
		}
	}
	if !found {
		t.Error("force command should be registered with the root command")
	}
}

func TestCommandFlags(t *testing.T) {
	for _, name := range []string{"cache", "watch-path", "watch-scope", "watch-env", "exclude-pwd", "share-cache", "cache-for", "record-exit-codes"} {
		if forceCmd.Flags().Lookup(name) == nil {
			t.Errorf("force command should have the %q flag", name)
		}
	}
	if forceCmd.Flags().Lookup("cache-miss-exit-code") != nil {
		t.Error("force command should not have the cache-miss-exit-code flag")
	}
}

func TestCommandRequiresArgs(t *testing.T) {
	if err := forceCmd.Args(forceCmd, []string{}); err == nil {
		t.Error("force command should require a command argument")
	}
	if err := forceCmd.Args(forceCmd, []string{"echo"}); err != nil {
		t.Errorf("force command should accept a single command argument: %v", err)
	}
}
