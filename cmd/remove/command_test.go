package remove

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
		if c.Name() == "remove" {
			found = true
			break
		}
	}
	if !found {
		t.Error("remove command should be registered with the root command")
	}
}

func TestCommandFlags(t *testing.T) {
	for _, name := range []string{"cache", "watch-path", "watch-scope", "watch-env", "exclude-pwd", "share-cache"} {
		if removeCmd.Flags().Lookup(name) == nil {
			t.Errorf("remove command should have the %q flag", name)
		}
	}
	for _, name := range []string{"record-exit-codes", "cache-miss-exit-code"} {
		if removeCmd.Flags().Lookup(name) != nil {
			t.Errorf("remove command should not have the %q flag", name)
		}
	}
}

func TestCommandRequiresArgs(t *testing.T) {
	if err := removeCmd.Args(removeCmd, []string{}); err == nil {
		t.Error("remove command should require a command argument")
	}
	if err := removeCmd.Args(removeCmd, []string{"echo"}); err != nil {
		t.Errorf("remove command should accept a single command argument: %v", err)
	}
}
