package test

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
		if c.Name() == "test" {
			found = true
			break
		}
	}
	if !found {
		t.Error("test command should be registered with the root command")
	}
}

func TestCommandFlags(t *testing.T) {
	for _, name := range []string{"cache", "watch-path", "watch-scope", "watch-env", "exclude-pwd", "share-cache", "look-back"} {
		if testCmd.Flags().Lookup(name) == nil {
			t.Errorf("test command should have the %q flag", name)
		}
	}
	for _, name := range []string{"record-exit-codes", "cache-miss-exit-code"} {
		if testCmd.Flags().Lookup(name) != nil {
			t.Errorf("test command should not have the %q flag", name)
		}
	}
}

func TestCommandRequiresArgs(t *testing.T) {
	if err := testCmd.Args(testCmd, []string{}); err == nil {
		t.Error("test command should require a command argument")
	}
	if err := testCmd.Args(testCmd, []string{"echo"}); err != nil {
		t.Errorf("test command should accept a single command argument: %v", err)
	}
}
