package completions

import (
	"io"
	"testing"

	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/logger"
	"github.com/spf13/cobra"
)

func init() {
	// Silence logger during tests - only show errors
	logger.Init("error", "text", io.Discard)
}

func TestCommandRegistered(t *testing.T) {
	found := false
	for _, c := range cmd.GetRootCmd().Commands() {
		if c.Name() == "completions" {
			found = true
			break
		}
	}
	if !found {
		t.Error("completions command should be registered with the root command")
	}
}

func TestShellFlagRequired(t *testing.T) {
	flag := completionsCmd.Flags().Lookup("shell")
	if flag == nil {
		t.Fatal("completions command should have the shell flag")
	}
	if flag.Annotations == nil || len(flag.Annotations[cobra.BashCompOneRequiredFlag]) == 0 {
		t.Error("shell flag should be marked required")
	}
}

func TestUnsupportedShell(t *testing.T) {
	if err := completionsCmd.Flags().Set("shell", "tcsh"); err != nil {
		t.Fatalf("failed to set shell flag: %v", err)
	}
	err := completionsCmd.RunE(completionsCmd, nil)
	if err == nil {
		t.Error("completions should reject an unsupported shell")
	}
}
