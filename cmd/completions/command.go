// Package completions provides the "completions" command for emitting
// shell completion scripts.
package completions

import (
	"fmt"
	"os"

	"github.com/lucho00cuba/deja/cmd"
	"github.com/spf13/cobra"
)

var completionsCmd = &cobra.Command{
	Use:   "completions",
	Short: "Generate shell completions",
	RunE: func(c *cobra.Command, args []string) error {
		shell, err := c.Flags().GetString("shell")
		if err != nil {
			return err
		}

		root := cmd.GetRootCmd()
		switch shell {
		case "bash":
			return root.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unsupported shell %q (bash, fish, zsh, powershell)", shell)
		}
	},
}

func init() {
	completionsCmd.Flags().String("shell", "", "Shell to generate completions for (bash, fish, zsh, powershell)")
	if err := completionsCmd.MarkFlagRequired("shell"); err != nil {
		panic(err)
	}
	cmd.Register(completionsCmd)
}
