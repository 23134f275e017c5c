// Package remove provides the "remove" command: delete the cache
// entry stored under the command's key.
package remove

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove COMMAND [ARGUMENTS...]",
	Short: "Remove command from cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		command, err := cmd.BuildCommand(c, args)
		if err != nil {
			return err
		}
		store, err := cmd.OpenStore(c)
		if err != nil {
			return err
		}

		status, err := deja.New().Remove(command, store)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(removeCmd, false, false)
	cmd.Register(removeCmd)
}
