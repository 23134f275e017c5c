// Package read provides the "read" command: replay a cached result
// when one is fresh, otherwise exit with the cache-miss code. The
// command itself is never executed.
package read

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read COMMAND [ARGUMENTS...]",
	Short: "Return cached result or exit",
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
		findOpts, err := cmd.FindOpts(c)
		if err != nil {
			return err
		}
		missCode, err := cmd.MissCode(c)
		if err != nil {
			return err
		}

		status, err := deja.New().Read(command, store, findOpts, missCode)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(readCmd, true, false)
	cmd.Register(readCmd)
}
