// Package force provides the "force" command: execute and record the
// command regardless of any existing cache entry.
package force

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var forceCmd = &cobra.Command{
	Use:   "force COMMAND [ARGUMENTS...]",
	Short: "Run and cache command",
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
		recordOpts, err := cmd.RecordOpts(c)
		if err != nil {
			return err
		}

		status, err := deja.New().Force(command, store, recordOpts)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(forceCmd, false, true)
	cmd.Register(forceCmd)
}
