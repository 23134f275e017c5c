// Package run provides the "run" command: replay a cached result when
// one is fresh, otherwise execute the command and record it.
package run

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run COMMAND [ARGUMENTS...]",
	Short: "Return cached result or run and cache command",
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
		findOpts, err := cmd.FindOpts(c)
		if err != nil {
			return err
		}

		status, err := deja.New().Run(command, store, recordOpts, findOpts)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(runCmd, false, true)
	cmd.Register(runCmd)
}
