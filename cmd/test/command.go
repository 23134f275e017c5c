// Package test provides the "test" command: exit 0 when a fresh entry
// exists for the command, 1 otherwise. Nothing is replayed or
// executed.
package test

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test COMMAND [ARGUMENTS...]",
	Short: "Test if command is cached",
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

		status, err := deja.New().Test(command, store, findOpts)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(testCmd, false, false)
	cmd.Register(testCmd)
}
