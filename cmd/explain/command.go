// Package explain provides the "explain" command: print the inputs
// that make up the command's cache key and the freshness of any
// stored entry.
package explain

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:    "explain COMMAND [ARGUMENTS...]",
	Short:  "Explain cache key for command",
	Args:   cobra.MinimumNArgs(1),
	Hidden: true,
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

		status, err := deja.New().Explain(command, store, findOpts)
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(explainCmd, false, false)
	cmd.Register(explainCmd)
}
