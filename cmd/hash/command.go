// Package hash provides the "hash" command: print the hex cache key
// generated for a command and its caching options without touching the
// cache.
package hash

import (
	"github.com/lucho00cuba/deja/cmd"
	"github.com/lucho00cuba/deja/internal/cache"
	"github.com/lucho00cuba/deja/internal/deja"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash COMMAND [ARGUMENTS...]",
	Short: "Print hash generated for command and options",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		command, err := cmd.BuildCommand(c, args)
		if err != nil {
			return err
		}

		status, err := deja.New().Hash(command, cache.NewMemoryStore())
		if err != nil {
			return err
		}
		return cmd.Exit(status)
	},
}

func init() {
	cmd.AddCacheFlags(hashCmd, false, false)
	cmd.Register(hashCmd)
}
