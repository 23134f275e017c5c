// Package main is the entry point for the deja CLI application.
// It initializes all subcommands and executes the root command.
package main

import (
	"github.com/lucho00cuba/deja/cmd"
	_ "github.com/lucho00cuba/deja/cmd/completions"
	_ "github.com/lucho00cuba/deja/cmd/explain"
	_ "github.com/lucho00cuba/deja/cmd/force"
	_ "github.com/lucho00cuba/deja/cmd/hash"
	_ "github.com/lucho00cuba/deja/cmd/read"
	_ "github.com/lucho00cuba/deja/cmd/remove"
	_ "github.com/lucho00cuba/deja/cmd/run"
	_ "github.com/lucho00cuba/deja/cmd/test"
)

// main is the entry point of the application.
// It executes the root command which handles all CLI interactions.
func main() {
	cmd.Execute()
}
