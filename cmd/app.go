// Package cmd implements the CLI application converting VIAC statements
// into Portfolio Performance import files.
package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists the subcommands.
// A main package registers them all and lets the commander execute the
// user-selected one.
var Commands = []subcommands.Command{
	&convertCmd{},
	&inspectCmd{},
	&fetchRatesCmd{},
}
