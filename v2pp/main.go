// Command v2pp converts VIAC statement PDFs into Portfolio Performance
// CSV import files.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/viac/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
