package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/viac/date"
	"github.com/etnz/viac/eurofxref"
	"github.com/google/subcommands"
)

type fetchRatesCmd struct {
	from string
	out  string
}

func (*fetchRatesCmd) Name() string     { return "fetch-rates" }
func (*fetchRatesCmd) Synopsis() string { return "download an exchange rate history for -target-currency" }
func (*fetchRatesCmd) Usage() string {
	return `v2pp fetch-rates [-from <date>] [-o <file>]

  Downloads the EUR reference rate history and writes it in the
  eurofxref-hist CSV layout, ready for 'v2pp convert -rates'.
`
}

func (c *fetchRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "2018-01-01", "First day of the history (VIAC opened in 2018).")
	f.StringVar(&c.out, "o", "eurofxref-hist.csv", "Output file.")
}

func (c *fetchRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from date: %v\n", err)
		return subcommands.ExitUsageError
	}

	w, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer w.Close()

	if err := eurofxref.Fetch(from, w); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := w.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %s\n", c.out)
	return subcommands.ExitSuccess
}
