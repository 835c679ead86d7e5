package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/viac/pdftext"
	"github.com/google/subcommands"
)

// inspectCmd dumps the text a PDF extracts to, the first thing to look at
// when a statement does not parse.
type inspectCmd struct{}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "print the text extracted from a PDF" }
func (*inspectCmd) Usage() string {
	return `v2pp inspect <file.pdf>...

  Prints the author and the extracted text lines of each PDF, column breaks
  shown as '|'. Useful to see what the parser sees when a statement is
  skipped or misread.
`
}
func (*inspectCmd) SetFlags(*flag.FlagSet) {}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one PDF file expected")
		return subcommands.ExitUsageError
	}
	status := subcommands.ExitSuccess
	for _, path := range f.Args() {
		doc, err := pdftext.Read(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("# %s (author %q)\n", doc.Path, doc.Author)
		for p, lines := range doc.Pages {
			fmt.Printf("## page %d\n", p+1)
			for _, line := range lines {
				fmt.Println(strings.ReplaceAll(line, "\t", " | "))
			}
		}
	}
	return status
}
