package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/etnz/viac"
	"github.com/etnz/viac/eurofxref"
	"github.com/etnz/viac/pdftext"
	"github.com/etnz/viac/statement"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type convertCmd struct {
	out      string
	target   string
	rates    string
	noAdjust bool
	jobs     int
	verbose  bool
}

func (*convertCmd) Name() string { return "convert" }
func (*convertCmd) Synopsis() string {
	return "convert VIAC statement PDFs into Portfolio Performance CSV files"
}
func (*convertCmd) Usage() string {
	return `v2pp convert [-o <dir>] [-target-currency <CUR> -rates <file>] <pdf file or folder>...

  Reads every VIAC statement PDF given (folders are walked recursively),
  groups the transactions per portfolio and writes one securities file plus
  an account and a portfolio CSV per portfolio, ready for the Portfolio
  Performance CSV importer.

  Documents that are not VIAC statements are skipped. A statement with an
  unreadable line is imported without that line and reported. The run only
  fails when nothing could be read at all.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", ".", "Output folder for the generated CSV files.")
	f.StringVar(&c.target, "target-currency", "", "Rebook all amounts into this currency (needs -rates).")
	f.StringVar(&c.rates, "rates", "", "Exchange rate history in eurofxref-hist layout (.csv or .zip).")
	f.BoolVar(&c.noAdjust, "no-adjust-shares", false, "Export the printed share counts unchanged.")
	f.IntVar(&c.jobs, "j", runtime.NumCPU(), "Number of PDFs parsed in parallel.")
	f.BoolVar(&c.verbose, "v", false, "Log every document and every adjustment.")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one PDF file or folder expected")
		return subcommands.ExitUsageError
	}
	if c.target != "" && c.rates == "" {
		fmt.Fprintln(os.Stderr, "-target-currency needs an exchange rate history, see 'v2pp fetch-rates'")
		return subcommands.ExitUsageError
	}

	var converter *viac.Converter
	if c.target != "" {
		table, err := eurofxref.Load(c.rates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read exchange rates %q: %v\n", c.rates, err)
			return subcommands.ExitFailure
		}
		converter = viac.NewConverter(strings.ToUpper(c.target), table)
	}

	paths, err := collect(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no PDF files found")
		return subcommands.ExitFailure
	}

	results, errs := c.parseAll(ctx, paths)

	var sum summary
	sum.Documents = len(paths)
	ledger := viac.NewLedger()
	for i, path := range paths {
		switch err := errs[i]; {
		case err == nil:
		case errors.Is(err, viac.ErrUnrecognizedDocument), errors.Is(err, viac.ErrUnsupportedDocument):
			sum.Skipped++
			if c.verbose {
				log.Printf("skipped: %v", err)
			}
			continue
		default:
			sum.Failed++
			log.Printf("cannot read %s: %v", path, err)
			continue
		}
		r := results[i]
		sum.Parsed++
		if len(r.LineErrors) > 0 {
			sum.Partial++
			for _, e := range r.LineErrors {
				log.Printf("partially parsed: %v", e)
			}
		}
		for _, t := range r.Transactions {
			if err := ledger.Append(t); err != nil {
				sum.Failed++
				log.Printf("rejected transaction from %s: %v", path, err)
				continue
			}
			sum.Transactions++
		}
	}

	// reconciliation and conversion are sequential: holdings accumulate in
	// statement order per portfolio
	rec := viac.NewReconciler(!c.noAdjust)
	adjusted := viac.NewLedger()
	for _, p := range ledger.Portfolios() {
		txs := ledger.Sorted(p)
		if c.verbose {
			c.logDivergences(txs)
		}
		kept, errs := rec.Portfolio(p, txs)
		for _, e := range errs {
			sum.Failed++
			log.Printf("portfolio %s: %v", p, e)
		}
		for _, t := range kept {
			if err := adjusted.Append(converter.Apply(t)); err != nil {
				sum.Failed++
				log.Printf("portfolio %s: %v", p, err)
			}
		}
	}

	files, warns, err := viac.Export(c.out, adjusted)
	sum.Files = files
	sum.Warnings = append(sum.Warnings, rec.Warnings()...)
	sum.Warnings = append(sum.Warnings, converter.Warnings()...)
	sum.Warnings = append(sum.Warnings, warns...)
	sum.print()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot write to %s: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	if sum.Parsed == 0 {
		fmt.Fprintln(os.Stderr, "no VIAC statement could be read")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseAll reads and parses the documents, a bounded number at a time. Slots
// keep the input order so the run is deterministic however the parses
// interleave.
func (c *convertCmd) parseAll(ctx context.Context, paths []string) ([]*statement.Result, []error) {
	results := make([]*statement.Result, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.jobs))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := pdftext.Read(path)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
				return nil
			}
			if c.verbose {
				log.Printf("parsing %s", path)
			}
			results[i], errs[i] = statement.Parse(doc)
			return nil
		})
	}
	g.Wait()
	return results, errs
}

// logDivergences reports trades whose printed share count disagrees with
// the cash amount, the defect quantity adjustment corrects.
func (c *convertCmd) logDivergences(txs []viac.Transaction) {
	for _, tx := range txs {
		switch t := tx.(type) {
		case viac.Buy:
			if viac.Diverges(t.Gross, t.Price, t.Quantity) {
				log.Printf("%s: buy %s diverges by %s%%", t.When(), t.ISIN, viac.Divergence(t.Gross, t.Price, t.Quantity))
			}
		case viac.Sell:
			if viac.Diverges(t.Gross, t.Price, t.Quantity) {
				log.Printf("%s: sell %s diverges by %s%%", t.When(), t.ISIN, viac.Divergence(t.Gross, t.Price, t.Quantity))
			}
		}
	}
}

// collect expands the arguments into the list of PDF files to read,
// walking folders recursively.
func collect(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// summary is what the run reports at the end, on success and on failure.
type summary struct {
	Documents    int
	Parsed       int
	Skipped      int
	Partial      int
	Failed       int
	Transactions int
	Files        []string
	Warnings     []viac.Warning
}

func (s *summary) print() {
	log.Printf("%d documents: %d parsed (%d partially), %d skipped, %d errors, %d transactions",
		s.Documents, s.Parsed, s.Partial, s.Skipped, s.Failed, s.Transactions)
	for _, w := range s.Warnings {
		log.Printf("warning: %s", w)
	}
	for _, f := range s.Files {
		log.Printf("wrote %s", f)
	}
}
