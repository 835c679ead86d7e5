package statement

import (
	"fmt"
	"strings"

	"github.com/etnz/viac"
	"github.com/etnz/viac/date"
	"github.com/etnz/viac/pdftext"
	"github.com/shopspring/decimal"
)

// RawLine is one shaped transaction row of a tabular account statement:
// a value date, a free-text description and a booked amount, optionally a
// currency and a running balance.
type RawLine struct {
	Date        date.Date
	Description string
	Amount      string // decimal text as printed
	Currency    string // empty when the column is absent
	Balance     string // running balance, empty when absent
	ISIN        string // inherited from the preceding security header
}

// extractLines shapes the pages of a tabular account statement into rows.
//
// A row starts with a dotted date column and carries at least one numeric
// column. A line with no leading date directly below a row is a wrapped
// description and is merged into it. A line starting with "ISIN:" opens a
// security section; rows below inherit that ISIN until the next section.
// Everything else (headers, footers, addresses) is dropped. Lines that open
// like a row but carry no amount are reported as unparseable.
func extractLines(doc *pdftext.Document) ([]RawLine, []error) {
	var rows []RawLine
	var errs []error
	for _, lines := range doc.Pages {
		isin := ""    // current security section
		last := -1000 // index of the line the previous row came from
		for i, line := range lines {
			cols := columns(line)
			if len(cols) == 0 {
				continue
			}
			if code, ok := isinHeader(cols); ok {
				isin = code
				continue
			}
			day, err := date.ParseDotted(cols[0])
			if err != nil {
				// wrapped description directly below a row
				if i == last+1 && len(rows) > 0 && !numericRow(cols) {
					rows[len(rows)-1].Description += " " + strings.Join(cols, " ")
					last = i
				}
				continue
			}
			row, ok := shape(day, cols[1:])
			if !ok {
				errs = append(errs, &viac.UnparseableLineError{
					File:   doc.Path,
					Marker: cols[0],
					Err:    fmt.Errorf("transaction row without amount: %q", line),
				})
				continue
			}
			row.ISIN = isin
			rows = append(rows, row)
			last = i
		}
	}
	return rows, errs
}

// columns splits a physical line into trimmed column cells.
func columns(line string) []string {
	var cols []string
	for _, c := range strings.Split(line, "\t") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// isinHeader recognizes a security section header, "ISIN:" followed by the
// code in the same or the next column.
func isinHeader(cols []string) (string, bool) {
	for i, c := range cols {
		if !strings.HasPrefix(c, "ISIN:") {
			continue
		}
		code := strings.TrimSpace(c[len("ISIN:"):])
		if code == "" && i+1 < len(cols) {
			code = cols[i+1]
		}
		if viac.ValidateISIN(code) == nil {
			return code, true
		}
	}
	return "", false
}

// shape assembles a row from the columns after the date: description text,
// then the booked amount, an optional currency and an optional balance.
func shape(day date.Date, cols []string) (RawLine, bool) {
	row := RawLine{Date: day}
	var desc []string
	for _, c := range cols {
		switch {
		case isAmount(c):
			if row.Amount == "" {
				row.Amount = c
			} else {
				row.Balance = c
			}
		case isCurrency(c):
			if row.Currency == "" {
				row.Currency = c
			}
		default:
			desc = append(desc, c)
		}
	}
	row.Description = strings.Join(desc, " ")
	if row.Amount == "" || row.Description == "" {
		return RawLine{}, false
	}
	return row, true
}

// isAmount reports whether the column is a decimal number, tolerating the
// apostrophe group marks and the leading sign statements print.
func isAmount(s string) bool {
	s = strings.ReplaceAll(s, "'", "")
	_, err := decimal.NewFromString(s)
	return err == nil
}

// numericRow reports whether any column looks like an amount, which rules a
// line out as a wrapped description.
func numericRow(cols []string) bool {
	for _, c := range cols {
		if isAmount(c) {
			return true
		}
	}
	return false
}

// parseRow maps one shaped row to a transaction using the language's
// keyword table. First match wins, so the table orders specific phrases
// before generic ones.
func parseRow(file string, loc *locale, portfolio, account string, row RawLine) (viac.Transaction, error) {
	kind := viac.Kind("")
	for _, k := range loc.keywords {
		if strings.Contains(row.Description, k.word) {
			kind = k.kind
			break
		}
	}
	if kind == "" {
		return nil, &viac.UnparseableLineError{
			File:   file,
			Marker: row.Description,
			Err:    fmt.Errorf("no transaction kind matches"),
		}
	}

	cur := row.Currency
	if cur == "" {
		cur = "CHF"
	}
	amount, err := viac.ParseMoney(cur, row.Amount)
	if err != nil {
		return nil, &viac.UnparseableLineError{File: file, Marker: row.Description, Err: err}
	}

	switch kind {
	case viac.KindDeposit:
		t := viac.NewDeposit(row.Date, portfolio, amount)
		t.Account, t.Note = account, file
		return t, nil
	case viac.KindInterest:
		t := viac.NewInterest(row.Date, portfolio, amount)
		t.Account, t.Note = account, file
		return t, nil
	case viac.KindFee:
		t := viac.NewFee(row.Date, portfolio, amount)
		t.Account, t.Note = account, file
		return t, nil
	case viac.KindDividend, viac.KindTaxRefund:
		if row.ISIN == "" {
			return nil, &viac.UnparseableLineError{
				File:   file,
				Marker: row.Description,
				Err:    fmt.Errorf("%s row outside a security section", kind),
			}
		}
		if kind == viac.KindDividend {
			t := viac.NewDividend(row.Date, portfolio, row.ISIN, "", viac.Quantity{}, viac.Money{}, amount)
			t.Account, t.Note = account, file
			return t, nil
		}
		t := viac.NewTaxRefund(row.Date, portfolio, row.ISIN, "", viac.Quantity{}, viac.Money{}, amount)
		t.Account, t.Note = account, file
		return t, nil
	default:
		// trades need a share count and a unit price, which statement rows
		// do not print; the matching trade advice carries them
		return nil, &viac.UnparseableLineError{
			File:   file,
			Marker: row.Description,
			Err:    fmt.Errorf("%s row carries no share quantity", kind),
		}
	}
}
