package viac

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Export file layout, one security master plus two tables per portfolio.
// The names and the German headers are the ones the Portfolio Performance
// CSV importer is configured for.
const sharesFile = "VIAC_any_account_Shares.csv"

var sharesHeader = []string{"ISIN", "WKN", "Ticker-Symbol", "Wertpapiername", "Währung", "Notiz"}

var tableHeader = []string{
	"Datum", "Typ", "Wert", "Buchungswährung",
	"Bruttobetrag", "Währung Bruttobetrag", "Wechselkurs",
	"Gebühren", "Steuern", "Stück", "ISIN", "Notiz",
}

// Export writes the ledger as CSV files into dir: the security master, and
// an account and a portfolio table per portfolio number. It returns the
// paths written. Running it twice over the same ledger writes identical
// files.
func Export(dir string, l *Ledger) (files []string, warns []Warning, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	var shares [][]string
	for s := range l.AllSecurities() {
		shares = append(shares, []string{s.ISIN, "", "", s.Name, s.Currency, ""})
	}
	if len(shares) > 0 {
		p := filepath.Join(dir, sharesFile)
		if err := writeCSV(p, sharesHeader, shares); err != nil {
			return files, warns, err
		}
		files = append(files, p)
	}

	for _, portfolio := range l.Portfolios() {
		var account, trades [][]string
		for _, t := range l.Sorted(portfolio) {
			if t.What().IsTrade() {
				trades = append(trades, row(t))
			} else {
				account = append(account, row(t))
			}
		}
		if len(account) == 0 && len(trades) == 0 {
			warns = append(warns, emptyPortfolio(portfolio))
			continue
		}
		if len(account) > 0 {
			p := filepath.Join(dir, fmt.Sprintf("VIAC_%s_Account.csv", portfolio))
			if err := writeCSV(p, tableHeader, account); err != nil {
				return files, warns, err
			}
			files = append(files, p)
		}
		if len(trades) > 0 {
			p := filepath.Join(dir, fmt.Sprintf("VIAC_%s_Portfolio.csv", portfolio))
			if err := writeCSV(p, tableHeader, trades); err != nil {
				return files, warns, err
			}
			files = append(files, p)
		}
	}
	return files, warns, nil
}

// row renders one transaction into the shared table layout.
func row(t Transaction) []string {
	r := make([]string, len(tableHeader))
	r[0] = t.When().String()
	r[1] = string(t.What())
	r[2] = t.Value().Fixed()
	r[3] = t.Value().Currency()
	r[11] = t.Source()

	fill := func(s secTx, quantity Quantity) {
		r[10] = s.ISIN
		if !quantity.IsZero() {
			r[9] = quantity.Fixed()
		}
		if !s.Tax.IsZero() {
			r[8] = s.Tax.Abs().Fixed()
		}
		// a gross amount in another currency carries its own columns and
		// the effective exchange rate of the booking
		if s.Gross.Currency() != s.Amount.Currency() && !s.Gross.IsZero() {
			r[4] = s.Gross.Fixed()
			r[5] = s.Gross.Currency()
			r[6] = s.Amount.Abs().Amount().Div(s.Gross.Amount()).RoundBank(Scale).StringFixed(Scale)
		}
	}

	switch x := t.(type) {
	case Buy:
		fill(x.secTx, x.Quantity)
	case Sell:
		fill(x.secTx, x.Quantity)
	case Dividend:
		fill(x.secTx, x.Quantity)
	case TaxRefund:
		fill(x.secTx, x.Quantity)
	}
	return r
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
