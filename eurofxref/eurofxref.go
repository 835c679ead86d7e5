// Package eurofxref loads the ECB euro foreign exchange reference rate
// history and answers cross-rate lookups by date.
//
// The table is loaded once before document processing starts and is
// read-only afterwards, so concurrent lookups need no synchronization.
package eurofxref

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/etnz/viac/date"
	"github.com/shopspring/decimal"
)

// ErrMissingRate reports that no rate exists on or before the requested day
// for the requested pair.
var ErrMissingRate = errors.New("missing exchange rate")

// day is one history row: EUR-based quotes for one date.
type day struct {
	on     date.Date
	quotes map[string]decimal.Decimal
}

// Table is the immutable rate history, EUR-based, oldest day first.
type Table struct {
	days []day
}

// Len returns the number of days in the table.
func (t *Table) Len() int { return len(t.days) }

// Rate returns the base→quote rate most recently published on or before the
// given day, crossing through EUR. It returns ErrMissingRate (wrapped) when
// no such rate exists.
func (t *Table) Rate(base, quote string, on date.Date) (decimal.Decimal, error) {
	if base == quote {
		return decimal.NewFromInt(1), nil
	}
	// first day strictly after `on`
	i := sort.Search(len(t.days), func(i int) bool { return t.days[i].on.After(on) })
	for i--; i >= 0; i-- {
		b, okb := t.eurRate(i, base)
		q, okq := t.eurRate(i, quote)
		if okb && okq {
			return q.Div(b), nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s%s on or before %s", ErrMissingRate, base, quote, on)
}

func (t *Table) eurRate(i int, currency string) (decimal.Decimal, bool) {
	if currency == "EUR" {
		return decimal.NewFromInt(1), true
	}
	v, ok := t.days[i].quotes[currency]
	return v, ok
}

// Load reads an eurofxref-hist table from a CSV file, or from the first CSV
// entry of a zip archive when the path ends in ".zip" (the ECB distributes
// the full history zipped).
func Load(path string) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return loadZip(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rate table: %w", err)
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("malformed rate table %q: %w", path, err)
	}
	return t, nil
}

func loadZip(path string) (*Table, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rate table: %w", err)
	}
	defer z.Close()
	for _, f := range z.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot read %q in rate table: %w", f.Name, err)
		}
		defer r.Close()
		t, err := Read(r)
		if err != nil {
			return nil, fmt.Errorf("malformed rate table %q: %w", path, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("no csv entry in rate table %q", path)
}

// Read parses the eurofxref-hist CSV: a "Date,USD,JPY,…" header followed by
// one row per publication day. Empty or "N/A" cells are skipped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // the ECB file carries a trailing empty column
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	if len(header) < 2 || header[0] != "Date" {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	t := &Table{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		on, err := date.Parse(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(t.days)+2, err)
		}
		d := day{on: on, quotes: make(map[string]decimal.Decimal, len(header)-1)}
		for i := 1; i < len(rec) && i < len(header); i++ {
			cell := strings.TrimSpace(rec[i])
			if cell == "" || cell == "N/A" {
				continue
			}
			v, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", len(t.days)+2, header[i], err)
			}
			d.quotes[header[i]] = v
		}
		t.days = append(t.days, d)
	}
	// the ECB file is newest-first, lookups want oldest-first
	sort.Slice(t.days, func(i, j int) bool { return t.days[i].on.Before(t.days[j].on) })
	return t, nil
}
