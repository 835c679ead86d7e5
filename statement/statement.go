// Package statement turns the text of a VIAC statement into transactions.
//
// A statement is either an advice (one document, one transaction: a trade,
// a dividend, a fee, an interest credit or a deposit) or a tabular account
// statement carrying many transaction rows. Both German and French layouts
// are understood; the phrases differ, the structure does not.
package statement

import (
	"fmt"
	"strings"

	"github.com/etnz/viac"
	"github.com/etnz/viac/pdftext"
)

// author is the PDF author VIAC stamps on every statement it issues.
const author = "VIAC"

// Result is the outcome of parsing a single statement.
//
// A document with a non-empty LineErrors is partially parsed: the listed
// lines could not be turned into transactions, everything else could.
type Result struct {
	File         string
	Language     Language
	Account      string // contract number, e.g. "3a.123456"
	Portfolio    string // portfolio number within the contract
	Transactions []viac.Transaction
	LineErrors   []error
}

// Parse classifies and parses one extracted document.
//
// It returns viac.ErrUnrecognizedDocument when the document is not a VIAC
// statement at all, and viac.ErrUnsupportedDocument for statement kinds
// that are recognized but cannot be imported (dividend corrections).
func Parse(doc *pdftext.Document) (*Result, error) {
	if doc.Author != author {
		return nil, fmt.Errorf("%s: author %q: %w", doc.Path, doc.Author, viac.ErrUnrecognizedDocument)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("%s: empty document: %w", doc.Path, viac.ErrUnrecognizedDocument)
	}

	loc := detect(doc.Pages[0])
	if loc == nil {
		return nil, fmt.Errorf("%s: no known phrase found: %w", doc.Path, viac.ErrUnrecognizedDocument)
	}
	class := classify(doc.Pages[0], loc)
	switch class {
	case docUnknown:
		return nil, fmt.Errorf("%s: %s statement of unknown kind: %w", doc.Path, loc.lang, viac.ErrUnrecognizedDocument)
	case docDividendCorrection:
		return nil, fmt.Errorf("%s: dividend correction: %w", doc.Path, viac.ErrUnsupportedDocument)
	}

	p := newPage(doc.Pages[0])
	account, portfolio, err := p.numbers(loc)
	if err != nil {
		return nil, stamp(doc.Path, err)
	}
	r := &Result{
		File:      doc.Path,
		Language:  loc.lang,
		Account:   account,
		Portfolio: portfolio,
	}

	if class == docAccountStatement {
		rows, errs := extractLines(doc)
		r.LineErrors = errs
		for _, row := range rows {
			t, err := parseRow(doc.Path, loc, portfolio, account, row)
			if err != nil {
				r.LineErrors = append(r.LineErrors, err)
				continue
			}
			r.Transactions = append(r.Transactions, t)
		}
		return r, nil
	}

	t, err := p.advice(doc.Path, loc, class, portfolio, account)
	if err != nil {
		r.LineErrors = append(r.LineErrors, err)
		return r, nil
	}
	r.Transactions = append(r.Transactions, t)
	return r, nil
}

// stamp records the source file on extraction errors that lack one.
func stamp(file string, err error) error {
	if u, ok := err.(*viac.UnparseableLineError); ok && u.File == "" {
		u.File = file
	}
	return err
}

// detect returns the locale whose phrases appear on the page, or nil.
func detect(lines []string) *locale {
	text := strings.Join(lines, "\n")
	for _, loc := range locales {
		for _, a := range loc.anchors {
			if strings.Contains(text, a) {
				return loc
			}
		}
	}
	return nil
}

// classify resolves the document class from the first page headline.
func classify(lines []string, loc *locale) docClass {
	text := strings.Join(lines, "\n")
	for _, d := range loc.docs {
		if strings.Contains(text, d.marker) {
			return d.class
		}
	}
	return docUnknown
}
