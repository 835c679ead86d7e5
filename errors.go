package viac

import (
	"errors"
	"fmt"

	"github.com/etnz/viac/date"
)

// Document-scoped failures. They are recorded against the offending document
// and never abort the batch; only path- or configuration-level errors do.
var (
	// ErrUnrecognizedDocument marks a PDF that is not a VIAC statement in
	// any known language. The document is skipped.
	ErrUnrecognizedDocument = errors.New("unrecognized document")

	// ErrUnsupportedDocument marks a genuine VIAC statement of a kind the
	// converter does not handle (e.g. a dividend correction).
	ErrUnsupportedDocument = errors.New("unsupported document type")
)

// UnparseableLineError reports a recognized document whose required fields
// could not be extracted. The document is flagged partially parsed.
type UnparseableLineError struct {
	File   string // source file, for diagnostics
	Marker string // the statement marker that was being resolved
	Err    error  // underlying cause, may be nil when the marker is absent
}

func (e *UnparseableLineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: marker %q not found", e.File, e.Marker)
	}
	return fmt.Sprintf("%s: marker %q: %v", e.File, e.Marker, e.Err)
}

func (e *UnparseableLineError) Unwrap() error { return e.Err }

// CurrencyConflictError reports a trade whose currency contradicts the
// currency first observed for the same ISIN. Fatal for the document, not the
// batch.
type CurrencyConflictError struct {
	ISIN string
	Have string // currency fixed by the first trade
	Got  string // conflicting currency
}

func (e *CurrencyConflictError) Error() string {
	return fmt.Sprintf("security %s trades in %s, got %s", e.ISIN, e.Have, e.Got)
}

// InvalidReconciliationError reports a Buy whose derived quantity is not
// positive. The line is fatal for its document.
type InvalidReconciliationError struct {
	ISIN     string
	Date     date.Date
	Quantity Quantity
}

func (e *InvalidReconciliationError) Error() string {
	return fmt.Sprintf("buy of %s on %s reconciles to non-positive quantity %s", e.ISIN, e.Date, e.Quantity)
}

// Warning is a non-fatal observation reported in the run summary.
type Warning struct {
	Code string // "ClampedSale", "MissingExchangeRate", "EmptyPortfolio"
	Text string
}

func (w Warning) String() string { return w.Code + ": " + w.Text }

func clampedSale(portfolio, isin string, on date.Date, want, got Quantity) Warning {
	return Warning{
		Code: "ClampedSale",
		Text: fmt.Sprintf("portfolio %s: sell of %s on %s clamped from %s to remaining holding %s", portfolio, isin, on, want, got),
	}
}

func missingExchangeRate(pair string, on date.Date) Warning {
	return Warning{
		Code: "MissingExchangeRate",
		Text: fmt.Sprintf("no %s rate on or before %s, transaction left unconverted", pair, on),
	}
}

func emptyPortfolio(portfolio string) Warning {
	return Warning{
		Code: "EmptyPortfolio",
		Text: fmt.Sprintf("portfolio %s produced no rows", portfolio),
	}
}
