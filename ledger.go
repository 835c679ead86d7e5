package viac

import (
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger collects the transactions of one run, grouped by portfolio, and
// indexes the securities they reference.
//
// Transactions are appended in document order; Sorted() establishes the
// chronological order required before reconciliation, stable on insertion
// order for same-date ties.
type Ledger struct {
	portfolios map[string][]Transaction
	securities map[string]*Security // index securities by ISIN
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		portfolios: make(map[string][]Transaction),
		securities: make(map[string]*Security),
	}
}

// Security returns the security registered for this ISIN, or nil if unknown.
func (l *Ledger) Security(isin string) *Security {
	return l.securities[isin]
}

// Append validates and records transactions into their portfolios.
//
// The first trade referencing an ISIN fixes the security's name and trading
// currency. A later trade reporting a different currency for the same ISIN is
// rejected with a CurrencyConflictError. Dividends may legitimately arrive in
// another currency than the trades, so they never register nor conflict.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		if err := l.registerSecurity(tx); err != nil {
			return err
		}
		p := tx.Where()
		l.portfolios[p] = append(l.portfolios[p], tx)
	}
	return nil
}

func (l *Ledger) registerSecurity(tx Transaction) error {
	var isin, name, currency string
	switch t := tx.(type) {
	case Buy:
		isin, name, currency = t.ISIN, t.Name, t.Gross.Currency()
	case Sell:
		isin, name, currency = t.ISIN, t.Name, t.Gross.Currency()
	default:
		return nil
	}
	if sec, ok := l.securities[isin]; ok {
		if sec.Currency != currency {
			return &CurrencyConflictError{ISIN: isin, Have: sec.Currency, Got: currency}
		}
		return nil
	}
	l.securities[isin] = &Security{ISIN: isin, Name: name, Currency: currency}
	return nil
}

// Portfolios returns the portfolio numbers in deterministic order.
func (l *Ledger) Portfolios() []string {
	return slices.Sorted(maps.Keys(l.portfolios))
}

// Sorted returns the transactions of a portfolio in chronological order,
// stable on document order for same-date ties.
func (l *Ledger) Sorted(portfolio string) []Transaction {
	txs := slices.Clone(l.portfolios[portfolio])
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].When().Before(txs[j].When())
	})
	return txs
}

// AllSecurities iterates over the registered securities in ISIN order.
func (l *Ledger) AllSecurities() iter.Seq[Security] {
	return func(yield func(Security) bool) {
		for _, isin := range slices.Sorted(maps.Keys(l.securities)) {
			if !yield(*l.securities[isin]) {
				return
			}
		}
	}
}

// Len returns the total number of transactions in the ledger.
func (l *Ledger) Len() int {
	n := 0
	for _, txs := range l.portfolios {
		n += len(txs)
	}
	return n
}
