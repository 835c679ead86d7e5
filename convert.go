package viac

import (
	"github.com/etnz/viac/eurofxref"
)

// Converter rebooks transactions into a target currency using the euro
// foreign exchange reference rates.
//
// A nil Converter, or one with an empty target, leaves transactions alone.
// A missing rate is reported as a warning and leaves the transaction in its
// original booking currency, so a single exotic statement never sinks a run.
type Converter struct {
	target   string
	rates    *eurofxref.Table
	warnings []Warning
}

// NewConverter returns a converter rebooking into target using rates.
func NewConverter(target string, rates *eurofxref.Table) *Converter {
	return &Converter{target: target, rates: rates}
}

// Warnings returns the rate lookups that failed so far.
func (c *Converter) Warnings() []Warning {
	if c == nil {
		return nil
	}
	return c.warnings
}

// Apply rebooks the transaction's booked amount (and its stamp tax) into the
// target currency at the rate of the value date, falling back to the last
// known rate before it.
func (c *Converter) Apply(t Transaction) Transaction {
	if c == nil || c.target == "" {
		return t
	}
	from := t.Value().Currency()
	if from == c.target {
		return t
	}
	rate, err := c.rates.Rate(from, c.target, t.When())
	if err != nil {
		c.warnings = append(c.warnings, missingExchangeRate(from+"/"+c.target, t.When()))
		return t
	}

	rebook := func(b *baseTx) { b.Amount = b.Amount.Convert(c.target, rate) }
	tax := func(s *secTx) {
		if !s.Tax.IsZero() && s.Tax.Currency() == from {
			s.Tax = s.Tax.Convert(c.target, rate)
		}
	}

	switch x := t.(type) {
	case Buy:
		rebook(&x.baseTx)
		tax(&x.secTx)
		return x
	case Sell:
		rebook(&x.baseTx)
		tax(&x.secTx)
		return x
	case Dividend:
		rebook(&x.baseTx)
		tax(&x.secTx)
		return x
	case TaxRefund:
		rebook(&x.baseTx)
		tax(&x.secTx)
		return x
	case Deposit:
		rebook(&x.baseTx)
		return x
	case Fee:
		rebook(&x.baseTx)
		return x
	case Interest:
		rebook(&x.baseTx)
		return x
	}
	return t
}
