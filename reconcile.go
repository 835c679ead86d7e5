package viac

import (
	"github.com/shopspring/decimal"
)

// one percent, the divergence above which the printed share count is not
// trusted anymore (statement prices are rounded to 2 digits).
var divergenceLimit = decimal.NewFromInt(1)

// holdingKey indexes the running holding state per (portfolio, security).
type holdingKey struct {
	portfolio string
	isin      string
}

// Reconciler recomputes trade share quantities so that quantity times unit
// price matches the statement's cash amount at working precision.
//
// Statements print share counts at a coarser precision than cash amounts;
// importing them as-is produces implausible per-share price jumps in the
// downstream charts. The reconciler derives the count from amount and price
// instead, and clamps oversized sells so a holding never goes negative and a
// full liquidation lands on exactly zero.
//
// The reconciled quantity is an approximation: it is self-consistent at
// working precision but is not guaranteed to match the executed quantity.
type Reconciler struct {
	// Enabled toggles quantity adjustment. When false, printed quantities
	// pass through unchanged and no invariant is enforced.
	Enabled bool

	holdings map[holdingKey]Quantity
	warnings []Warning
}

// NewReconciler returns a reconciler with adjustment enabled or not.
func NewReconciler(enabled bool) *Reconciler {
	return &Reconciler{Enabled: enabled, holdings: make(map[holdingKey]Quantity)}
}

// Warnings returns the warnings recorded so far, in emission order.
func (r *Reconciler) Warnings() []Warning { return r.warnings }

// Holding returns the current reconciled holding for a (portfolio, ISIN).
func (r *Reconciler) Holding(portfolio, isin string) Quantity {
	return r.holdings[holdingKey{portfolio, isin}]
}

// Portfolio reconciles one portfolio's transactions, which must already be in
// chronological order. It returns the transactions with adjusted quantities,
// and the per-line errors for transactions it had to drop.
//
// Reconciliation is strictly sequential per portfolio: a clamping decision is
// only correct once all earlier buys are known.
func (r *Reconciler) Portfolio(portfolio string, txs []Transaction) (kept []Transaction, errs []error) {
	kept = make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		switch t := tx.(type) {
		case Buy:
			q := r.adjusted(t.secTx, t.Quantity, t.Price)
			if !q.IsPositive() {
				errs = append(errs, &InvalidReconciliationError{ISIN: t.ISIN, Date: t.Date, Quantity: q})
				continue
			}
			if r.Enabled {
				key := holdingKey{portfolio, t.ISIN}
				r.holdings[key] = r.holdings[key].Add(q)
			}
			t.Quantity = q
			kept = append(kept, t)
		case Sell:
			q := r.adjusted(t.secTx, t.Quantity, t.Price)
			if r.Enabled {
				key := holdingKey{portfolio, t.ISIN}
				held := r.holdings[key]
				if q.GreaterThan(held) {
					// Deliberate approximation: cap at the remaining holding
					// so the importer's non-negativity constraint holds and a
					// liquidation ends at exactly zero, not an epsilon.
					r.warnings = append(r.warnings, clampedSale(portfolio, t.ISIN, t.Date, q, held))
					q = held
				}
				r.holdings[key] = held.Sub(q)
			}
			t.Quantity = q
			kept = append(kept, t)
		default:
			// cash movements and distributions do not alter holdings
			kept = append(kept, tx)
		}
	}
	return kept, errs
}

// adjusted returns the share quantity to export for a trade: the count
// derived from gross amount and unit price, half-to-even at working
// precision, so that quantity times price lands back on the cash amount.
//
// When an exchange rate is printed on the trade, gross amount and unit price
// are first restated in the booking currency to recover the precision lost
// to 2-digit rounding.
func (r *Reconciler) adjusted(t secTx, printed Quantity, price Money) Quantity {
	if !r.Enabled {
		return printed
	}
	gross := t.Gross
	if !t.Rate.IsZero() && gross.Currency() != t.Amount.Currency() {
		gross = gross.Convert(t.Amount.Currency(), t.Rate)
		price = price.Convert(t.Amount.Currency(), t.Rate)
	}
	return gross.Div(price)
}

// Diverges reports whether the printed share count is off by more than the
// tolerated limit. It only informs logging, the adjustment itself is
// unconditional.
func Diverges(gross, price Money, printed Quantity) bool {
	return Divergence(gross, price, printed).GreaterThan(divergenceLimit)
}

// Divergence returns the relative gap, in percent, between the per-share
// price implied by a printed count and the printed price. Values above 1 are
// logged: they are the rounding defect the reconciler exists to correct.
func Divergence(gross, price Money, printed Quantity) decimal.Decimal {
	if printed.IsZero() || price.IsZero() {
		return decimal.Zero
	}
	implied := gross.DivQ(printed)
	ratio := implied.Amount().Div(price.Amount())
	return decimal.NewFromInt(1).Sub(ratio).Abs().Mul(decimal.NewFromInt(100)).Round(4)
}
