package viac

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Scale is the working precision of the converter: every amount, price and
// quantity is carried with at most 5 fractional digits, matching what the
// downstream importer accepts.
const Scale = 5

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Money represents a monetary value in a given currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value).RoundBank(Scale), cur: currency}
}

// ParseMoney parses a statement amount like "1'234.56" or "1 234,56" into a
// Money at working precision. Statement values already carry 5 digits or
// fewer; anything beyond is rounded half-to-even.
func ParseMoney(currency, amount string) (Money, error) {
	if err := ValidateCurrencyCode(currency); err != nil {
		return Money{}, err
	}
	v, err := parseDecimal(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{value: v, cur: currency}, nil
}

// parseDecimal reads a locale-tolerant statement number: apostrophe or space
// thousands separators, comma or point decimal mark.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	// a comma is a decimal mark only when there is no point.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return v.RoundBank(Scale), nil
}

// currency returns the money's currency metadata.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Amount() decimal.Decimal  { return m.value }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money               { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money               { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money     { return Money{value: m.value.Mul(q.value), cur: m.cur} }

// Div derives a quantity from an amount and a unit price, at working
// precision with half-to-even rounding.
func (m Money) Div(price Money) Quantity {
	return Quantity{value: m.value.Div(price.value).RoundBank(Scale)}
}

// DivQ returns the per-unit price for a quantity.
func (m Money) DivQ(q Quantity) Money {
	return Money{value: m.value.Div(q.value).RoundBank(Scale), cur: m.cur}
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// Convert restates the amount in another currency at the given rate.
func (m Money) Convert(target string, rate decimal.Decimal) Money {
	return Money{value: m.value.Mul(rate).RoundBank(Scale), cur: target}
}

// String returns the human readable representation, e.g. "CHF 1234.5".
func (m Money) String() string {
	return m.cur + " " + m.value.String()
}

// Fixed returns the export representation: point decimal mark, exactly 5
// fractional digits, no exponent, regardless of the source locale.
func (m Money) Fixed() string { return m.value.StringFixed(Scale) }

// Fraction returns the number of minor digits of the currency, per ISO 4217.
func (m Money) Fraction() int { return m.currency().Fraction }
