package statement

import (
	"fmt"
	"strings"

	"github.com/etnz/viac"
	"github.com/etnz/viac/date"
	"github.com/shopspring/decimal"
)

// page is the first page of an advice document, flattened into cells.
//
// The text extraction marks column breaks with a tab; splitting on those
// tabs restores the reading order the statement labels rely on: a label
// cell is followed by its value cell, exactly like two consecutive lines.
type page struct {
	cells []string
}

func newPage(lines []string) page {
	var cells []string
	for _, line := range lines {
		for _, c := range strings.Split(line, "\t") {
			c = strings.TrimSpace(c)
			if c != "" {
				cells = append(cells, c)
			}
		}
	}
	return page{cells: cells}
}

// contains reports whether any cell contains the phrase.
func (p page) contains(phrase string) bool {
	for _, c := range p.cells {
		if strings.Contains(c, phrase) {
			return true
		}
	}
	return false
}

// after returns the value following a label: the remainder of the label's
// own cell when non-empty, the next cell otherwise.
func (p page) after(label string) (string, bool) {
	for i, c := range p.cells {
		if !strings.HasPrefix(c, label) {
			continue
		}
		if rest := strings.TrimSpace(c[len(label):]); rest != "" {
			return rest, true
		}
		if i+1 < len(p.cells) {
			return p.cells[i+1], true
		}
	}
	return "", false
}

// numbers extracts the contract and portfolio numbers. Both labels are
// mandatory on every statement kind.
func (p page) numbers(loc *locale) (account, portfolio string, err error) {
	var ok bool
	if account, ok = p.after(loc.contract); !ok {
		return "", "", &viac.UnparseableLineError{Marker: loc.contract}
	}
	if portfolio, ok = p.after(loc.portfolio); !ok {
		return "", "", &viac.UnparseableLineError{Marker: loc.portfolio}
	}
	return account, portfolio, nil
}

// valutaDate finds the value date, a cell like "Valuta 16.03.2021".
func (p page) valutaDate(loc *locale) (date.Date, error) {
	for i, c := range p.cells {
		if !strings.HasPrefix(c, loc.valuta) {
			continue
		}
		s := strings.TrimSpace(c[len(loc.valuta):])
		if s == "" && i+1 < len(p.cells) {
			s = p.cells[i+1]
		}
		if d, err := date.ParseDotted(s); err == nil {
			return d, nil
		}
	}
	return date.Date{}, &viac.UnparseableLineError{Marker: loc.valuta + " <date>"}
}

// amount resolves a title-currency-amount triplet: the title cell, then a
// currency cell, then the amount cell. A conversion rate occasionally slips
// in between currency and amount and is skipped.
func (p page) amount(title string) (viac.Money, error) {
	for i, c := range p.cells {
		if c != title && !strings.HasPrefix(c, title+" ") {
			continue
		}
		if i+2 >= len(p.cells) {
			break
		}
		cur := p.cells[i+1]
		if len(cur) < 3 || !isCurrency(cur[:3]) {
			continue
		}
		value := p.cells[i+2]
		if strings.Contains(cur, ".") {
			// the currency cell actually holds a rate, shift by one
			cur = value
			if i+3 >= len(p.cells) || len(cur) < 3 || !isCurrency(cur[:3]) {
				continue
			}
			value = p.cells[i+3]
		}
		m, err := viac.ParseMoney(cur[:3], value)
		if err != nil {
			return viac.Money{}, &viac.UnparseableLineError{Marker: title, Err: err}
		}
		return m, nil
	}
	return viac.Money{}, &viac.UnparseableLineError{Marker: title}
}

// moneyAfter resolves a label immediately followed by a money value, like
// "Kurs:" then "USD 96.20".
func (p page) moneyAfter(label string) (viac.Money, error) {
	v, ok := p.after(label)
	if !ok {
		return viac.Money{}, &viac.UnparseableLineError{Marker: label}
	}
	cur, amount, found := strings.Cut(v, " ")
	if !found || !isCurrency(cur) {
		return viac.Money{}, &viac.UnparseableLineError{Marker: label, Err: fmt.Errorf("no money value in %q", v)}
	}
	m, err := viac.ParseMoney(cur, amount)
	if err != nil {
		return viac.Money{}, &viac.UnparseableLineError{Marker: label, Err: err}
	}
	return m, nil
}

// conversionRate returns the printed conversion rate, or zero when the
// statement has none. The value sits at a language-dependent word position
// on the label's line, or spills onto the next cell.
func (p page) conversionRate(loc *locale) decimal.Decimal {
	for i, c := range p.cells {
		if !strings.HasPrefix(c, loc.conversion) {
			continue
		}
		words := strings.Fields(c)
		if len(words) > loc.conversionAt {
			if r, err := parseRate(words[loc.conversionAt]); err == nil {
				return r
			}
		}
		if i+1 < len(p.cells) {
			if r, err := parseRate(p.cells[i+1]); err == nil {
				return r
			}
		}
	}
	return decimal.Decimal{}
}

// security extracts the ISIN, the display name and the printed share count.
//
// The German layout prints "<shares> Ant <name>" before the ISIN label, the
// French one "<shares> <name>" directly above it.
func (p page) security(loc *locale) (isin, name string, shares viac.Quantity, err error) {
	const isinLabel = "ISIN:"
	idx := -1
	for i, c := range p.cells {
		if strings.HasPrefix(c, isinLabel) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: isinLabel}
	}
	if isin = strings.TrimSpace(p.cells[idx][len(isinLabel):]); isin == "" {
		if idx+1 >= len(p.cells) {
			return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: isinLabel}
		}
		isin = p.cells[idx+1]
	}
	if err := viac.ValidateISIN(isin); err != nil {
		return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: isinLabel, Err: err}
	}

	if loc.lang == German {
		// "Ant" separates the share count from the name
		for i := idx - 1; i > 0; i-- {
			if p.cells[i] == "Ant" {
				shares, err = viac.ParseQuantity(p.cells[i-1])
				if err != nil {
					return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: "Ant", Err: err}
				}
				if i+1 < idx {
					name = strings.Join(p.cells[i+1:idx], " ")
				}
				return isin, name, shares, nil
			}
		}
		return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: "Ant"}
	}

	// French: shares two cells above the label, the name in between
	if idx < 2 {
		return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: isinLabel, Err: fmt.Errorf("no share count above")}
	}
	shares, err = viac.ParseQuantity(p.cells[idx-2])
	if err != nil {
		return "", "", viac.Quantity{}, &viac.UnparseableLineError{Marker: isinLabel, Err: err}
	}
	return isin, p.cells[idx-1], shares, nil
}

// interestDate extracts the credit date from the interest sentence.
func (p page) interestDate(loc *locale) (date.Date, error) {
	for _, c := range p.cells {
		if m := loc.interestDate.FindStringSubmatch(c); m != nil {
			return date.ParseDotted(m[1])
		}
	}
	return date.Date{}, &viac.UnparseableLineError{Marker: loc.interestDate.String()}
}

// advice builds the single transaction an advice document carries.
func (p page) advice(file string, loc *locale, class docClass, portfolio, account string) (viac.Transaction, error) {
	fail := func(err error) (viac.Transaction, error) { return nil, stamp(file, err) }

	switch class {
	case docBuy, docSell:
		isin, name, shares, err := p.security(loc)
		if err != nil {
			return fail(err)
		}
		price, err := p.moneyAfter(loc.price)
		if err != nil {
			return fail(err)
		}
		gross, err := p.amount(loc.gross)
		if err != nil {
			return fail(err)
		}
		valuta, err := p.amount(loc.valuta)
		if err != nil {
			return fail(err)
		}
		day, err := p.valutaDate(loc)
		if err != nil {
			return fail(err)
		}
		tax, _ := p.amount(loc.stampTax) // optional
		rate := p.conversionRate(loc)
		if class == docBuy {
			t := viac.NewBuy(day, portfolio, isin, name, shares, price, valuta)
			t.Gross, t.Tax, t.Rate, t.Account, t.Note = gross, tax, rate, account, file
			return t, nil
		}
		t := viac.NewSell(day, portfolio, isin, name, shares, price, valuta)
		t.Gross, t.Tax, t.Rate, t.Account, t.Note = gross, tax, rate, account, file
		return t, nil

	case docDividend:
		isin, name, shares, err := p.security(loc)
		if err != nil {
			return fail(err)
		}
		perShare, err := p.moneyAfter(loc.distribution)
		if err != nil {
			return fail(err)
		}
		valuta, err := p.amount(loc.valuta)
		if err != nil {
			return fail(err)
		}
		day, err := p.valutaDate(loc)
		if err != nil {
			return fail(err)
		}
		if p.contains(loc.taxRefundMarker) {
			t := viac.NewTaxRefund(day, portfolio, isin, name, shares, perShare, valuta)
			t.Account, t.Note = account, file
			return t, nil
		}
		t := viac.NewDividend(day, portfolio, isin, name, shares, perShare, valuta)
		t.Account, t.Note = account, file
		return t, nil

	case docInterest:
		amount, err := p.amount(loc.interest)
		if err != nil {
			return fail(err)
		}
		day, err := p.interestDate(loc)
		if err != nil {
			return fail(err)
		}
		t := viac.NewInterest(day, portfolio, amount)
		t.Account, t.Note = account, file
		return t, nil

	case docFee, docDeposit:
		valuta, err := p.amount(loc.valuta)
		if err != nil {
			return fail(err)
		}
		day, err := p.valutaDate(loc)
		if err != nil {
			return fail(err)
		}
		if class == docFee {
			t := viac.NewFee(day, portfolio, valuta)
			t.Account, t.Note = account, file
			return t, nil
		}
		t := viac.NewDeposit(day, portfolio, valuta)
		t.Account, t.Note = account, file
		return t, nil
	}
	return nil, fmt.Errorf("%s: %w", file, viac.ErrUnrecognizedDocument)
}

// isCurrency reports whether s is three ASCII uppercase letters.
func isCurrency(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// parseRate parses a conversion rate, tolerating apostrophe group marks.
func parseRate(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, "'", "")
	r, err := decimal.NewFromString(s)
	if err != nil || !r.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("invalid conversion rate %q", s)
	}
	return r, nil
}
