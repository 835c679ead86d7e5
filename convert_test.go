package viac

import (
	"strings"
	"testing"

	"github.com/etnz/viac/date"
	"github.com/etnz/viac/eurofxref"
)

const testRates = `Date,USD,CHF
2021-03-16,1.19,1.06
2021-03-15,1.18,1.05
`

func testTable(t *testing.T) *eurofxref.Table {
	t.Helper()
	table, err := eurofxref.Read(strings.NewReader(testRates))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return table
}

func TestConverterRebooks(t *testing.T) {
	c := NewConverter("EUR", testTable(t))
	d := NewDeposit(date.New(2021, 3, 16), "P1", M(106, "CHF"))

	got := c.Apply(d).(Deposit)
	if want := M(100, "EUR"); !got.Value().Equal(want) {
		t.Errorf("got %s, want %s", got.Value(), want)
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("warnings: %v", c.Warnings())
	}
}

func TestConverterKeepsTargetCurrency(t *testing.T) {
	c := NewConverter("CHF", testTable(t))
	d := NewDeposit(date.New(2021, 3, 16), "P1", M(106, "CHF"))
	if got := c.Apply(d).(Deposit); !got.Value().Equal(d.Value()) {
		t.Errorf("got %s, want %s", got.Value(), d.Value())
	}
}

// A missing rate leaves the transaction in its booking currency and only
// adds a warning, so one exotic statement never sinks the whole run.
func TestConverterMissingRate(t *testing.T) {
	c := NewConverter("EUR", testTable(t))
	d := NewDeposit(date.New(2021, 1, 1), "P1", M(106, "CHF"))

	got := c.Apply(d).(Deposit)
	if !got.Value().Equal(d.Value()) {
		t.Errorf("got %s, want unconverted %s", got.Value(), d.Value())
	}
	warns := c.Warnings()
	if len(warns) != 1 || warns[0].Code != "MissingExchangeRate" {
		t.Fatalf("warnings: got %v, want one MissingExchangeRate", warns)
	}
}

func TestConverterRebooksTradeTax(t *testing.T) {
	c := NewConverter("EUR", testTable(t))
	b := NewBuy(date.New(2021, 3, 16), "P1", testISIN, "World ex CH", Q(10), M(100, "USD"), M(1060, "CHF"))
	b.Gross = M(1000, "USD")
	b.Tax = M(1.06, "CHF")

	got := c.Apply(b).(Buy)
	if want := M(-1000, "EUR"); !got.Value().Equal(want) {
		t.Errorf("value: got %s, want %s", got.Value(), want)
	}
	if want := M(1, "EUR"); !got.Tax.Equal(want) {
		t.Errorf("tax: got %s, want %s", got.Tax, want)
	}
	// the gross trading amount keeps its own currency
	if want := M(1000, "USD"); !got.Gross.Equal(want) {
		t.Errorf("gross: got %s, want %s", got.Gross, want)
	}
}

func TestNilConverterPassesThrough(t *testing.T) {
	var c *Converter
	d := NewDeposit(date.New(2021, 3, 16), "P1", M(106, "CHF"))
	if got := c.Apply(d).(Deposit); !got.Value().Equal(d.Value()) {
		t.Errorf("got %s, want %s", got.Value(), d.Value())
	}
	if c.Warnings() != nil {
		t.Errorf("warnings on nil converter: %v", c.Warnings())
	}
}
