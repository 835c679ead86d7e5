package viac

import (
	"testing"

	"github.com/etnz/viac/date"
)

func TestTransactionSigns(t *testing.T) {
	day := date.New(2021, 3, 16)
	tests := []struct {
		tx       Transaction
		negative bool
	}{
		{testBuy(day, 10, 100, 1000), true},
		{testSell(day, 10, 100, 1000), false},
		{NewDeposit(day, "P1", M(100, "CHF")), false},
		{NewFee(day, "P1", M(0.48, "CHF")), true},
		{NewInterest(day, "P1", M(0.1, "CHF")), false},
		{NewDividend(day, "P1", testISIN, "", Q(10), M(0.5, "CHF"), M(5, "CHF")), false},
		{NewTaxRefund(day, "P1", testISIN, "", Q(10), M(0.15, "CHF"), M(1.5, "CHF")), false},
	}
	for _, tc := range tests {
		if err := tc.tx.Validate(); err != nil {
			t.Errorf("%s: Validate: %v", tc.tx.What(), err)
		}
		if got := tc.tx.Value().IsNegative(); got != tc.negative {
			t.Errorf("%s: negative=%v, want %v", tc.tx.What(), got, tc.negative)
		}
	}
}

// The constructors normalize the sign whatever the statement prints.
func TestConstructorsNormalizeSign(t *testing.T) {
	day := date.New(2021, 3, 16)
	b := NewBuy(day, "P1", testISIN, "", Q(10), M(100, "CHF"), M(-1000, "CHF"))
	if !b.Value().Equal(M(-1000, "CHF")) || !b.Gross.Equal(M(1000, "CHF")) {
		t.Errorf("buy: value %s gross %s", b.Value(), b.Gross)
	}
	f := NewFee(day, "P1", M(-0.48, "CHF"))
	if !f.Value().Equal(M(-0.48, "CHF")) {
		t.Errorf("fee: %s", f.Value())
	}
}

func TestValidateRejectsBadISIN(t *testing.T) {
	day := date.New(2021, 3, 16)
	b := NewBuy(day, "P1", "IE00B4L5Y984", "", Q(10), M(100, "CHF"), M(1000, "CHF"))
	if err := b.Validate(); err == nil {
		t.Fatal("expected an ISIN checksum error")
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind     Kind
		trade    bool
		security bool
	}{
		{KindBuy, true, true},
		{KindSell, true, true},
		{KindDividend, false, true},
		{KindTaxRefund, false, true},
		{KindDeposit, false, false},
		{KindFee, false, false},
		{KindInterest, false, false},
	}
	for _, tc := range tests {
		if got := tc.kind.IsTrade(); got != tc.trade {
			t.Errorf("%s.IsTrade: got %v", tc.kind, got)
		}
		if got := tc.kind.IsSecurity(); got != tc.security {
			t.Errorf("%s.IsSecurity: got %v", tc.kind, got)
		}
	}
}
