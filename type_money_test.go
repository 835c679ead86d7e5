package viac

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1'000.00", "1000"},
		{"1'234'567.89", "1234567.89"},
		{"1 234,56", "1234.56"},
		{"0.48", "0.48"},
		{"-829.75", "-829.75"},
		// beyond working precision, half-to-even
		{"0.123455", "0.12346"},
		{"0.123445", "0.12344"},
	}
	for _, tc := range tests {
		m, err := ParseMoney("CHF", tc.in)
		if err != nil {
			t.Errorf("ParseMoney(%q): %v", tc.in, err)
			continue
		}
		if got := m.Amount().String(); got != tc.want {
			t.Errorf("ParseMoney(%q): got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseMoneyRejects(t *testing.T) {
	if _, err := ParseMoney("chf", "1.00"); err == nil {
		t.Error("lowercase currency accepted")
	}
	if _, err := ParseMoney("CHF", "1.2.3"); err == nil {
		t.Error("malformed amount accepted")
	}
}

func TestMoneyDiv(t *testing.T) {
	// the derived quantity lands on the working precision, half-to-even
	q := M(1000, "CHF").Div(M(100, "CHF"))
	if !q.Equal(Q(10)) {
		t.Errorf("got %s, want 10", q)
	}
	q = M(829.75, "CHF").Div(M(88.504, "CHF"))
	if got := q.Fixed(); got != "9.37528" {
		t.Errorf("got %s, want 9.37528", got)
	}
}

func TestMoneyFixed(t *testing.T) {
	if got := M(-900, "CHF").Fixed(); got != "-900.00000" {
		t.Errorf("got %s", got)
	}
	if got := Q(10).Fixed(); got != "10.00000" {
		t.Errorf("got %s", got)
	}
}
