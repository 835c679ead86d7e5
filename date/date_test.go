package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParseDotted(t *testing.T) {
	tests := []struct {
		in   string
		want Date
		err  bool
	}{
		{in: "21.03.2023", want: New(2023, time.March, 21)},
		{in: "01.12.2020", want: New(2020, time.December, 1)},
		{in: "2023-03-21", err: true},
		{in: "31.02.2023", err: true},
		{in: "", err: true},
	}
	for _, tc := range tests {
		got, err := ParseDotted(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("ParseDotted(%q) expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDotted(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDotted(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompareOrdersDays(t *testing.T) {
	a := New(2024, time.May, 3)
	b := a.Add(1)
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before() is inconsistent for %v and %v", a, b)
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() is inconsistent for %v and %v", a, b)
	}
}
