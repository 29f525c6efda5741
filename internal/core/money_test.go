package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.5", 50, true},
		{".5", 50, true},
		{"12.344", 1234, true}, // third digit below 5 rounds down
		{"12.345", 1235, true}, // half rounds up
		{"12.346", 1235, true},
		{"0", 0, true},         // zero is allowed here (budgets)
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12a.30", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q: unexpected error %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParsePositiveCentsRejectsZero(t *testing.T) {
	if _, err := ParsePositiveCents("0"); err == nil {
		t.Fatalf("expected error for zero")
	}
	if _, err := ParsePositiveCents("0.00"); err == nil {
		t.Fatalf("expected error for zero")
	}
	got, err := ParsePositiveCents("0.01")
	if err != nil || got != 1 {
		t.Fatalf("got %d, %v", got, err)
	}
}

func TestCentsFromFloat(t *testing.T) {
	got, err := CentsFromFloat(12.34)
	if err != nil || got != 1234 {
		t.Fatalf("got %d, %v", got, err)
	}
	if _, err := CentsFromFloat(-0.01); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "$12.34"},
		{5, "$0.05"},
		{-150, "-$1.50"},
		{0, "$0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Display(); got != tc.want {
			t.Fatalf("%d: got %q, want %q", tc.cents, got, tc.want)
		}
	}
}
