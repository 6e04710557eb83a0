package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCanonicalPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"15551230000", "+15551230000"},
		{"+15551230000", "+15551230000"},
		{"  447700900123 ", "+447700900123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalPhone(tt.in); got != tt.want {
			t.Errorf("CanonicalPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{10000, "100"},
		{1250, "12.5"},
		{99, "0.99"},
		{123456, "1234.56"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.minor); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
	if got := DisplayAmount("USD", 1250); got != "USD 12.5" {
		t.Errorf("DisplayAmount = %q", got)
	}
}

func TestParseMinorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"100", 10000, nil},
		{"12.5", 1250, nil},
		{"0.30", 30, nil},
		{"1e3", 100000, nil},
		{"92233720368547758.07", math.MaxInt64, nil},
		{"12.345", 0, ErrAmountPrecision},
		{"0.004", 0, ErrAmountPrecision},
		{"1e17", 0, ErrAmountRange},
		{"92233720368547758.08", 0, ErrAmountRange},
		{"lots", 0, ErrAmountSyntax},
		{"", 0, ErrAmountSyntax},
	}
	for _, tt := range tests {
		got, err := ParseMinorUnits(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseMinorUnits(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("food"); !ok || c != CategoryFood {
		t.Errorf("expected Food, got %q (%v)", c, ok)
	}
	if c, ok := ParseCategory(" emi "); !ok || c != CategoryEMI {
		t.Errorf("expected EMI, got %q (%v)", c, ok)
	}
	if _, ok := ParseCategory("Crypto"); ok {
		t.Error("expected unknown category to be rejected")
	}
	if len(Taxonomy) != 11 {
		t.Errorf("expected 11 taxonomy entries, got %d", len(Taxonomy))
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2024, 7, 9, 23, 59, 0, 0, time.UTC)
	got := Day(in)
	if got.Format(DateLayout) != "2024-07-09" || got.Hour() != 0 {
		t.Errorf("unexpected day %v", got)
	}
}
