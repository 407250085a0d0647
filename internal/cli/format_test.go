package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-50000, "-50,000"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.in); got != c.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatVND(t *testing.T) {
	if got := FormatVND(decimal.NewFromInt(500_000)); got != "500,000 VND" {
		t.Fatalf("FormatVND = %q", got)
	}
	if got := FormatVND(decimal.Zero); got != "0 VND" {
		t.Fatalf("FormatVND(0) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "0m 45s"},
		{125 * time.Second, "2m 5s"},
		{3*time.Hour + 2*time.Minute + 1*time.Second, "3h 2m 1s"},
		{26*time.Hour + 30*time.Minute, "1d 2h 30m 0s"},
		{-5 * time.Second, "0m 0s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
