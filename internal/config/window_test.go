package config

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 28, hour, minute, 0, 0, time.Local)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("07:30", "22:30")
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}
	if w.String() != "07:30-22:30" {
		t.Fatalf("String = %q, want 07:30-22:30", w.String())
	}
}

func TestParseWindow_Invalid(t *testing.T) {
	cases := []struct{ start, end string }{
		{"25:00", "22:30"},
		{"07:61", "22:30"},
		{"garbage", "22:30"},
		{"22:30", "07:30"}, // overnight not supported
		{"10:00", "10:00"}, // empty window
	}
	for _, c := range cases {
		if _, err := ParseWindow(c.start, c.end); err == nil {
			t.Fatalf("ParseWindow(%q, %q) succeeded, want error", c.start, c.end)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w, err := ParseWindow("07:30", "22:30")
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{at(7, 29), false},
		{at(7, 30), true}, // inclusive start
		{at(12, 0), true},
		{at(22, 30), true}, // inclusive end
		{at(22, 31), false},
		{at(0, 0), false},
		{at(23, 59), false},
	}
	for _, c := range cases {
		if got := w.Contains(c.at); got != c.want {
			t.Fatalf("Contains(%s) = %v, want %v", c.at.Format("15:04"), got, c.want)
		}
	}
}
