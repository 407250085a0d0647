package config

import (
	"fmt"
	"time"
)

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is the daily operating window during which polling is active.
// Pure configuration; never mutated at runtime.
type Window struct {
	Start Clock
	End   Clock
}

// ParseWindow parses "HH:MM" bounds into a Window. The end must come after
// the start; overnight windows are not supported.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	if e.minutes() <= s.minutes() {
		return Window{}, fmt.Errorf("window end %s not after start %s", e, s)
	}
	return Window{Start: s, End: e}, nil
}

func parseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q", s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("time of day %q out of range", s)
	}
	return c, nil
}

// Contains reports whether t falls inside the window. Both edges are
// inclusive, matching the wall-clock comparison the monitor gates on.
func (w Window) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.Start.minutes() && m <= w.End.minutes()
}

// String renders the window as "HH:MM-HH:MM".
func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
